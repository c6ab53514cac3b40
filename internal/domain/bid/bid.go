package bid

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusComplete = "complete"
)

type Buyer struct {
	Email string `bson:"email" json:"email"`
	Name  string `bson:"name,omitempty" json:"name,omitempty"`
	Photo string `bson:"photo,omitempty" json:"photo,omitempty"`
}

// Bid carries a denormalized copy of the job's title, category, deadline
// and buyer so the listing routes answer without a join.
type Bid struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email    string             `bson:"email" json:"email"`
	JobID    string             `bson:"jobId" json:"jobId"`
	JobTitle string             `bson:"jobTitle,omitempty" json:"jobTitle,omitempty"`
	Category string             `bson:"category,omitempty" json:"category,omitempty"`
	Deadline string             `bson:"deadline,omitempty" json:"deadline,omitempty"`
	Price    float64            `bson:"price" json:"price"`
	Comment  string             `bson:"comment,omitempty" json:"comment,omitempty"`
	Status   string             `bson:"status" json:"status"`
	Buyer    Buyer              `bson:"buyer" json:"buyer"`
}

type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

type Repository interface {
	Insert(ctx context.Context, b Bid) (primitive.ObjectID, error)
	ExistsForJob(ctx context.Context, email, jobID string) (bool, error)
	ListByBidder(ctx context.Context, email string) ([]Bid, error)
	ListByBuyer(ctx context.Context, email string) ([]Bid, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*UpdateResult, error)
}
