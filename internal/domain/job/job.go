package job

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Buyer struct {
	Email string `bson:"email" json:"email"`
	Name  string `bson:"name,omitempty" json:"name,omitempty"`
	Photo string `bson:"photo,omitempty" json:"photo,omitempty"`
}

type Job struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title       string             `bson:"jobTitle" json:"jobTitle"`
	Category    string             `bson:"category" json:"category"`
	Deadline    string             `bson:"deadline" json:"deadline"`
	MinPrice    float64            `bson:"minPrice" json:"minPrice"`
	MaxPrice    float64            `bson:"maxPrice" json:"maxPrice"`
	Description string             `bson:"description" json:"description"`
	Buyer       Buyer              `bson:"buyer" json:"buyer"`
}

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListParams selects a page of jobs: case-insensitive title search,
// optional category equality, optional deadline sort. Page is 1-based.
type ListParams struct {
	Search   string
	Category string
	Sort     string
	Page     int
	Size     int
}

type UpdateResult struct {
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedID    string `json:"upsertedId,omitempty"`
}

type Repository interface {
	Insert(ctx context.Context, j Job) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Job, error)
	ListAll(ctx context.Context) ([]Job, error)
	ListPage(ctx context.Context, params ListParams) ([]Job, error)
	Count(ctx context.Context, params ListParams) (int64, error)
	ListByBuyer(ctx context.Context, email string) ([]Job, error)
	Upsert(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}
