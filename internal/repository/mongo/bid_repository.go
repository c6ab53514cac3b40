package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shamimfewd/job-provider-server/internal/common"
	"github.com/shamimfewd/job-provider-server/internal/domain/bid"
)

type BidRepository struct {
	col *mongo.Collection
}

func NewBidRepository(db *mongo.Database) *BidRepository {
	return &BidRepository{col: db.Collection("bids")}
}

// Insert relies on the unique (email, jobId) index: a second bid for the
// same job from the same bidder comes back as a conflict, even when two
// submissions race past the service-level pre-check.
func (r *BidRepository) Insert(ctx context.Context, b bid.Bid) (primitive.ObjectID, error) {
	result, err := r.col.InsertOne(ctx, b)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, common.NewError(common.CodeConflict, "bid already exists", err)
		}
		return primitive.NilObjectID, common.NewError(common.CodeInternal, "failed to insert bid", err)
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, common.NewError(common.CodeInternal, "unexpected inserted id type", nil)
	}
	return id, nil
}

func (r *BidRepository) ExistsForJob(ctx context.Context, email, jobID string) (bool, error) {
	err := r.col.FindOne(ctx, bson.M{"email": email, "jobId": jobID}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, common.NewError(common.CodeInternal, "failed to check bid", err)
	}
	return true, nil
}

func (r *BidRepository) ListByBidder(ctx context.Context, email string) ([]bid.Bid, error) {
	return r.list(ctx, bson.M{"email": email})
}

func (r *BidRepository) ListByBuyer(ctx context.Context, email string) ([]bid.Bid, error) {
	return r.list(ctx, bson.M{"buyer.email": email})
}

func (r *BidRepository) Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*bid.UpdateResult, error) {
	result, err := r.col.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update bid", err)
	}
	return &bid.UpdateResult{
		MatchedCount:  result.MatchedCount,
		ModifiedCount: result.ModifiedCount,
	}, nil
}

func (r *BidRepository) list(ctx context.Context, filter bson.M) ([]bid.Bid, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list bids", err)
	}
	defer cursor.Close(ctx)
	items := []bid.Bid{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to decode bids", err)
	}
	return items, nil
}
