package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shamimfewd/job-provider-server/internal/common"
	"github.com/shamimfewd/job-provider-server/internal/domain/job"
)

type JobRepository struct {
	col *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{col: db.Collection("jobs")}
}

func (r *JobRepository) Insert(ctx context.Context, j job.Job) (primitive.ObjectID, error) {
	result, err := r.col.InsertOne(ctx, j)
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.CodeInternal, "failed to insert job", err)
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, common.NewError(common.CodeInternal, "unexpected inserted id type", nil)
	}
	return id, nil
}

func (r *JobRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*job.Job, error) {
	var j job.Job
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&j)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.NewError(common.CodeNotFound, "job not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load job", err)
	}
	return &j, nil
}

func (r *JobRepository) ListAll(ctx context.Context) ([]job.Job, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list jobs", err)
	}
	return decodeJobs(ctx, cursor)
}

func (r *JobRepository) ListPage(ctx context.Context, params job.ListParams) ([]job.Job, error) {
	opts := options.Find().
		SetSkip(int64((params.Page - 1) * params.Size)).
		SetLimit(int64(params.Size))
	if params.Sort != "" {
		order := -1
		if params.Sort == job.SortAsc {
			order = 1
		}
		opts.SetSort(bson.D{{Key: "deadline", Value: order}})
	}
	cursor, err := r.col.Find(ctx, searchFilter(params), opts)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list jobs", err)
	}
	return decodeJobs(ctx, cursor)
}

func (r *JobRepository) Count(ctx context.Context, params job.ListParams) (int64, error) {
	count, err := r.col.CountDocuments(ctx, searchFilter(params))
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count jobs", err)
	}
	return count, nil
}

func (r *JobRepository) ListByBuyer(ctx context.Context, email string) ([]job.Job, error) {
	cursor, err := r.col.Find(ctx, bson.M{"buyer.email": email})
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list buyer jobs", err)
	}
	return decodeJobs(ctx, cursor)
}

func (r *JobRepository) Upsert(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*job.UpdateResult, error) {
	result, err := r.col.UpdateByID(ctx, id, bson.M{"$set": fields}, options.Update().SetUpsert(true))
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update job", err)
	}
	updated := &job.UpdateResult{
		MatchedCount:  result.MatchedCount,
		ModifiedCount: result.ModifiedCount,
	}
	if upserted, ok := result.UpsertedID.(primitive.ObjectID); ok {
		updated.UpsertedID = upserted.Hex()
	}
	return updated, nil
}

func (r *JobRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to delete job", err)
	}
	return result.DeletedCount, nil
}

// searchFilter mirrors the listing query: an always-present case-insensitive
// title regex (empty search matches everything) plus optional category equality.
func searchFilter(params job.ListParams) bson.M {
	filter := bson.M{
		"jobTitle": bson.M{"$regex": params.Search, "$options": "i"},
	}
	if params.Category != "" {
		filter["category"] = params.Category
	}
	return filter
}

func decodeJobs(ctx context.Context, cursor *mongo.Cursor) ([]job.Job, error) {
	defer cursor.Close(ctx)
	items := []job.Job{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to decode jobs", err)
	}
	return items, nil
}
