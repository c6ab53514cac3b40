package app

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shamimfewd/job-provider-server/internal/common"
	"github.com/shamimfewd/job-provider-server/internal/domain/job"
)

type JobService struct {
	repo job.Repository
}

func NewJobService(repo job.Repository) *JobService {
	return &JobService{repo: repo}
}

func (s *JobService) Create(ctx context.Context, j job.Job) (primitive.ObjectID, error) {
	if j.Title == "" {
		return primitive.NilObjectID, common.NewError(common.CodeValidation, "jobTitle is required", nil)
	}
	if j.Buyer.Email == "" {
		return primitive.NilObjectID, common.NewError(common.CodeValidation, "buyer email is required", nil)
	}
	return s.repo.Insert(ctx, j)
}

func (s *JobService) Get(ctx context.Context, id primitive.ObjectID) (*job.Job, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *JobService) ListAll(ctx context.Context) ([]job.Job, error) {
	return s.repo.ListAll(ctx)
}

func (s *JobService) ListPage(ctx context.Context, params job.ListParams) ([]job.Job, error) {
	if err := validateListParams(params); err != nil {
		return nil, err
	}
	return s.repo.ListPage(ctx, params)
}

func (s *JobService) Count(ctx context.Context, params job.ListParams) (int64, error) {
	return s.repo.Count(ctx, params)
}

// ListByOwner serves the /jobs/:email route: the requested email must match
// the authenticated session's email.
func (s *JobService) ListByOwner(ctx context.Context, email, tokenEmail string) ([]job.Job, error) {
	if email != tokenEmail {
		return nil, common.NewError(common.CodeForbidden, "forbidden access", nil)
	}
	return s.repo.ListByBuyer(ctx, email)
}

func (s *JobService) Upsert(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*job.UpdateResult, error) {
	delete(fields, "_id")
	if len(fields) == 0 {
		return nil, common.NewError(common.CodeValidation, "no fields to update", nil)
	}
	return s.repo.Upsert(ctx, id, fields)
}

func (s *JobService) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return s.repo.Delete(ctx, id)
}

func validateListParams(params job.ListParams) error {
	fields := map[string]string{}
	if params.Page < 1 {
		fields["page"] = "page must be >= 1"
	}
	if params.Size < 1 {
		fields["size"] = "size must be >= 1"
	}
	if params.Sort != "" && params.Sort != job.SortAsc && params.Sort != job.SortDesc {
		fields["sort"] = "sort must be asc or desc"
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid pagination", fields)
	}
	return nil
}
