package app

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shamimfewd/job-provider-server/internal/common"
	"github.com/shamimfewd/job-provider-server/internal/domain/bid"
)

const duplicateBidMessage = "you have already placed a bid on this job!"

type BidService struct {
	repo bid.Repository
}

func NewBidService(repo bid.Repository) *BidService {
	return &BidService{repo: repo}
}

// Place inserts a bid. The pre-check gives the friendly message on the
// sequential path; the unique index behind Insert closes the race between
// check and insert, so concurrent duplicates still come back as a conflict.
func (s *BidService) Place(ctx context.Context, b bid.Bid) (primitive.ObjectID, error) {
	if b.Email == "" {
		return primitive.NilObjectID, common.NewError(common.CodeValidation, "email is required", nil)
	}
	if b.JobID == "" {
		return primitive.NilObjectID, common.NewError(common.CodeValidation, "jobId is required", nil)
	}
	if b.Status == "" {
		b.Status = bid.StatusPending
	}
	exists, err := s.repo.ExistsForJob(ctx, b.Email, b.JobID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if exists {
		return primitive.NilObjectID, common.NewError(common.CodeConflict, duplicateBidMessage, nil)
	}
	id, err := s.repo.Insert(ctx, b)
	if err != nil {
		if common.Is(err, common.CodeConflict) {
			return primitive.NilObjectID, common.NewError(common.CodeConflict, duplicateBidMessage, nil)
		}
		return primitive.NilObjectID, err
	}
	return id, nil
}

func (s *BidService) ListByBidder(ctx context.Context, email, tokenEmail string) ([]bid.Bid, error) {
	if email != tokenEmail {
		return nil, common.NewError(common.CodeForbidden, "forbidden access", nil)
	}
	return s.repo.ListByBidder(ctx, email)
}

// ListRequests returns bids placed on the given buyer's jobs.
func (s *BidService) ListRequests(ctx context.Context, email, tokenEmail string) ([]bid.Bid, error) {
	if email != tokenEmail {
		return nil, common.NewError(common.CodeForbidden, "forbidden access", nil)
	}
	return s.repo.ListByBuyer(ctx, email)
}

func (s *BidService) Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*bid.UpdateResult, error) {
	delete(fields, "_id")
	if len(fields) == 0 {
		return nil, common.NewError(common.CodeValidation, "no fields to update", nil)
	}
	return s.repo.Update(ctx, id, fields)
}
