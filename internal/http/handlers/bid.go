package handlers

import (
	"net/http"

	"github.com/shamimfewd/job-provider-server/internal/app"
	"github.com/shamimfewd/job-provider-server/internal/common"
	"github.com/shamimfewd/job-provider-server/internal/domain/bid"
	"github.com/shamimfewd/job-provider-server/internal/http/middleware"
	"github.com/shamimfewd/job-provider-server/internal/http/response"
)

type BidHandler struct {
	bids *app.BidService
}

func NewBidHandler(bids *app.BidService) *BidHandler {
	return &BidHandler{bids: bids}
}

type bidRequest struct {
	Email    string    `json:"email" validate:"required,email"`
	JobID    string    `json:"jobId" validate:"required"`
	JobTitle string    `json:"jobTitle"`
	Category string    `json:"category"`
	Deadline string    `json:"deadline"`
	Price    float64   `json:"price"`
	Comment  string    `json:"comment"`
	Status   string    `json:"status"`
	Buyer    bid.Buyer `json:"buyer"`
}

func (h *BidHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bidRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := validateStruct(req); err != nil {
		response.Error(w, err)
		return
	}
	id, err := h.bids.Place(r.Context(), bid.Bid{
		Email:    req.Email,
		JobID:    req.JobID,
		JobTitle: req.JobTitle,
		Category: req.Category,
		Deadline: req.Deadline,
		Price:    req.Price,
		Comment:  req.Comment,
		Status:   req.Status,
		Buyer:    req.Buyer,
	})
	if err != nil {
		// a duplicate bid answers with the original plain-text message
		if common.Is(err, common.CodeConflict) {
			response.Text(w, http.StatusBadRequest, err.Error())
			return
		}
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, insertResponse{InsertedID: id.Hex()})
}

func (h *BidHandler) ListByBidder(w http.ResponseWriter, r *http.Request) {
	tokenEmail, ok := middleware.EmailFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	email, err := emailFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.bids.ListByBidder(r.Context(), email, tokenEmail)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *BidHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	tokenEmail, ok := middleware.EmailFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	email, err := emailFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.bids.ListRequests(r.Context(), email, tokenEmail)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

// Update $sets whatever fields the body carries onto the bid; in practice
// the frontend only ever sends a status change.
func (h *BidHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	fields := map[string]interface{}{}
	if err := decodeJSON(r, &fields); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.bids.Update(r.Context(), id, fields)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}
