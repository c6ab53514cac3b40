package handlers

import (
	"net/http"
	"strconv"

	"github.com/shamimfewd/job-provider-server/internal/app"
	"github.com/shamimfewd/job-provider-server/internal/common"
	"github.com/shamimfewd/job-provider-server/internal/domain/job"
	"github.com/shamimfewd/job-provider-server/internal/http/middleware"
	"github.com/shamimfewd/job-provider-server/internal/http/response"
)

type JobHandler struct {
	jobs *app.JobService
}

func NewJobHandler(jobs *app.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

type jobRequest struct {
	Title       string    `json:"jobTitle" validate:"required"`
	Category    string    `json:"category"`
	Deadline    string    `json:"deadline"`
	MinPrice    float64   `json:"minPrice"`
	MaxPrice    float64   `json:"maxPrice"`
	Description string    `json:"description"`
	Buyer       job.Buyer `json:"buyer" validate:"required"`
}

type insertResponse struct {
	InsertedID string `json:"insertedId"`
}

type deleteResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := validateStruct(req); err != nil {
		response.Error(w, err)
		return
	}
	id, err := h.jobs.Create(r.Context(), job.Job{
		Title:       req.Title,
		Category:    req.Category,
		Deadline:    req.Deadline,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		Description: req.Description,
		Buyer:       req.Buyer,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, insertResponse{InsertedID: id.Hex()})
}

// Get returns the job document, or a 200 null body when the id is unknown.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			response.JSON(w, http.StatusOK, nil)
			return
		}
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.jobs.ListAll(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *JobHandler) ListPage(w http.ResponseWriter, r *http.Request) {
	params, err := listParamsFromQuery(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.jobs.ListPage(r.Context(), params)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *JobHandler) Count(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	count, err := h.jobs.Count(r.Context(), job.ListParams{
		Search:   query.Get("search"),
		Category: query.Get("filter"),
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, countResponse{Count: count})
}

func (h *JobHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
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
	items, err := h.jobs.ListByOwner(r.Context(), email, tokenEmail)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

// Update performs a $set upsert of whatever fields the body carries;
// partial documents are allowed.
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	result, err := h.jobs.Upsert(r.Context(), id, fields)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	count, err := h.jobs.Delete(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, deleteResponse{DeletedCount: count})
}

func listParamsFromQuery(r *http.Request) (job.ListParams, error) {
	query := r.URL.Query()
	fields := map[string]string{}
	size, err := strconv.Atoi(query.Get("size"))
	if err != nil {
		fields["size"] = "size must be a number"
	}
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil {
		fields["page"] = "page must be a number"
	}
	if len(fields) > 0 {
		return job.ListParams{}, common.NewValidationError("invalid pagination", fields)
	}
	return job.ListParams{
		Search:   query.Get("search"),
		Category: query.Get("filter"),
		Sort:     query.Get("sort"),
		Page:     page,
		Size:     size,
	}, nil
}
