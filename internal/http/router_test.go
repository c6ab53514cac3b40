package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shamimfewd/job-provider-server/internal/app"
	"github.com/shamimfewd/job-provider-server/internal/common"
	"github.com/shamimfewd/job-provider-server/internal/domain/bid"
	"github.com/shamimfewd/job-provider-server/internal/domain/job"
	"github.com/shamimfewd/job-provider-server/internal/http/handlers"
	httpmw "github.com/shamimfewd/job-provider-server/internal/http/middleware"
	"github.com/shamimfewd/job-provider-server/internal/security"
)

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs []job.Job
}

func (r *fakeJobRepo) Insert(ctx context.Context, j job.Job) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j.ID = primitive.NewObjectID()
	r.jobs = append(r.jobs, j)
	return j.ID, nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.ID == id {
			loaded := j
			return &loaded, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "job not found", nil)
}

func (r *fakeJobRepo) ListAll(ctx context.Context) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]job.Job{}, r.jobs...), nil
}

func (r *fakeJobRepo) filtered(params job.ListParams) []job.Job {
	items := []job.Job{}
	for _, j := range r.jobs {
		if params.Search != "" && !strings.Contains(strings.ToLower(j.Title), strings.ToLower(params.Search)) {
			continue
		}
		if params.Category != "" && j.Category != params.Category {
			continue
		}
		items = append(items, j)
	}
	if params.Sort != "" {
		sort.SliceStable(items, func(a, b int) bool {
			if params.Sort == job.SortAsc {
				return items[a].Deadline < items[b].Deadline
			}
			return items[a].Deadline > items[b].Deadline
		})
	}
	return items
}

func (r *fakeJobRepo) ListPage(ctx context.Context, params job.ListParams) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.filtered(params)
	skip := (params.Page - 1) * params.Size
	if skip >= len(items) {
		return []job.Job{}, nil
	}
	items = items[skip:]
	if len(items) > params.Size {
		items = items[:params.Size]
	}
	return items, nil
}

func (r *fakeJobRepo) Count(ctx context.Context, params job.ListParams) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.filtered(params))), nil
}

func (r *fakeJobRepo) ListByBuyer(ctx context.Context, email string) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []job.Job{}
	for _, j := range r.jobs {
		if j.Buyer.Email == email {
			items = append(items, j)
		}
	}
	return items, nil
}

func (r *fakeJobRepo) Upsert(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*job.UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, j := range r.jobs {
		if j.ID == id {
			if title, ok := fields["jobTitle"].(string); ok {
				r.jobs[i].Title = title
			}
			return &job.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	r.jobs = append(r.jobs, job.Job{ID: id})
	return &job.UpdateResult{UpsertedID: id.Hex()}, nil
}

func (r *fakeJobRepo) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, j := range r.jobs {
		if j.ID == id {
			r.jobs = append(r.jobs[:i], r.jobs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type fakeBidRepo struct {
	mu   sync.Mutex
	bids []bid.Bid
}

func (r *fakeBidRepo) Insert(ctx context.Context, b bid.Bid) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bids {
		if existing.Email == b.Email && existing.JobID == b.JobID {
			return primitive.NilObjectID, common.NewError(common.CodeConflict, "bid already exists", nil)
		}
	}
	b.ID = primitive.NewObjectID()
	r.bids = append(r.bids, b)
	return b.ID, nil
}

func (r *fakeBidRepo) ExistsForJob(ctx context.Context, email, jobID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bids {
		if existing.Email == email && existing.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBidRepo) ListByBidder(ctx context.Context, email string) ([]bid.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []bid.Bid{}
	for _, existing := range r.bids {
		if existing.Email == email {
			items = append(items, existing)
		}
	}
	return items, nil
}

func (r *fakeBidRepo) ListByBuyer(ctx context.Context, email string) ([]bid.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []bid.Bid{}
	for _, existing := range r.bids {
		if existing.Buyer.Email == email {
			items = append(items, existing)
		}
	}
	return items, nil
}

func (r *fakeBidRepo) Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*bid.UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.bids {
		if existing.ID == id {
			if status, ok := fields["status"].(string); ok {
				r.bids[i].Status = status
			}
			return &bid.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &bid.UpdateResult{}, nil
}

type testEnv struct {
	router http.Handler
	jobs   *fakeJobRepo
	bids   *fakeBidRepo
	jwt    *security.JWTProvider
}

func newTestEnv() *testEnv {
	jobs := &fakeJobRepo{}
	bids := &fakeBidRepo{}
	jwtProvider := security.NewJWTProvider("test-secret")
	router := NewRouter(RouterDependencies{
		AuthHandler:    handlers.NewAuthHandler(jwtProvider, time.Hour, false),
		JobHandler:     handlers.NewJobHandler(app.NewJobService(jobs)),
		BidHandler:     handlers.NewBidHandler(app.NewBidService(bids)),
		AuthMiddleware: httpmw.NewAuthMiddleware(jwtProvider),
	})
	return &testEnv{router: router, jobs: jobs, bids: bids, jwt: jwtProvider}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func (e *testEnv) sessionFor(t *testing.T, email string) *http.Cookie {
	t.Helper()
	token, _, err := e.jwt.Generate(email, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return &http.Cookie{Name: httpmw.SessionCookieName, Value: token}
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode body %q: %v", recorder.Body.String(), err)
	}
}

func TestHealthRoute(t *testing.T) {
	env := newTestEnv()
	recorder := env.do(t, http.MethodGet, "/", nil, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if recorder.Body.String() != "job provider is running" {
		t.Fatalf("unexpected body: %q", recorder.Body.String())
	}
}

func TestIssueTokenSetsCookie(t *testing.T) {
	env := newTestEnv()
	recorder := env.do(t, http.MethodPost, "/jwt", map[string]string{"email": "a@x.com"}, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var body map[string]bool
	decodeBody(t, recorder, &body)
	if !body["success"] {
		t.Fatalf("expected success body, got %s", recorder.Body.String())
	}
	cookies := recorder.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != httpmw.SessionCookieName {
		t.Fatalf("expected session cookie, got %+v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatal("expected HttpOnly cookie")
	}
	if _, err := env.jwt.Parse(cookies[0].Value); err != nil {
		t.Fatalf("cookie does not carry a valid token: %v", err)
	}
}

func TestIssueTokenRequiresEmail(t *testing.T) {
	env := newTestEnv()
	recorder := env.do(t, http.MethodPost, "/jwt", map[string]string{"name": "nobody"}, nil)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv()
	recorder := env.do(t, http.MethodGet, "/logout", nil, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	cookies := recorder.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 || cookies[0].Value != "" {
		t.Fatalf("expected expiring empty cookie, got %+v", cookies)
	}
}

func TestGetJobReturnsNullWhenAbsent(t *testing.T) {
	env := newTestEnv()
	recorder := env.do(t, http.MethodGet, "/job/"+primitive.NewObjectID().Hex(), nil, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if strings.TrimSpace(recorder.Body.String()) != "null" {
		t.Fatalf("expected null body, got %q", recorder.Body.String())
	}
}

func TestGetJobRejectsMalformedID(t *testing.T) {
	env := newTestEnv()
	recorder := env.do(t, http.MethodGet, "/job/not-an-object-id", nil, nil)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestJobCreateAndRoundTrip(t *testing.T) {
	env := newTestEnv()
	recorder := env.do(t, http.MethodPost, "/job", map[string]interface{}{
		"jobTitle": "Build API",
		"category": "backend",
		"deadline": "2025-01-01",
		"buyer":    map[string]string{"email": "a@x.com"},
	}, nil)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var created map[string]string
	decodeBody(t, recorder, &created)

	recorder = env.do(t, http.MethodGet, "/job/"+created["insertedId"], nil, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var loaded job.Job
	decodeBody(t, recorder, &loaded)
	if loaded.Title != "Build API" || loaded.Category != "backend" || loaded.Deadline != "2025-01-01" {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestAllJobsValidatesPagination(t *testing.T) {
	env := newTestEnv()
	for _, path := range []string{
		"/all-jobs",
		"/all-jobs?size=abc&page=1",
		"/all-jobs?size=10&page=abc",
		"/all-jobs?size=0&page=1",
		"/all-jobs?size=10&page=0",
	} {
		recorder := env.do(t, http.MethodGet, path, nil, nil)
		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", path, recorder.Code)
		}
	}
}

func TestAllJobsPaginationCoversFilteredSet(t *testing.T) {
	env := newTestEnv()
	for i := 0; i < 7; i++ {
		_, _ = env.jobs.Insert(context.Background(), job.Job{
			Title:    fmt.Sprintf("Backend task %d", i),
			Category: "backend",
			Deadline: fmt.Sprintf("2025-01-0%d", i+1),
			Buyer:    job.Buyer{Email: "a@x.com"},
		})
	}
	_, _ = env.jobs.Insert(context.Background(), job.Job{Title: "Design logo", Category: "design", Buyer: job.Buyer{Email: "a@x.com"}})

	seen := map[string]bool{}
	size := 3
	for page := 1; ; page++ {
		path := fmt.Sprintf("/all-jobs?size=%d&page=%d&search=backend&filter=backend&sort=asc", size, page)
		recorder := env.do(t, http.MethodGet, path, nil, nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
		}
		var items []job.Job
		decodeBody(t, recorder, &items)
		if len(items) > size {
			t.Fatalf("page %d exceeds size: %d items", page, len(items))
		}
		for _, item := range items {
			if seen[item.ID.Hex()] {
				t.Fatalf("duplicate job across pages: %s", item.ID.Hex())
			}
			seen[item.ID.Hex()] = true
		}
		if len(items) < size {
			break
		}
	}
	if len(seen) != 7 {
		t.Fatalf("expected 7 jobs across all pages, got %d", len(seen))
	}
}

func TestJobsCount(t *testing.T) {
	env := newTestEnv()
	_, _ = env.jobs.Insert(context.Background(), job.Job{Title: "Build API", Category: "backend", Buyer: job.Buyer{Email: "a@x.com"}})
	_, _ = env.jobs.Insert(context.Background(), job.Job{Title: "Design logo", Category: "design", Buyer: job.Buyer{Email: "a@x.com"}})

	recorder := env.do(t, http.MethodGet, "/jobs-count?filter=backend", nil, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var body map[string]int64
	decodeBody(t, recorder, &body)
	if body["count"] != 1 {
		t.Fatalf("expected count 1, got %d", body["count"])
	}
}

func TestOwnerJobsGate(t *testing.T) {
	env := newTestEnv()
	_, _ = env.jobs.Insert(context.Background(), job.Job{Title: "Mine", Buyer: job.Buyer{Email: "a@x.com"}})
	_, _ = env.jobs.Insert(context.Background(), job.Job{Title: "Theirs", Buyer: job.Buyer{Email: "b@x.com"}})

	recorder := env.do(t, http.MethodGet, "/jobs/a@x.com", nil, nil)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", recorder.Code)
	}
	var body map[string]string
	decodeBody(t, recorder, &body)
	if body["message"] != "unauthorized access" {
		t.Fatalf("unexpected 401 body: %s", recorder.Body.String())
	}

	garbage := &http.Cookie{Name: httpmw.SessionCookieName, Value: "garbage"}
	recorder = env.do(t, http.MethodGet, "/jobs/a@x.com", nil, garbage)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with invalid cookie, got %d", recorder.Code)
	}

	recorder = env.do(t, http.MethodGet, "/jobs/a@x.com", nil, env.sessionFor(t, "b@x.com"))
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403 on email mismatch, got %d", recorder.Code)
	}
	decodeBody(t, recorder, &body)
	if body["message"] != "forbidden access" {
		t.Fatalf("unexpected 403 body: %s", recorder.Body.String())
	}

	recorder = env.do(t, http.MethodGet, "/jobs/a@x.com", nil, env.sessionFor(t, "a@x.com"))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var items []job.Job
	decodeBody(t, recorder, &items)
	if len(items) != 1 || items[0].Title != "Mine" {
		t.Fatalf("expected only owned jobs, got %+v", items)
	}
}

func TestMyBidsRouteIsGated(t *testing.T) {
	env := newTestEnv()
	_, _ = env.bids.Insert(context.Background(), bid.Bid{Email: "a@x.com", JobID: "j1", Status: "pending"})

	recorder := env.do(t, http.MethodGet, "/my-bids/a@x.com", nil, nil)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", recorder.Code)
	}

	recorder = env.do(t, http.MethodGet, "/my-bids/a@x.com", nil, env.sessionFor(t, "a@x.com"))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var items []bid.Bid
	decodeBody(t, recorder, &items)
	if len(items) != 1 || items[0].Email != "a@x.com" {
		t.Fatalf("expected one bid, got %+v", items)
	}
}

func TestBidRequestsByBuyer(t *testing.T) {
	env := newTestEnv()
	_, _ = env.bids.Insert(context.Background(), bid.Bid{Email: "a@x.com", JobID: "j1", Buyer: bid.Buyer{Email: "owner@x.com"}})
	_, _ = env.bids.Insert(context.Background(), bid.Bid{Email: "b@x.com", JobID: "j2", Buyer: bid.Buyer{Email: "other@x.com"}})

	recorder := env.do(t, http.MethodGet, "/bid-requests/owner@x.com", nil, env.sessionFor(t, "owner@x.com"))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var items []bid.Bid
	decodeBody(t, recorder, &items)
	if len(items) != 1 || items[0].Buyer.Email != "owner@x.com" {
		t.Fatalf("expected one bid request, got %+v", items)
	}
}

func TestDuplicateBidReturnsPlainText400(t *testing.T) {
	env := newTestEnv()
	payload := map[string]interface{}{"email": "a@x.com", "jobId": "j1", "price": 100}

	recorder := env.do(t, http.MethodPost, "/bid", payload, nil)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("first bid: expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder = env.do(t, http.MethodPost, "/bid", payload, nil)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("second bid: expected 400, got %d", recorder.Code)
	}
	if recorder.Body.String() != "you have already placed a bid on this job!" {
		t.Fatalf("unexpected body: %q", recorder.Body.String())
	}
	if len(env.bids.bids) != 1 {
		t.Fatalf("expected exactly one persisted bid, got %d", len(env.bids.bids))
	}
}

func TestDeleteJobIsIdempotent(t *testing.T) {
	env := newTestEnv()
	id, _ := env.jobs.Insert(context.Background(), job.Job{Title: "Doomed", Buyer: job.Buyer{Email: "a@x.com"}})

	recorder := env.do(t, http.MethodDelete, "/job/"+id.Hex(), nil, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("first delete: expected 200, got %d", recorder.Code)
	}
	var body map[string]int64
	decodeBody(t, recorder, &body)
	if body["deletedCount"] != 1 {
		t.Fatalf("first delete: expected count 1, got %d", body["deletedCount"])
	}

	recorder = env.do(t, http.MethodDelete, "/job/"+id.Hex(), nil, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("second delete: expected 200, got %d", recorder.Code)
	}
	decodeBody(t, recorder, &body)
	if body["deletedCount"] != 0 {
		t.Fatalf("second delete: expected count 0, got %d", body["deletedCount"])
	}
}

func TestUpdateJobUpserts(t *testing.T) {
	env := newTestEnv()
	id, _ := env.jobs.Insert(context.Background(), job.Job{Title: "Old", Buyer: job.Buyer{Email: "a@x.com"}})

	recorder := env.do(t, http.MethodPut, "/job/"+id.Hex(), map[string]interface{}{"jobTitle": "New"}, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var result job.UpdateResult
	decodeBody(t, recorder, &result)
	if result.MatchedCount != 1 {
		t.Fatalf("expected match, got %+v", result)
	}

	recorder = env.do(t, http.MethodPut, "/job/"+primitive.NewObjectID().Hex(), map[string]interface{}{"jobTitle": "Fresh"}, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 on upsert, got %d", recorder.Code)
	}
	decodeBody(t, recorder, &result)
	if result.UpsertedID == "" {
		t.Fatalf("expected upserted id, got %+v", result)
	}
}

func TestPatchBidUpdatesStatus(t *testing.T) {
	env := newTestEnv()
	id, _ := env.bids.Insert(context.Background(), bid.Bid{Email: "a@x.com", JobID: "j1", Status: "pending"})

	recorder := env.do(t, http.MethodPatch, "/bid/"+id.Hex(), map[string]string{"status": "accepted"}, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if env.bids.bids[0].Status != "accepted" {
		t.Fatalf("expected accepted, got %q", env.bids.bids[0].Status)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	env := newTestEnv()
	recorder := env.do(t, http.MethodGet, "/nope", nil, nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}
