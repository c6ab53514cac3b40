package http

import (
	"net/http"
	"strings"

	"github.com/rs/cors"

	"github.com/shamimfewd/job-provider-server/internal/http/handlers"
	httpmw "github.com/shamimfewd/job-provider-server/internal/http/middleware"
)

type RouterDependencies struct {
	AuthHandler    *handlers.AuthHandler
	JobHandler     *handlers.JobHandler
	BidHandler     *handlers.BidHandler
	AuthMiddleware *httpmw.AuthMiddleware
	AllowedOrigins []string
}

type Router struct {
	deps RouterDependencies
	cors *cors.Cors
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:5174"}
	}
	return &Router{
		deps: deps,
		cors: cors.New(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
		}),
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(), httpmw.RequestID, httpmw.Logging, httpmw.BodyLimit(maxBodyBytes), httpmw.Recover, r.cors.Handler)
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("job provider is running"))
			return
		case req.Method == http.MethodPost && path == "/jwt":
			r.deps.AuthHandler.IssueToken(w, req)
			return
		case req.Method == http.MethodGet && path == "/logout":
			r.deps.AuthHandler.Logout(w, req)
			return
		case req.Method == http.MethodGet && path == "/jobs":
			r.deps.JobHandler.List(w, req)
			return
		case req.Method == http.MethodGet && path == "/all-jobs":
			r.deps.JobHandler.ListPage(w, req)
			return
		case req.Method == http.MethodGet && path == "/jobs-count":
			r.deps.JobHandler.Count(w, req)
			return
		case req.Method == http.MethodPost && path == "/job":
			r.deps.JobHandler.Create(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/job/"):
			r.deps.JobHandler.Get(w, req)
			return
		case req.Method == http.MethodPut && strings.HasPrefix(path, "/job/"):
			r.deps.JobHandler.Update(w, req)
			return
		case req.Method == http.MethodDelete && strings.HasPrefix(path, "/job/"):
			r.deps.JobHandler.Delete(w, req)
			return
		case req.Method == http.MethodPost && path == "/bid":
			r.deps.BidHandler.Create(w, req)
			return
		case req.Method == http.MethodPatch && strings.HasPrefix(path, "/bid/"):
			r.deps.BidHandler.Update(w, req)
			return
		}

		// email-keyed listings go through the session cookie gate
		if strings.HasPrefix(path, "/jobs/") || strings.HasPrefix(path, "/my-bids/") || strings.HasPrefix(path, "/bid-requests/") {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	switch {
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/jobs/"):
		r.deps.JobHandler.ListByOwner(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/my-bids/"):
		r.deps.BidHandler.ListByBidder(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/bid-requests/"):
		r.deps.BidHandler.ListRequests(w, req)
		return
	}

	http.NotFound(w, req)
}
