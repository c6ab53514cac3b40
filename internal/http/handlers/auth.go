package handlers

import (
	"net/http"
	"time"

	"github.com/shamimfewd/job-provider-server/internal/http/middleware"
	"github.com/shamimfewd/job-provider-server/internal/http/response"
	"github.com/shamimfewd/job-provider-server/internal/security"
)

type AuthHandler struct {
	jwt           *security.JWTProvider
	tokenTTL      time.Duration
	secureCookies bool
}

func NewAuthHandler(jwt *security.JWTProvider, tokenTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{jwt: jwt, tokenTTL: tokenTTL, secureCookies: secureCookies}
}

type sessionRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// IssueToken signs a session token for the posted identity and sets it as
// an HTTP-only cookie. Behind a proxy the production cookie must be
// Secure+SameSite=None so cross-site frontends can send it back.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := validateStruct(req); err != nil {
		response.Error(w, err)
		return
	}
	token, _, err := h.jwt.Generate(req.Email, h.tokenTTL)
	if err != nil {
		response.Error(w, err)
		return
	}
	http.SetCookie(w, h.sessionCookie(token, int(h.tokenTTL.Seconds())))
	response.JSON(w, http.StatusOK, successResponse{Success: true})
}

// Logout clears the session cookie by replacing it with an expired one
// carrying the same attributes.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	response.JSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteStrictMode
	if h.secureCookies {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: sameSite,
	}
}
