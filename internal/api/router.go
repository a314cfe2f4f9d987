package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"leadadmin/internal/captcha"
	"leadadmin/internal/config"
	"leadadmin/internal/filter"
	"leadadmin/internal/middleware"
	"leadadmin/internal/models"
	"leadadmin/internal/rate"
	"leadadmin/internal/service"
	"leadadmin/internal/store"
	"leadadmin/internal/util"
	"leadadmin/internal/version"
)

type Handlers struct {
	cfg      config.Config
	svc      *service.Service
	limiter  *rate.Limiter
	verifier captcha.Verifier
}

func NewRouter(cfg config.Config, svc *service.Service) http.Handler {
	h := &Handlers{cfg: cfg, svc: svc, limiter: rate.NewLimiter(), verifier: captcha.NoopVerifier{}}
	if cfg.CaptchaEnabled {
		h.verifier = captcha.NewHTTPVerifier(cfg.CaptchaVerifyURL, cfg.CaptchaSecret)
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.SecurityHeaders)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", middleware.SessionHeader},
		}))
	}

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		util.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "version": version.Current()})
	})

	r.Route("/api", func(r chi.Router) {
		// Public contact form endpoint; everything else needs a session.
		r.With(middleware.RateLimit(h.limiter, "submit", 30, time.Minute, cfg.TrustProxy)).
			Post("/submit", h.Submit)

		r.With(middleware.RateLimit(h.limiter, "login", 20, time.Minute, cfg.TrustProxy)).
			Post("/auth/login", h.Login)
		r.Post("/auth/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authn(h.svc))
			r.Post("/auth/verify", h.Verify)
			r.Get("/submissions", h.ListSubmissions)
			r.Get("/submissions/export/csv", h.ExportCSV)
			r.With(middleware.RequireRole(models.RoleManager)).
				Put("/submissions/{id}/status", h.UpdateStatus)
			r.With(middleware.RequireRole(models.RoleAdmin)).
				Delete("/submissions/{id}", h.DeleteSubmission)
		})
	})

	return r
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteError(w, http.StatusBadRequest, "bad_request", "invalid json", middleware.RequestID(r.Context()))
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		util.WriteError(w, http.StatusBadRequest, "bad_request", "username and password are required", middleware.RequestID(r.Context()))
		return
	}
	sess, err := h.svc.Login(req.Username, req.Password)
	if err != nil {
		util.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.RequestID(r.Context()))
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"sessionId": sess.Token,
		"user":      sess.User(),
	})
}

func (h *Handlers) Verify(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.Session(r.Context())
	util.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "user": sess.User()})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if token := r.Header.Get(middleware.SessionHeader); token != "" {
		h.svc.Logout(token)
	}
	util.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

type submitRequest struct {
	Name         string `json:"name"`
	Surname      string `json:"surname"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	CaptchaToken string `json:"captcha_token"`
}

func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteError(w, http.StatusBadRequest, "bad_request", "invalid json", middleware.RequestID(r.Context()))
		return
	}
	if err := h.verifier.Verify(r.Context(), req.CaptchaToken, middleware.ClientIP(r, h.cfg.TrustProxy)); err != nil {
		if errors.Is(err, captcha.ErrUnavailable) {
			util.WriteError(w, http.StatusBadGateway, "captcha_unavailable", "captcha verification unavailable", middleware.RequestID(r.Context()))
			return
		}
		util.WriteError(w, http.StatusBadRequest, "captcha_required", "captcha validation failed", middleware.RequestID(r.Context()))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" {
		util.WriteError(w, http.StatusBadRequest, "validation_failed", "name and email are required", middleware.RequestID(r.Context()))
		return
	}
	sub, err := h.svc.Submit(req.Name, strings.TrimSpace(req.Surname), req.Email, strings.TrimSpace(req.Phone), middleware.ClientIP(r, h.cfg.TrustProxy))
	if err != nil {
		util.WriteError(w, http.StatusInternalServerError, "internal_error", "could not save submission", middleware.RequestID(r.Context()))
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"id":    sub.ID,
			"name":  sub.Name,
			"email": sub.Email,
		},
	})
}

// ListSubmissions returns the full snapshot, newest first. The optional
// status/range/q/page query params apply the same triage semantics the
// admin client uses, for callers that want the server to pre-filter.
func (h *Handlers) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs := h.svc.ListSubmissions()

	q := filter.Query{
		Status: r.URL.Query().Get("status"),
		Range:  r.URL.Query().Get("range"),
		Search: r.URL.Query().Get("q"),
	}
	subs = filter.Apply(subs, q, time.Now())
	count := len(subs)
	if v := r.URL.Query().Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil {
			subs = filter.Page(subs, page)
		}
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	util.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": subs, "count": count})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		util.WriteError(w, http.StatusBadRequest, "bad_request", "invalid submission id", middleware.RequestID(r.Context()))
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteError(w, http.StatusBadRequest, "bad_request", "invalid json", middleware.RequestID(r.Context()))
		return
	}
	sess, _ := middleware.Session(r.Context())
	sub, err := h.svc.UpdateSubmissionStatus(id, models.Status(req.Status), sess.Username)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidStatus):
			util.WriteError(w, http.StatusBadRequest, "invalid_status", "status must be one of: new, viewed, contacted, completed, rejected", middleware.RequestID(r.Context()))
		case errors.Is(err, store.ErrNotFound):
			util.WriteError(w, http.StatusNotFound, "not_found", "submission not found", middleware.RequestID(r.Context()))
		default:
			util.WriteError(w, http.StatusInternalServerError, "internal_error", "could not update submission", middleware.RequestID(r.Context()))
		}
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": sub})
}

func (h *Handlers) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		util.WriteError(w, http.StatusBadRequest, "bad_request", "invalid submission id", middleware.RequestID(r.Context()))
		return
	}
	count, err := h.svc.DeleteSubmission(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.WriteError(w, http.StatusNotFound, "not_found", "submission not found", middleware.RequestID(r.Context()))
			return
		}
		util.WriteError(w, http.StatusInternalServerError, "internal_error", "could not delete submission", middleware.RequestID(r.Context()))
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "count": count})
}
