package transport

import (
	"net/http"

	"amber-storefront/internal/domain"
	"amber-storefront/internal/middleware"
	"amber-storefront/internal/service"
	"amber-storefront/internal/validation"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for the device session
type AuthHandler struct {
	auth   service.AuthService
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// RegisterRoutes registers all auth routes
func (h *AuthHandler) RegisterRoutes(r chi.Router, loginLimiter func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Get("/session", h.Session)
		r.With(loginLimiter).Post("/login", h.Login)
		r.With(loginLimiter).Post("/register", h.Register)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(h.logger))
			r.Get("/profile", h.Profile)
		})
	})
}

// Session returns the current device auth state.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.auth.State())
}

// Login signs the device in. Input is normalised and validated by the service.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req validation.LoginForm
	if err := middleware.Decode(r, &req); err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	state, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Debug("Login accepted", zap.String("user_id", state.User.ID), zap.String("role", string(state.User.Role)))
	middleware.RespondWithJSON(w, http.StatusOK, state)
}

// Register creates an account and signs the device in with it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req validation.RegisterForm
	if err := middleware.Decode(r, &req); err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	state, err := h.auth.Register(r.Context(), req)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Debug("Registration accepted", zap.String("user_id", state.User.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, state)
}

// Logout clears the session. Clearing storage failures are logged only.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		h.logger.Warn("Logout left stale session data", zap.Error(err))
	}
	middleware.RespondWithJSON(w, http.StatusOK, domain.AuthState{})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Profile(r.Context())
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, user)
}
