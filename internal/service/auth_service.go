package service

import (
	"context"
	"fmt"
	"strings"

	"amber-storefront/internal/backend"
	"amber-storefront/internal/domain"
	"amber-storefront/internal/logger"
	"amber-storefront/internal/session"
	"amber-storefront/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService defines the interface for sign-in and the device session
type AuthService interface {
	Login(ctx context.Context, email, password string) (domain.AuthState, error)
	Register(ctx context.Context, form validation.RegisterForm) (domain.AuthState, error)
	Profile(ctx context.Context) (domain.User, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) domain.AuthState
	State() domain.AuthState
}

type authService struct {
	api      backend.API
	session  *session.Store
	sentinel *session.Sentinel
	logger   *zap.Logger
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(api backend.API, sess *session.Store, sentinel *session.Sentinel, log *zap.Logger) AuthService {
	return &authService{
		api:      api,
		session:  sess,
		sentinel: sentinel,
		logger:   log.Named("auth"),
	}
}

// Login signs in with the built-in administrator or against the backend
func (s *authService) Login(ctx context.Context, email, password string) (domain.AuthState, error) {
	form := validation.LoginForm{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
	}
	if err := validation.Validate(form); err != nil {
		return domain.AuthState{}, err
	}

	if s.sentinel.Match(form.Email, form.Password) {
		user, token := s.sentinel.Session()
		s.logger.Debug("Administrator credentials matched")
		return s.session.Login(ctx, user, token), nil
	}

	payload, err := s.api.Login(ctx, form.Email, form.Password)
	if err != nil {
		return domain.AuthState{}, fmt.Errorf("failed to login: %w", err)
	}
	if !payload.Accepted() {
		return domain.AuthState{}, ErrInvalidCredentials
	}

	token := payload.Token
	if token == "" {
		token = "login-token-" + uuid.NewString()
	}

	s.logger.Debug("Backend accepted credentials",
		zap.String("user_id", payload.User.ID),
		zap.Bool("token_issued", payload.Token != ""),
		logger.TokenPreview(token),
	)
	return s.session.Login(ctx, payload.User, token), nil
}

// Register creates the account and signs it in straight away
func (s *authService) Register(ctx context.Context, form validation.RegisterForm) (domain.AuthState, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.LastName = strings.TrimSpace(form.LastName)
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	if err := validation.Validate(form); err != nil {
		return domain.AuthState{}, err
	}

	payload, err := s.api.Register(ctx, backend.RegisterInput{
		Name:     form.Name,
		LastName: form.LastName,
		Phone:    form.PhoneDigits(),
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		return domain.AuthState{}, fmt.Errorf("failed to register: %w", err)
	}

	user := domain.User{
		Name:     form.Name,
		LastName: form.LastName,
		Phone:    form.PhoneDigits(),
		Email:    form.Email,
	}
	if payload.UserFound {
		user.ID = payload.User.ID
		user.Name = firstNonEmpty(payload.User.Name, user.Name)
		user.LastName = firstNonEmpty(payload.User.LastName, user.LastName)
		user.Phone = firstNonEmpty(payload.User.Phone, user.Phone)
		user.Email = firstNonEmpty(payload.User.Email, user.Email)
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	// new accounts never start as admin
	user.Role = domain.RoleUser

	token := payload.Token
	if token == "" {
		token = "registration-token-" + uuid.NewString()
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID))
	return s.session.Login(ctx, user, token), nil
}

// Profile returns the signed-in user as the backend knows it
func (s *authService) Profile(ctx context.Context) (domain.User, error) {
	state := s.session.State()
	token, err := s.session.Token()
	if err != nil {
		return domain.User{}, err
	}

	// the built-in administrator is unknown to the backend
	if state.User != nil && state.User.ID == session.AdminUserID {
		return *state.User, nil
	}

	user, err := s.api.Profile(ctx, token)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return user, nil
}

func (s *authService) Logout(ctx context.Context) error {
	if err := s.session.Logout(ctx); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

func (s *authService) Restore(ctx context.Context) domain.AuthState {
	return s.session.Restore(ctx)
}

func (s *authService) State() domain.AuthState {
	return s.session.State()
}

// requireAdmin returns the session token when the session is an administrator.
func requireAdmin(sess *session.Store) (string, error) {
	token, err := sess.Token()
	if err != nil {
		return "", err
	}
	if !sess.State().IsAdmin() {
		return "", ErrNotAdmin
	}
	return token, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
