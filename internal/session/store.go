package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"amber-storefront/internal/domain"
	"amber-storefront/internal/logger"
	"amber-storefront/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Storage keys shared with the mobile app
const (
	KeyToken = "userToken"
	KeyUser  = "userData"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// Store owns the device auth state and keeps it in sync with storage.
type Store struct {
	mu     sync.RWMutex
	state  domain.AuthState
	kv     storage.KeyValueStore
	logger *zap.Logger
	now    func() time.Time
}

func NewStore(kv storage.KeyValueStore, logger *zap.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logger,
		now:    time.Now,
	}
}

// State returns a copy of the current auth state.
func (s *Store) State() domain.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := s.state
	if state.User != nil {
		u := *state.User
		state.User = &u
	}
	return state
}

// Token returns the bearer token, or ErrNotAuthenticated.
func (s *Store) Token() (string, error) {
	state := s.State()
	if !state.IsAuthenticated || state.Token == "" {
		return "", ErrNotAuthenticated
	}
	return state.Token, nil
}

func (s *Store) dispatch(action Action) domain.AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, action)
	return s.state
}

// Login persists the session and marks the device as signed in. A storage
// failure is logged; the in-memory session still starts.
func (s *Store) Login(ctx context.Context, user domain.User, token string) domain.AuthState {
	if err := s.persist(ctx, user, token); err != nil {
		s.logger.Error("Failed to save session", zap.Error(err))
	}

	state := s.dispatch(LoginSucceeded(user, token))
	s.logger.Info("User logged in",
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)),
		logger.TokenPreview(token),
	)
	return state
}

func (s *Store) persist(ctx context.Context, user domain.User, token string) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.kv.Set(ctx, KeyToken, token); err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyUser, string(data))
}

// Logout wipes device storage and signs out. The state is reset even when
// clearing storage fails.
func (s *Store) Logout(ctx context.Context) error {
	err := s.kv.Clear(ctx)
	s.dispatch(LoggedOut())

	if err != nil {
		s.logger.Error("Failed to clear storage on logout", zap.Error(err))
		return fmt.Errorf("failed to clear session storage: %w", err)
	}
	s.logger.Info("User logged out")
	return nil
}

// Restore reloads a saved session at launch. Missing, unreadable or expired
// sessions leave the device signed out.
func (s *Store) Restore(ctx context.Context) domain.AuthState {
	token, tokenErr := s.kv.Get(ctx, KeyToken)
	userData, userErr := s.kv.Get(ctx, KeyUser)

	if tokenErr != nil || userErr != nil || token == "" || userData == "" {
		for _, err := range []error{tokenErr, userErr} {
			if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
				s.logger.Error("Failed to read saved session", zap.Error(err))
			}
		}
		s.logger.Debug("No saved session found")
		return s.dispatch(LoggedOut())
	}

	var user domain.User
	if err := json.Unmarshal([]byte(userData), &user); err != nil {
		s.logger.Warn("Discarding unreadable saved session", zap.Error(err))
		return s.dispatch(LoggedOut())
	}

	if expired(token, s.now()) {
		s.logger.Info("Saved session expired", zap.String("email", user.Email))
		if err := s.kv.Delete(ctx, KeyToken, KeyUser); err != nil {
			s.logger.Warn("Failed to remove expired session", zap.Error(err))
		}
		return s.dispatch(LoggedOut())
	}

	state := s.dispatch(SessionRestored(user, token))
	s.logger.Info("Session restored",
		zap.String("email", user.Email),
		logger.TokenPreview(token),
	)
	return state
}

// expired reports whether token is a JWT whose exp claim lies before now.
// The signature cannot be checked on the device; opaque tokens never expire
// here.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
