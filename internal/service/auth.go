package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/expensio/expensio/internal/events"
	"github.com/expensio/expensio/internal/hash"
	"github.com/expensio/expensio/internal/logging"
	"github.com/expensio/expensio/internal/models"
	"github.com/expensio/expensio/internal/repo"
	"github.com/expensio/expensio/internal/transport"
	"gorm.io/gorm"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens *TokenService
	Events *events.Producer
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, *TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	var fields []transport.FieldError
	if req.FirstName == "" {
		fields = append(fields, transport.FieldError{Field: "firstName", Message: "must not be empty"})
	}
	if req.LastName == "" {
		fields = append(fields, transport.FieldError{Field: "lastName", Message: "must not be empty"})
	}
	if req.Email == "" {
		fields = append(fields, transport.FieldError{Field: "email", Message: "must not be empty"})
	}
	if req.Password == "" {
		fields = append(fields, transport.FieldError{Field: "password", Message: "must not be empty"})
	}
	if len(fields) > 0 {
		return nil, nil, newValidationError(fields)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, nil, err
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: pwHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_failed", "reason", "email already registered")
			return nil, nil, fmt.Errorf("email already registered: %w", ErrConflict)
		}
		l.Error("register_error", "error", err)
		return nil, nil, err
	}

	pair, err := s.Tokens.IssuePair(user.ID)
	if err != nil {
		l.Error("register_error", "error", err)
		return nil, nil, err
	}
	if err := s.Repo.StoreRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		l.Error("register_error", "error", err)
		return nil, nil, err
	}

	if err := s.Events.Publish(ctx, events.TopicUserEvents, user.ID.String(), map[string]any{
		"type":  "user_registered",
		"email": user.Email,
	}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}

	l.Info("register_successful", "user_id", user.ID)
	return user, pair, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_error", "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	pair, err := s.Tokens.IssuePair(user.ID)
	if err != nil {
		l.Error("login_error", "error", err)
		return nil, err
	}

	// Overwrite unconditionally: a new login revokes whatever refresh token
	// an earlier session still holds.
	if err := s.Repo.StoreRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		l.Error("login_error", "error", err)
		return nil, err
	}

	if err := s.Events.Publish(ctx, events.TopicUserEvents, user.ID.String(), map[string]any{
		"type":  "user_logged_in",
		"email": user.Email,
	}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}

	l.Info("login_successful", "user_id", user.ID)
	return pair, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	userID, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		l.Warn("refresh_failed", "reason", "token verification failed")
		return nil, ErrInvalidRefreshToken
	}

	pair, err := s.Tokens.IssuePair(userID)
	if err != nil {
		l.Error("refresh_error", "error", err)
		return nil, err
	}

	// Rotation-on-use: the stored credential must still be exactly the
	// presented one. The compare-and-swap loses to a concurrent login or
	// refresh, in which case the presented token was already rotated out.
	swapped, err := s.Repo.SwapRefreshToken(ctx, userID, refreshToken, pair.RefreshToken)
	if err != nil {
		l.Error("refresh_error", "error", err)
		return nil, err
	}
	if !swapped {
		l.Warn("refresh_failed", "reason", "credential rotated out or unknown")
		return nil, ErrInvalidRefreshToken
	}

	l.Info("refresh_successful", "user_id", userID)
	return pair, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	if err := s.Repo.ClearRefreshToken(ctx, refreshToken); err != nil {
		l.Error("logout_error", "error", err)
		return err
	}

	l.Info("logout_successful")
	return nil
}
