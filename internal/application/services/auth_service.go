package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/persistence"
	"github.com/Lumbe/lcrm-app/pkg/auth"
	"github.com/Lumbe/lcrm-app/pkg/errors"
)

// AuthService handles authentication and session management
type AuthService struct {
	users    *persistence.UserRepository
	sessions *persistence.SessionRepository
	tokens   *auth.TokenManager
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users *persistence.UserRepository, sessions *persistence.SessionRepository, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
	}
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	Token     string
	User      auth.UserSession
	SessionID string
	ExpiresAt time.Time
}

// Login authenticates a user and creates a session
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	// 1. Find user by email
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if user == nil {
		s.logger.Warn("login failed: user not found", zap.String("email", email))
		return nil, errors.NewUnauthorizedError("Invalid email or password")
	}

	// 2. Verify password
	if user.PasswordHash == "" {
		return nil, errors.NewUnauthorizedError("Password authentication not configured for this user")
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		s.logger.Warn("login failed: invalid password", zap.String("email", email))
		return nil, errors.NewUnauthorizedError("Invalid email or password")
	}

	// 3. Generate JWT token
	session := auth.UserSession{
		ID:    user.ID,
		Name:  user.FullName(),
		Email: user.Email,
		Admin: user.Admin,
	}
	token, jti, expiresAt, err := s.tokens.GenerateToken(session)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	// 4. Store session
	if err := s.sessions.InsertSession(ctx, &models.AuthSession{
		ID:        jti,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("session_id", jti))
	return &LoginResult{
		Token:     token,
		User:      session,
		SessionID: jti,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateSession checks that a token is genuine and its session is still
// active, returning the user it belongs to.
func (s *AuthService) ValidateSession(ctx context.Context, tokenString string) (*models.UserSession, error) {
	// 1. Verify JWT signature and claims
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, errors.NewUnauthorizedError("Invalid or expired token")
	}

	// 2. Check DB for revocation
	session, err := s.sessions.GetSession(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if session == nil {
		return nil, errors.NewUnauthorizedError("Session not found")
	}
	if session.Revoked {
		return nil, errors.NewUnauthorizedError("Session has been revoked")
	}

	// 3. Reload the user so that admin changes apply immediately
	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if user == nil {
		return nil, errors.NewUnauthorizedError("User no longer exists")
	}

	return &models.UserSession{
		ID:        user.ID,
		Name:      user.FullName(),
		Email:     user.Email,
		Admin:     user.Admin,
		SessionID: session.ID,
	}, nil
}

// TouchSession updates the last activity timestamp of a session. Failures
// are logged, not returned.
func (s *AuthService) TouchSession(ctx context.Context, sessionID string) {
	if err := s.sessions.UpdateLastActivity(ctx, sessionID); err != nil {
		s.logger.Warn("failed to touch session", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// Logout revokes a session
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.NewValidationError("token", "Invalid token")
	}
	if err := s.sessions.RevokeSession(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Info("user logged out", zap.String("session_id", sessionID))
	return nil
}
