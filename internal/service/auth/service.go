package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/repository"
	"github.com/jwalitptl/marketplace-admin/internal/session"
	token "github.com/jwalitptl/marketplace-admin/pkg/auth"
	"github.com/jwalitptl/marketplace-admin/pkg/errors"
	"github.com/jwalitptl/marketplace-admin/pkg/metrics"
)

const (
	msgUnauthorizedAccess = "Unauthorized access"
	msgInvalidCredentials = "Invalid credentials. Please check the email and password."
)

type AuthService interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.TokenResponse, error)
	// Resolve maps a bearer token onto the admin session behind it. The
	// session is only returned when the remote side still knows it.
	Resolve(ctx context.Context, bearer string) (*model.AdminSession, model.SessionStatus)
	Logout(ctx context.Context, sess *model.AdminSession) error
}

type Service struct {
	adminEmail string
	accounts   repository.AccountGateway
	sessions   session.Store
	tokens     token.JWTService
	metrics    *metrics.Metrics
	logger     *zerolog.Logger
	newID      func() string
	now        func() time.Time
}

var _ AuthService = (*Service)(nil)

func NewService(adminEmail string, accounts repository.AccountGateway, sessions session.Store, tokens token.JWTService, m *metrics.Metrics, logger *zerolog.Logger) *Service {
	return &Service{
		adminEmail: strings.TrimSpace(adminEmail),
		accounts:   accounts,
		sessions:   sessions,
		tokens:     tokens,
		metrics:    m,
		logger:     logger,
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (*model.TokenResponse, error) {
	email := strings.TrimSpace(req.Email)
	if s.adminEmail == "" || !strings.EqualFold(email, s.adminEmail) {
		s.logger.Warn().Str("email", email).Msg("login rejected for non-admin identity")
		return nil, errors.Unauthorized(msgUnauthorizedAccess, nil)
	}

	remote, err := s.accounts.CreateSession(ctx, email, req.Password)
	if err != nil {
		if errors.HasCode(err, errors.ErrUnavailable) {
			return nil, err
		}
		return nil, errors.Unauthorized(msgInvalidCredentials, err)
	}

	id := s.newID()
	accessToken, expiresAt, err := s.tokens.GenerateToken(id, email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	sess := &model.AdminSession{
		ID:        id,
		Email:     email,
		Secret:    remote.Secret,
		RemoteID:  remote.ID,
		CreatedAt: s.now(),
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ActiveSessions.Inc()
	}

	s.logger.Info().Str("session_id", id).Msg("admin signed in")
	return &model.TokenResponse{AccessToken: accessToken, ExpiresAt: expiresAt, Redirect: model.HomeRoute}, nil
}

func (s *Service) Resolve(ctx context.Context, bearer string) (*model.AdminSession, model.SessionStatus) {
	unauthenticated := model.SessionStatus{State: model.SessionUnauthenticated, Redirect: model.LoginRoute}
	if bearer == "" {
		return nil, unauthenticated
	}

	claims, err := s.tokens.ValidateToken(bearer)
	if err != nil {
		return nil, unauthenticated
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if !stderrors.Is(err, session.ErrNotFound) {
			s.logger.Error().Err(err).Msg("session lookup failed")
		}
		return nil, unauthenticated
	}

	ok, err := s.accounts.GetSession(repository.WithSessionSecret(ctx, sess.Secret), repository.CurrentSession)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sess.ID).Msg("remote session check failed")
		return nil, unauthenticated
	}
	if !ok {
		return nil, unauthenticated
	}
	return sess, model.SessionStatus{State: model.SessionAuthenticated, Email: sess.Email}
}

// Logout ends the remote session first; a failure there is logged and the
// local session is removed regardless.
func (s *Service) Logout(ctx context.Context, sess *model.AdminSession) error {
	if sess == nil {
		return nil
	}
	if err := s.accounts.DeleteSession(repository.WithSessionSecret(ctx, sess.Secret), repository.CurrentSession); err != nil {
		s.logger.Error().Err(err).Str("session_id", sess.ID).Msg("failed to delete remote session")
	}
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ActiveSessions.Dec()
	}
	return nil
}
