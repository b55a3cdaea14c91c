package account

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/repository"
	"github.com/jwalitptl/marketplace-admin/pkg/errors"
)

const msgWrongPassword = "Current password is incorrect"

type AccountService interface {
	GetCurrentAccount(ctx context.Context) (*model.Account, error)
	UpdatePassword(ctx context.Context, req model.UpdatePasswordRequest) error
}

// Service works on the account bound to the session secret in ctx.
type Service struct {
	accounts repository.AccountGateway
	logger   *zerolog.Logger
}

var _ AccountService = (*Service)(nil)

func NewService(accounts repository.AccountGateway, logger *zerolog.Logger) *Service {
	return &Service{accounts: accounts, logger: logger}
}

func (s *Service) GetCurrentAccount(ctx context.Context) (*model.Account, error) {
	acc, err := s.accounts.GetCurrentAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return acc, nil
}

func (s *Service) UpdatePassword(ctx context.Context, req model.UpdatePasswordRequest) error {
	if req.Password == req.OldPassword {
		return errors.BadRequest("New password must differ from the current password", nil)
	}
	if err := s.accounts.UpdatePassword(ctx, req.Password, req.OldPassword); err != nil {
		s.logger.Warn().Err(err).Msg("password change failed")
		if errors.HasCode(err, errors.ErrUnavailable) {
			return err
		}
		return errors.BadRequest(msgWrongPassword, err)
	}
	s.logger.Info().Msg("admin password changed")
	return nil
}
