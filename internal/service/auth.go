package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/invoice-dashboard/internal/logging"
	"github.com/iliyamo/invoice-dashboard/internal/model"
	"github.com/iliyamo/invoice-dashboard/internal/repository"
	"github.com/iliyamo/invoice-dashboard/internal/utils"
	"github.com/iliyamo/invoice-dashboard/internal/validation"
)

// AuthService verifies login credentials.
type AuthService struct {
	users UserStore
	// dummyHash is compared against when the email is unknown so both
	// failure paths spend the same bcrypt time.
	dummyHash string
}

func NewAuthService(users UserStore, bcryptCost int) *AuthService {
	hash, err := utils.HashPassword("not-a-real-password", bcryptCost)
	if err != nil {
		log := logging.With("auth")
		log.Warn().Err(err).Msg("dummy hash unavailable")
	}
	return &AuthService{users: users, dummyHash: hash}
}

// VerifyCredentials returns the user whose email and password match.
//
// Malformed input yields an error wrapping ErrValidation and the
// *validation.Error with field messages.  An unknown email and a wrong
// password both yield (nil, nil) and log the same line, so callers cannot
// tell them apart.  Store failures wrap ErrStore.
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) (*model.User, error) {
	creds := validation.Credentials{Email: email, Password: password}
	if verr := validation.ValidateStruct(&creds); verr != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, verr)
	}

	log := logging.With("auth")
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.VerifyPassword(s.dummyHash, password)
			log.Warn().Msg("invalid credentials")
			return nil, nil
		}
		log.Error().Err(err).Msg("database error while fetching user")
		return nil, fmt.Errorf("%w: fetch user: %w", ErrStore, err)
	}
	if !utils.VerifyPassword(u.Password, password) {
		log.Warn().Msg("invalid credentials")
		return nil, nil
	}
	return &u, nil
}
