package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/candidate-screening/internal/auth/jwt"
	"github.com/gokatarajesh/candidate-screening/internal/db/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
)

type accountStore interface {
	Create(ctx context.Context, p repository.CreateAccountParams) (repository.AccountRow, error)
	GetByEmail(ctx context.Context, email string) (repository.AccountRow, error)
	GetByID(ctx context.Context, accountID pgtype.UUID) (repository.AccountRow, error)
}

// Service handles account registration and token issuance. Creating an
// account is what starts a candidate's screening workflow.
type Service struct {
	accounts   accountStore
	tokenMgr   *jwt.Manager
	bcryptCost int
	logger     zerolog.Logger
}

// ServiceOptions configures the auth service.
type ServiceOptions struct {
	TokenConfig jwt.TokenConfig
	BcryptCost  int
}

// NewService creates an authentication service.
func NewService(accounts accountStore, opts ServiceOptions, logger zerolog.Logger) *Service {
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcryptCost
	}
	return &Service{
		accounts:   accounts,
		tokenMgr:   jwt.NewManager(opts.TokenConfig),
		bcryptCost: cost,
		logger:     logger.With().Str("component", "auth").Logger(),
	}
}

// Register creates a new account and signs the caller in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Account, *TokenPair, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, nil, err
	}

	passwordHash, err := hashWithCost(req.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	id := uuid.New()
	row, err := s.accounts.Create(ctx, repository.CreateAccountParams{
		AccountID:    pgtype.UUID{Bytes: id, Valid: true},
		Email:        email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("create account: %w", err)
	}

	account := toAccount(row)
	tokens, err := s.generateTokenPair(account)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("account_id", account.ID.String()).Str("email", email).Msg("account registered")
	return &account, tokens, nil
}

// Login authenticates an account with email/password.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Account, *TokenPair, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	row, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("get account: %w", err)
	}

	if err := VerifyPassword(row.PasswordHash, req.Password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	account := toAccount(row)
	tokens, err := s.generateTokenPair(account)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("account_id", account.ID.String()).Msg("account logged in")
	return &account, tokens, nil
}

// RefreshToken issues a new token pair from a refresh token.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenMgr.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	row, err := s.accounts.GetByID(ctx, pgtype.UUID{Bytes: claims.UserID, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("account lookup: %w", err)
	}

	return s.generateTokenPair(toAccount(row))
}

// ValidateToken validates an access token and returns its claims.
func (s *Service) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return s.tokenMgr.ValidateAccessToken(tokenString)
}

func (s *Service) generateTokenPair(account Account) (*TokenPair, error) {
	sub := jwt.Subject{ID: account.ID, Email: account.Email}

	accessToken, err := s.tokenMgr.GenerateAccessToken(sub)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokenMgr.GenerateRefreshToken(sub)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenMgr.AccessTTL().Seconds()),
	}, nil
}

func toAccount(row repository.AccountRow) Account {
	return Account{ID: uuid.UUID(row.AccountID.Bytes), Email: row.Email}
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
