package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dom/postgram/internal/config"
	"github.com/dom/postgram/internal/domain"
	"github.com/dom/postgram/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Session resolution failures reported by the session middleware.
var (
	ErrNoRefreshToken      = fmt.Errorf("%w: no refresh token", domain.ErrUnauthorized)
	ErrInvalidRefreshToken = fmt.Errorf("%w: invalid refresh token", domain.ErrUnauthorized)
	ErrStaleRefreshToken   = fmt.Errorf("%w: stale refresh token", domain.ErrUnauthorized)
)

// bcrypt only hashes the first 72 bytes and refuses anything longer.
const maxPasswordBytes = 72

type AuthService struct {
	userRepo  repository.UserRepository
	tokens    *TokenService
	cost      int
	dummyHash []byte
	log       zerolog.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *TokenService, cfg *config.Config, log zerolog.Logger) *AuthService {
	// Compared against when the email is unknown so a miss costs the same
	// bcrypt work as a wrong password.
	dummyHash, _ := bcrypt.GenerateFromPassword([]byte("postgram-dummy-password"), cfg.BcryptCost)

	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		cost:      cfg.BcryptCost,
		dummyHash: dummyHash,
		log:       log.With().Str("component", "auth").Logger(),
	}
}

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User   *domain.User
	Tokens *TokenPair
}

// NormalizeEmail is applied to every email before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := NormalizeEmail(input.Email)

	if len(input.Password) > maxPasswordBytes {
		return nil, domain.ErrPasswordTooLong
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique index still catches a concurrent registration that slipped
	// past the lookup above; the repository reports it as ErrEmailTaken.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return user, nil
}

// Login returns ErrInvalidCredentials for both an unknown email and a wrong
// password so the response does not reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(input.Password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Tokens: pair}, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ResolveAccessToken verifies an access token and loads its user.
func (s *AuthService) ResolveAccessToken(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, userID)
}

// RefreshSession verifies a refresh token and rotates the pair: a new
// access token and a new refresh token are issued for the user it names.
// The old refresh token is not revoked and stays valid until it expires.
func (s *AuthService) RefreshSession(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrStaleRefreshToken
		}
		return nil, err
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Debug().Str("user_id", user.ID.String()).Msg("session refreshed")
	return &AuthResult{User: user, Tokens: pair}, nil
}
