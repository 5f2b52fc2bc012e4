package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/dom/postgram/internal/config"
	"github.com/dom/postgram/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token verification failures. Callers tell an expired access token (worth
// a refresh attempt) apart from a forged or garbled one.
var (
	ErrTokenExpired   = fmt.Errorf("%w: token expired", domain.ErrUnauthorized)
	ErrTokenMalformed = fmt.Errorf("%w: token malformed", domain.ErrUnauthorized)
	ErrTokenSignature = fmt.Errorf("%w: token signature invalid", domain.ErrUnauthorized)
	ErrTokenInvalid   = fmt.Errorf("%w: token invalid", domain.ErrUnauthorized)
)

type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

type Claims struct {
	Kind TokenKind `json:"typ"`
	jwt.RegisteredClaims
}

// UserID returns the subject as a user id.
func (c *Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return id, nil
}

type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// TokenService signs and verifies HS256 tokens. Access and refresh tokens
// use separate secrets, so leaking one secret cannot forge the other kind.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now for issuing and verifying tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

func NewTokenService(cfg *config.Config, opts ...TokenOption) *TokenService {
	s := &TokenService{
		accessSecret:  []byte(cfg.JWTSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TokenService) IssueAccessToken(userID uuid.UUID) (string, time.Time, error) {
	return s.issue(userID, AccessToken, s.accessSecret, s.accessTTL)
}

func (s *TokenService) IssueRefreshToken(userID uuid.UUID) (string, time.Time, error) {
	return s.issue(userID, RefreshToken, s.refreshSecret, s.refreshTTL)
}

// IssuePair mints a fresh access and refresh token for the user.
func (s *TokenService) IssuePair(userID uuid.UUID) (*TokenPair, error) {
	access, accessExp, err := s.IssueAccessToken(userID)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.IssueRefreshToken(userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *TokenService) VerifyAccessToken(token string) (*Claims, error) {
	return s.Verify(token, s.accessSecret, AccessToken)
}

func (s *TokenService) VerifyRefreshToken(token string) (*Claims, error) {
	return s.Verify(token, s.refreshSecret, RefreshToken)
}

func (s *TokenService) issue(userID uuid.UUID, kind TokenKind, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks the signature against secret, the expiry and the token
// kind, and reports the first failure as one of the ErrToken* errors.
func (s *TokenService) Verify(tokenString string, secret []byte, kind TokenKind) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		}
	}

	if claims.Kind != kind {
		return nil, ErrTokenInvalid
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}
