package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"hotel_saas/internal/adapters/observability"
	"hotel_saas/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)

const minPasswordLen = 8

// Claims is the JWT payload issued at login. The subject is the username.
type Claims struct {
	UserID   int64       `json:"uid"`
	Role     domain.Role `json:"role"`
	TenantID *int64      `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AuthService struct {
	admins domain.AdminUserRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(admins domain.AdminUserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{admins: admins, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func HashPassword(pw string) (string, error) {
	if len(pw) < minPasswordLen {
		return "", &domain.ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", minPasswordLen)}
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// burn spends the same bcrypt work as a real comparison so unknown usernames
// are not distinguishable by latency.
func burn(pw string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(pw))
}

func (s *AuthService) Login(ctx context.Context, username, password string) (Token, domain.AdminUser, error) {
	a, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			burn(password)
			observability.ObserveAuth("login", "rejected")
			return Token{}, domain.AdminUser{}, ErrInvalidCredentials
		}
		observability.ObserveAuth("login", "error")
		return Token{}, domain.AdminUser{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		observability.ObserveAuth("login", "rejected")
		return Token{}, domain.AdminUser{}, ErrInvalidCredentials
	}

	tok, err := s.Issue(a)
	if err != nil {
		observability.ObserveAuth("login", "error")
		return Token{}, domain.AdminUser{}, err
	}
	if err := s.admins.TouchLogin(ctx, a.ID); err != nil {
		log.Warn().Err(err).Int64("admin", a.ID).Msg("record last login failed")
	}
	observability.ObserveAuth("login", "ok")
	return tok, a, nil
}

// Issue signs a token for a without checking credentials.
func (s *AuthService) Issue(a domain.AdminUser) (Token, error) {
	now := s.now().UTC()
	exp := now.Add(s.ttl)
	claims := Claims{
		UserID:   a.ID,
		Role:     a.Role,
		TenantID: a.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.Username,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: signed, TokenType: "bearer", ExpiresAt: exp.Truncate(time.Second)}, nil
}

func (s *AuthService) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		observability.ObserveAuth("token", "rejected")
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		observability.ObserveAuth("token", "rejected")
		return nil, ErrInvalidToken
	}
	if claims.Role != domain.RoleSuperAdmin && claims.TenantID == nil {
		observability.ObserveAuth("token", "rejected")
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authenticate verifies raw and reloads its account, so a deactivated or
// deleted admin is rejected before the token expires. Role and tenant come
// from the stored account, not the claims.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (Actor, error) {
	claims, err := s.Parse(raw)
	if err != nil {
		return Actor{}, err
	}
	a, err := s.admins.GetByUsername(ctx, claims.Subject)
	switch {
	case errors.Is(err, domain.ErrNotFound), err == nil && a.ID != claims.UserID:
		observability.ObserveAuth("token", "revoked")
		return Actor{}, ErrInvalidToken
	case err != nil:
		observability.ObserveAuth("token", "error")
		return Actor{}, err
	}
	return Actor{UserID: a.ID, Username: a.Username, Role: a.Role, TenantID: a.TenantID}, nil
}

// Me reloads the admin behind a token subject. Deactivated or deleted admins
// resolve to ErrNotFound.
func (s *AuthService) Me(ctx context.Context, username string) (domain.AdminUser, error) {
	return s.admins.GetByUsername(ctx, username)
}
