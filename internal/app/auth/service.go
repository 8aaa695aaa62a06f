// Package auth checks the shared admin credentials, grants the admin flag to
// users, and issues the bearer tokens used by the admin HTTP API.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

const issuer = "timetable-bot"

// Config holds the single admin credential pair. When PasswordHash is set
// it is a bcrypt hash and Password is ignored.
type Config struct {
	Username     string
	Password     string
	PasswordHash string
	Secret       []byte
	TokenTTL     time.Duration
}

// Claims is what an admin token carries.
type Claims struct {
	ChatID  domain.ChatID `json:"chat_id,omitempty"`
	IsAdmin bool          `json:"is_admin"`
	jwt.RegisteredClaims
}

type Service struct {
	users domain.UserStore
	cfg   Config
	now   func() time.Time
}

func NewService(users domain.UserStore, cfg Config) *Service {
	return &Service{users: users, cfg: cfg, now: time.Now}
}

// CheckCredentials compares against the configured pair. An empty username
// never matches.
func (s *Service) CheckCredentials(username, password string) error {
	if s.cfg.Username == "" || username != s.cfg.Username {
		return domain.ErrInvalidCredentials
	}

	if s.cfg.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password)); err != nil {
			return domain.ErrInvalidCredentials
		}
		return nil
	}

	if subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) != 1 {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// Login checks the credentials, marks the sender as admin (creating the user
// record on first sight) and returns a fresh admin token.
func (s *Service) Login(ctx context.Context, p domain.Profile, username, password string) (*domain.User, string, error) {
	if err := s.CheckCredentials(username, password); err != nil {
		return nil, "", err
	}

	user, err := s.users.GetUserByChatID(ctx, p.ChatID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		user, err = s.users.CreateUser(ctx, domain.UserFields{
			ChatID:    p.ChatID,
			Username:  p.Username,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			IsAdmin:   true,
		})
		if err != nil {
			return nil, "", fmt.Errorf("creating admin user: %w", err)
		}
	case err != nil:
		return nil, "", fmt.Errorf("loading user: %w", err)
	case !user.IsAdmin:
		f := user.Fields()
		f.IsAdmin = true
		user, err = s.users.UpdateUser(ctx, user.ID, f)
		if err != nil {
			return nil, "", fmt.Errorf("granting admin: %w", err)
		}
	}

	token, err := s.IssueToken(p.ChatID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// IsAdmin reports whether the chat belongs to an admin. Unknown chats are not,
// and neither is any chat on a request whose token check failed.
func (s *Service) IsAdmin(ctx context.Context, chatID domain.ChatID) (bool, error) {
	if tokenRejected(ctx) {
		return false, nil
	}
	user, err := s.users.GetUserByChatID(ctx, chatID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}

// IssueToken signs an admin token. chatID may be empty for API-only logins.
func (s *Service) IssueToken(chatID domain.ChatID) (string, error) {
	now := s.now()
	claims := Claims{
		ChatID:  chatID,
		IsAdmin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates an admin token.
func (s *Service) VerifyToken(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.cfg.Secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || !claims.IsAdmin {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
