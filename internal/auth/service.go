// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/codeburry/api/internal/config"
	"github.com/codeburry/api/internal/core"
	"github.com/codeburry/api/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
)

type UserInfo struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type NewUser struct {
	Email        string
	PasswordHash string
	Name         string
	Avatar       string
	Role         string
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(ctx context.Context, u NewUser) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Service struct {
	jwt           *JWTManager
	userProvider  UserProvider
	adminEmails   map[string]struct{}
	defaultAvatar string
}

func NewService(
	jwt *JWTManager,
	userProvider UserProvider,
	cfg config.AuthConfig,
) *Service {
	admins := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, e := range cfg.AdminEmails {
		admins[e] = struct{}{}
	}

	return &Service{
		jwt:           jwt,
		userProvider:  userProvider,
		adminEmails:   admins,
		defaultAvatar: cfg.DefaultAvatar,
	}
}

// RoleFor assigns the role for a new account. Only operator-listed
// addresses become admins; nothing about the address itself is trusted.
func (s *Service) RoleFor(email string) string {
	if _, ok := s.adminEmails[email]; ok {
		return middleware.RoleAdmin
	}
	return middleware.RoleUser
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (_ *Session, err error) {
	ctx, span := core.StartSpan(ctx, "auth", "auth.register")
	defer func() { core.EndSpan(span, err) }()

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(ctx, NewUser{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Avatar:       req.Avatar,
		Role:         s.RoleFor(req.Email),
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	span.SetAttributes(
		attribute.String("user.id", user.ID),
		attribute.String("user.role", user.Role),
	)

	return s.newSession(user)
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (_ *Session, err error) {
	ctx, span := core.StartSpan(ctx, "auth", "auth.login")
	defer func() {
		if errors.Is(err, ErrInvalidCredentials) {
			core.EndSpan(span, nil)
			return
		}
		core.EndSpan(span, err)
	}()

	user, err := s.userProvider.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if upErr := s.userProvider.UpdatePassword(ctx, user.ID, newHash); upErr != nil {
			slog.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", upErr,
			)
		}
	}

	return s.newSession(user)
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*UserResponse, error) {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *Service) newSession(user *UserInfo) (*Session, error) {
	avatar := user.Avatar
	if avatar == "" {
		avatar = s.defaultAvatar
	}

	token, expiresAt, err := s.jwt.Issue(middleware.SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		Avatar: avatar,
	})
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	return &Session{
		User:      toUserResponse(user),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func toUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
