package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel-marketplace/internal/authz"
	"travel-marketplace/internal/data/entity"
	"travel-marketplace/internal/data/repository"
	"travel-marketplace/internal/dto/request"
	"travel-marketplace/internal/dto/response"
	"travel-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Identity is an authenticated account as reported by a valid session.
type Identity struct {
	AccountID uuid.UUID
	Token     uuid.UUID
}

// ClientInfo describes the caller a session is issued to.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest, client ClientInfo) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	// CurrentIdentity returns nil for an unknown, malformed, revoked or expired token.
	CurrentIdentity(ctx context.Context, token string) (*Identity, error)
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest, client ClientInfo) (*response.AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validate(req); err != nil {
		s.log.Warn("Register validation failed", zap.Error(err))
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	account := &entity.Account{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		Email:        req.Email,
		PasswordHash: hashedPassword,
	}

	if err := s.repo.Account.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.log.Warn("Email already registered", zap.String("email", req.Email))
			return nil, fmt.Errorf("email %s: %w", req.Email, ErrConflict)
		}
		return nil, storeErr("create account", err)
	}

	profile := &entity.Profile{
		Base: entity.Base{
			ID:        account.ID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Role:      authz.Role(req.Role),
		Name:      trimmedOrNil(req.Name),
		AvatarURL: trimmedOrNil(req.AvatarURL),
	}

	if err := s.repo.Profile.Create(ctx, profile); err != nil {
		// the account exists without a profile until an operator repairs it
		s.log.Error("Account created without profile",
			zap.Error(err),
			zap.String("account_id", account.ID.String()),
		)
		return nil, storeErr("create profile", err)
	}

	session, err := s.createSession(ctx, account.ID, client)
	if err != nil {
		return nil, storeErr("create session", err)
	}

	s.log.Info("Account registered",
		zap.String("account_id", account.ID.String()),
		zap.String("role", req.Role),
	)

	resp := response.AuthToResponse(account, profile, session)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	account, err := s.repo.Account.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, storeErr("find account", err)
	}

	if account == nil || !utils.CheckPasswordHash(req.Password, account.PasswordHash) {
		s.log.Warn("Invalid credentials", zap.String("email", req.Email))
		return nil, fmt.Errorf("invalid credentials: %w", ErrUnauthenticated)
	}

	profile, err := s.repo.Profile.FindByID(ctx, account.ID)
	if err != nil {
		return nil, storeErr("find profile", err)
	}
	if profile == nil {
		s.log.Error("Login for account without profile", zap.String("account_id", account.ID.String()))
		return nil, ErrProfileMissing
	}

	session, err := s.createSession(ctx, account.ID, client)
	if err != nil {
		return nil, storeErr("create session", err)
	}

	s.log.Info("Account logged in", zap.String("account_id", account.ID.String()))

	resp := response.AuthToResponse(account, profile, session)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		return ErrUnauthenticated
	}

	if err := s.repo.Session.Revoke(ctx, tokenUUID); err != nil {
		return storeErr("revoke session", err)
	}

	s.log.Info("Session revoked")
	return nil
}

func (s *authService) CurrentIdentity(ctx context.Context, token string) (*Identity, error) {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		return nil, nil
	}

	session, err := s.repo.Session.FindValidSession(ctx, tokenUUID)
	if err != nil {
		return nil, storeErr("find session", err)
	}
	if session == nil || !session.Active(s.now()) {
		return nil, nil
	}

	return &Identity{AccountID: session.AccountID, Token: session.Token}, nil
}

func (s *authService) createSession(ctx context.Context, accountID uuid.UUID, client ClientInfo) (*entity.Session, error) {
	hours := s.config.Session.ExpiryHours
	if hours <= 0 {
		hours = 24
	}

	now := s.now().UTC()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		AccountID: accountID,
		Token:     uuid.New(),
		UserAgent: utils.OptionalString(client.UserAgent),
		IPAddress: utils.OptionalString(client.IPAddress),
		ExpiresAt: now.Add(time.Duration(hours) * time.Hour),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	return utils.OptionalString(*s)
}
