package usecase

import (
	"context"

	"travel-marketplace/internal/authz"
	"travel-marketplace/internal/data/repository"

	"go.uber.org/zap"
)

// RoleResolver turns an authenticated identity into the actor every other
// service receives.
type RoleResolver interface {
	ResolveRole(ctx context.Context, identity *Identity) (*authz.Actor, error)
}

type roleResolver struct {
	profiles repository.ProfileRepository
	log      *zap.Logger
}

func NewRoleResolver(profiles repository.ProfileRepository, log *zap.Logger) RoleResolver {
	return &roleResolver{
		profiles: profiles,
		log:      log.With(zap.String("service", "role")),
	}
}

// ResolveRole never guesses a role: a missing profile is ErrProfileMissing.
func (s *roleResolver) ResolveRole(ctx context.Context, identity *Identity) (*authz.Actor, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}

	profile, err := s.profiles.FindByID(ctx, identity.AccountID)
	if err != nil {
		return nil, storeErr("find profile", err)
	}
	if profile == nil || !profile.Role.Valid() {
		s.log.Error("Authenticated account has no usable profile",
			zap.String("account_id", identity.AccountID.String()),
		)
		return nil, ErrProfileMissing
	}

	actor := profile.Actor()
	return &actor, nil
}
