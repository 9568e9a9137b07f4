package response

import (
	"time"

	"travel-marketplace/internal/authz"
	"travel-marketplace/internal/data/entity"
)

type AuthResponse struct {
	UserID    string     `json:"user_id"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	Email     string     `json:"email"`
	Role      authz.Role `json:"role"`
	Name      *string    `json:"name,omitempty"`
}

type ProfileResponse struct {
	ID        string     `json:"id"`
	Role      authz.Role `json:"role"`
	Name      *string    `json:"name,omitempty"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
}

func ActorToResponse(actor authz.Actor) ProfileResponse {
	return ProfileResponse{
		ID:        actor.ID.String(),
		Role:      actor.Role,
		Name:      actor.Name,
		AvatarURL: actor.AvatarURL,
	}
}

func AuthToResponse(account *entity.Account, profile *entity.Profile, session *entity.Session) AuthResponse {
	resp := AuthResponse{
		UserID: account.ID.String(),
		Email:  account.Email,
	}

	if profile != nil {
		resp.Role = profile.Role
		resp.Name = profile.Name
	}

	if session != nil {
		resp.Token = session.Token.String()
		resp.ExpiresAt = session.ExpiresAt
	}

	return resp
}
