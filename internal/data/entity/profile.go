package entity

import (
	"travel-marketplace/internal/authz"
)

type Profile struct {
	Base
	Role      authz.Role `db:"role"`
	Name      *string    `db:"name"`
	AvatarURL *string    `db:"avatar_url"`
}

func (p *Profile) Actor() authz.Actor {
	return authz.Actor{
		ID:        p.ID,
		Role:      p.Role,
		Name:      p.Name,
		AvatarURL: p.AvatarURL,
	}
}
