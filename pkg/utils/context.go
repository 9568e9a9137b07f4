package utils

import (
	"context"

	"travel-marketplace/internal/authz"
)

type contextKey string

const (
	ActorKey contextKey = "actor"
	TokenKey contextKey = "token"
)

// GetActorFromContext returns the actor resolved by the session middleware.
func GetActorFromContext(ctx context.Context) (authz.Actor, bool) {
	actor, ok := ctx.Value(ActorKey).(authz.Actor)
	if !ok {
		return authz.Actor{}, false
	}
	return actor, true
}

func SetActorContext(ctx context.Context, actor authz.Actor) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

// GetTokenFromContext mendapatkan token dari context
func GetTokenFromContext(ctx context.Context) (string, bool) {
	tokenVal := ctx.Value(TokenKey)
	if tokenVal == nil {
		return "", false
	}

	token, ok := tokenVal.(string)
	return token, ok
}

// SetTokenContext menambahkan token ke context
func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
