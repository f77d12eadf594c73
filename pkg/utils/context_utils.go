package utils

import (
	"context"

	"github.com/dcodingdev/gearguard/internal/dto"
	"github.com/dcodingdev/gearguard/pkg/contextkeys"
	apperrors "github.com/dcodingdev/gearguard/pkg/errors"
)

func WithActor(ctx context.Context, actor dto.Actor) context.Context {
	return context.WithValue(ctx, contextkeys.ActorKey, actor)
}

// GetActorFromCtx returns the authenticated actor stored by the auth middleware.
func GetActorFromCtx(ctx context.Context) (dto.Actor, error) {
	actor, ok := ctx.Value(contextkeys.ActorKey).(dto.Actor)
	if !ok || actor.UserID == "" {
		return dto.Actor{}, apperrors.ErrActorNotFoundInContext
	}
	return actor, nil
}

func GetRequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(contextkeys.RequestIDKey).(string)
	return id
}
