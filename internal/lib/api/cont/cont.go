package cont

import (
	"HereToHelp/entity"
	"context"
)

type ctxKey string

const authKey ctxKey = "auth"

func PutAuth(ctx context.Context, auth *entity.Auth) context.Context {
	return context.WithValue(ctx, authKey, auth)
}

// GetAuth returns nil when the request carried no token.
func GetAuth(ctx context.Context) *entity.Auth {
	v, ok := ctx.Value(authKey).(*entity.Auth)
	if !ok {
		return nil
	}
	return v
}
