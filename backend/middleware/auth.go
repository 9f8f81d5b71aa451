package middleware

import (
	"context"

	"edulearn/backend/config"
	"edulearn/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const identityLocalsKey = "identity"

type identityCtxKey struct{}

// Protect rejects requests without a valid bearer token and attaches the
// decoded identity to both c.Locals and the request's user context.
func Protect(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := utils.ExtractBearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return utils.Unauthenticated("Not authenticated, no token provided.")
		}

		identity, err := utils.ParseJWTToken(token, cfg)
		if err != nil {
			return utils.InvalidToken("Token is invalid or expired.")
		}

		c.Locals(identityLocalsKey, identity)
		c.SetUserContext(WithIdentity(c.UserContext(), identity))
		return c.Next()
	}
}

// CurrentIdentity returns the identity set by Protect.
func CurrentIdentity(c *fiber.Ctx) (*utils.Identity, bool) {
	identity, ok := c.Locals(identityLocalsKey).(*utils.Identity)
	return identity, ok && identity != nil
}

func WithIdentity(ctx context.Context, identity *utils.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (*utils.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(*utils.Identity)
	return identity, ok && identity != nil
}
