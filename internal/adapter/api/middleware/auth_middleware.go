package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/infrastructure/firebase"
	"storefront/pkg/errors"
)

type AuthMiddleware struct {
	authClient    *firebase.AuthClient
	userRepo      repository.UserRepository
	adminAPIToken string
}

func NewAuthMiddleware(authClient *firebase.AuthClient, userRepo repository.UserRepository, adminAPIToken string) *AuthMiddleware {
	return &AuthMiddleware{
		authClient:    authClient,
		userRepo:      userRepo,
		adminAPIToken: adminAPIToken,
	}
}

// Authenticate resolves the bearer token to an Actor. The configured admin
// API token authenticates the builtin support admin, which has no user
// record; everything else is a Firebase ID token for a persisted account.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return err
		}

		if m.adminAPIToken != "" && token == m.adminAPIToken {
			c.Set("actor", entity.BuiltinAdminActor())
			return next(c)
		}

		ctx := c.Request().Context()
		uid, err := m.authClient.VerifyToken(ctx, token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		user, err := m.userRepo.GetByID(ctx, uid)
		if err != nil {
			if !errors.Is(err, "NOT_FOUND") {
				return err
			}
			// Valid token but no profile yet: treat as a plain user.
			c.Set("actor", entity.Actor{Kind: entity.ActorUser, UserID: uid})
			return next(c)
		}

		c.Set("actor", entity.UserActor(user))
		return next(c)
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		// WebSocket clients can't set headers from the browser; accept the
		// token as a query parameter there.
		if token := c.QueryParam("token"); token != "" {
			return token, nil
		}
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
	}
	return parts[1], nil
}

// ActorFrom returns the authenticated Actor set by Authenticate.
func ActorFrom(c echo.Context) entity.Actor {
	if actor, ok := c.Get("actor").(entity.Actor); ok {
		return actor
	}
	return entity.Actor{}
}
