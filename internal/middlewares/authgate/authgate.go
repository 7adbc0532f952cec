// Package authgate guards API routes with bearer session tokens and role
// allow-lists.
package authgate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kattend/internal/auth"
	"github.com/khanghh/kattend/internal/metrics"
	"github.com/khanghh/kattend/internal/users"
	"github.com/khanghh/kattend/model"
)

const (
	userLocalKey = "authgate_user"
	bearerPrefix = "Bearer "
)

const (
	MsgUnauthorized = "Not authorized to access this route"
	MsgForbidden    = "User role %s is not authorized to access this route"
)

type TokenParser interface {
	Parse(tokenStr string) (*auth.TokenClaims, error)
}

type UserGetter interface {
	GetUserByID(ctx context.Context, userID uint) (*model.User, error)
}

type Config struct {
	Tokens TokenParser
	Users  UserGetter
}

func reject(ctx *fiber.Ctx, status int, reason string, message string) error {
	metrics.AccessDeniedTotal.WithLabelValues(reason).Inc()
	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func bearerToken(ctx *fiber.Ctx) string {
	header := strings.TrimSpace(ctx.Get(fiber.HeaderAuthorization))
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

// New authenticates every request passing through it. The user referenced by
// the token is reloaded so deleted accounts and role changes take effect
// immediately.
func New(config Config) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := bearerToken(ctx)
		if tokenStr == "" {
			return reject(ctx, fiber.StatusUnauthorized, "missing_token", MsgUnauthorized)
		}

		claims, err := config.Tokens.Parse(tokenStr)
		if errors.Is(err, auth.ErrTokenExpired) {
			return reject(ctx, fiber.StatusUnauthorized, "expired_token", MsgUnauthorized)
		}
		if err != nil {
			return reject(ctx, fiber.StatusUnauthorized, "invalid_token", MsgUnauthorized)
		}
		userID, err := claims.ID()
		if err != nil {
			return reject(ctx, fiber.StatusUnauthorized, "invalid_token", MsgUnauthorized)
		}

		user, err := config.Users.GetUserByID(ctx.Context(), userID)
		if errors.Is(err, users.ErrUserNotFound) {
			return reject(ctx, fiber.StatusUnauthorized, "unknown_user", MsgUnauthorized)
		}
		if err != nil {
			slog.Error("Failed to load token user", "userId", userID, "error", err)
			return fiber.ErrInternalServerError
		}

		ctx.Locals(userLocalKey, user)
		return ctx.Next()
	}
}

// RequireRoles must be mounted after New.
func RequireRoles(roles ...model.Role) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user := CurrentUser(ctx)
		if user == nil {
			return reject(ctx, fiber.StatusUnauthorized, "missing_token", MsgUnauthorized)
		}
		if !slices.Contains(roles, user.Role) {
			return reject(ctx, fiber.StatusForbidden, "forbidden_role", fmt.Sprintf(MsgForbidden, user.Role))
		}
		return ctx.Next()
	}
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(ctx *fiber.Ctx) *model.User {
	user, _ := ctx.Locals(userLocalKey).(*model.User)
	return user
}
