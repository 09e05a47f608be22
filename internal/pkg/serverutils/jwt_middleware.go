// FILE: internal/pkg/serverutils/jwt_middleware.go
package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// OptionalJwtMiddleware attaches user_id when a valid bearer token is
// present. Anonymous and invalid-token requests pass through unchanged;
// the chat endpoints serve both.
func OptionalJwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Next()
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return ctx.Next()
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Next()
	}

	if userId, ok := claims["user_id"].(string); ok {
		ctx.Locals("user_id", userId)
	}
	return ctx.Next()
}
