package middleware

import (
	"strings"
	"time"

	"github.com/ghareeshmiti/workerconnection-backend/config"
	"github.com/ghareeshmiti/workerconnection-backend/services"

	"github.com/gofiber/fiber/v2"
)

func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := config.Conf.Application.Security.Secret
		issuer := config.Conf.Application.Security.Issuer
		acctm := config.Conf.Application.Security.TokenValidityInSeconds
		reftm := config.Conf.Application.Security.TokenValidityInSecondsForRememberMe

		sessions := services.NewSessionService([]byte(secret), issuer,
			time.Duration(acctm)*time.Second, time.Duration(reftm)*time.Second)

		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or invalid token",
			})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := sessions.ParseToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token parse error",
			})
		}

		claims, err := sessions.GetClaims(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}
		c.Locals("workerId", claims["sub"])

		return c.Next()
	}
}
