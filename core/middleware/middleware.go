package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"studyhub-api/core/config"
	"studyhub-api/core/errors"
	"studyhub-api/core/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const ContextUserIDKey = "user_id"

type Middleware struct {
	jwtSecret []byte
}

func NewMiddleware(cfg *config.Config) *Middleware {
	return &Middleware{jwtSecret: []byte(cfg.JWT.Secret)}
}

// AuthMiddleware validates the bearer token and stores the user id in the
// request context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized,
					errors.NewAppError(errors.ErrMissingAuthorizationHeader, "Missing Authorization header", nil))
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized,
					errors.NewAppError(errors.ErrInvalidTokenFormat, "Authorization header must be 'Bearer {token}'", nil))
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return m.jwtSecret, nil
			})
			if err != nil || !token.Valid {
				logger.Warn("AuthMiddleware:InvalidToken", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized,
					errors.NewAppError(errors.ErrTokenExpired, "Invalid or expired token", err))
			}

			sub, err := claims.GetSubject()
			if err != nil || sub == "" {
				return echo.NewHTTPError(http.StatusUnauthorized,
					errors.NewAppError(errors.ErrUnauthorized, "Token has no subject", err))
			}
			userID, err := uuid.Parse(sub)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized,
					errors.NewAppError(errors.ErrUnauthorized, "Token subject is not a valid user id", err))
			}

			c.Set(ContextUserIDKey, userID)
			return next(c)
		}
	}
}

// UserIDFromContext returns the authenticated user id placed by AuthMiddleware.
func UserIDFromContext(c echo.Context) (uuid.UUID, error) {
	id, ok := c.Get(ContextUserIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("no user id in context")
	}
	return id, nil
}
