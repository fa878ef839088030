package auth

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/nutrilab/imc-registry/internal/domain/model"
	"github.com/nutrilab/imc-registry/internal/domain/policy"
	apperrors "github.com/nutrilab/imc-registry/pkg/errors"
)

// contextKey is used for storing the actor in context
type contextKey string

const actorContextKey contextKey = "authenticated_actor"

// JWTManager issues and validates HMAC-signed access tokens carrying the
// user id, email and role.
type JWTManager struct {
	secret   []byte
	lifetime time.Duration
}

// NewJWTManager creates a manager with the given signing secret and token lifetime.
func NewJWTManager(secret string, lifetime time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), lifetime: lifetime}
}

// Issue signs an access token for the user.
func (m *JWTManager) Issue(user *model.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(m.lifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token string and extracts the actor it carries.
func (m *JWTManager) Parse(tokenString string) (policy.Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return policy.Actor{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return policy.Actor{}, fmt.Errorf("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return policy.Actor{}, fmt.Errorf("invalid subject claim: %w", err)
	}
	role, _ := claims["role"].(string)

	return policy.Actor{ID: id, Role: model.UserRole(role)}, nil
}

// MiddlewareConfig holds the configuration for the JWT middleware
type MiddlewareConfig struct {
	Manager   *JWTManager
	Logger    *zap.Logger
	SkipPaths []string // Paths to skip JWT validation
}

// Middleware validates Bearer tokens and stores the actor on the request context.
func Middleware(config MiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, skipPath := range config.SkipPaths {
				if strings.HasPrefix(path, skipPath) {
					return next(c)
				}
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				config.Logger.Warn("missing authorization header",
					zap.String("path", path),
					zap.String("method", c.Request().Method))
				return unauthorized(c, "MISSING_AUTH_HEADER", "Authorization header required")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				config.Logger.Warn("invalid authorization header format",
					zap.String("path", path))
				return unauthorized(c, "INVALID_AUTH_FORMAT", "Invalid authorization header format. Expected: Bearer <token>")
			}

			actor, err := config.Manager.Parse(tokenString)
			if err != nil {
				config.Logger.Warn("token validation failed",
					zap.Error(err),
					zap.String("path", path))
				return unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
			}

			ctx := context.WithValue(c.Request().Context(), actorContextKey, actor)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func unauthorized(c echo.Context, code, message string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"success": false,
		"error":   echo.Map{"code": code, "message": message},
	})
}

// ActorFromContext extracts the authenticated actor from the request context.
func ActorFromContext(c echo.Context) (policy.Actor, error) {
	actor, ok := c.Request().Context().Value(actorContextKey).(policy.Actor)
	if !ok {
		return policy.Actor{}, apperrors.NewAppError(apperrors.ErrUnauthenticated, "no authenticated actor found in context", nil)
	}
	return actor, nil
}
