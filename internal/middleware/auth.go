package middleware

import (
	"checkout-core/internal/apperr"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// RoleOwner marks store staff; tokens without it belong to buyers.
const RoleOwner = "owner"

// Claims carried in the access token issued by the auth subsystem. The token
// pins both the user and the store they are acting in.
type Claims struct {
	StoreID string `json:"store_id"`
	Role    string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func AuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return apperr.Unauthorized("missing bearer token")
			}

			claims := &Claims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !parsed.Valid {
				return apperr.Unauthorized("invalid token")
			}
			if claims.StoreID == "" || claims.Subject == "" {
				return apperr.Unauthorized("token missing store or subject")
			}

			c.Set("store_id", claims.StoreID)
			c.Set("user_id", claims.Subject)
			c.Set("role", claims.Role)
			return next(c)
		}
	}
}

// RequireOwner gates owner actions (mark-paid and the like) behind the owner
// role claim. Buyers of the same store must not pass.
func RequireOwner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if Role(c) != RoleOwner {
			return apperr.Forbidden("store owner role required")
		}
		return next(c)
	}
}

func StoreID(c echo.Context) string {
	storeID, _ := c.Get("store_id").(string)
	return storeID
}

func UserID(c echo.Context) string {
	userID, _ := c.Get("user_id").(string)
	return userID
}

func Role(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}
