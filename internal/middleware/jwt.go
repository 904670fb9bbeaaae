package middleware

import (
	"context"
	"fmt"
	"net/http"

	"mentorhub/internal/common"
	"mentorhub/internal/roles"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// JWTMiddleware validates the bearer token and stores identity in the request
// context. The raw role claim is resolved to a canonical role exactly once
// here; downstream code never sees an alias.
func JWTMiddleware(jwtSecret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			token, err := jwt.Parse(auth, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				return nil, fmt.Errorf("invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return nil, fmt.Errorf("invalid claims")
			}

			sub, ok := claims["sub"].(string)
			if !ok {
				return nil, fmt.Errorf("missing subject")
			}
			userID, err := uuid.Parse(sub)
			if err != nil {
				return nil, fmt.Errorf("invalid subject format")
			}

			orgID, _ := claims["org_id"].(string)
			if orgID == "" {
				return nil, fmt.Errorf("missing organization claim")
			}

			rawRole, _ := claims["role"].(string)
			role := roles.Resolve(rawRole)

			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
			ctx = context.WithValue(ctx, common.OrgIDKey, orgID)
			ctx = context.WithValue(ctx, common.RoleKey, role)
			c.SetRequest(c.Request().WithContext(ctx))

			return token, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	})
}
