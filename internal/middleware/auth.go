package middleware

import (
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/errs"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/response"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// IsLoggedIn rejects requests without a valid bearer token.
func IsLoggedIn(secret string) echo.MiddlewareFunc {
	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey: []byte(secret),
		ErrorHandlerWithContext: func(err error, c echo.Context) error {
			return response.WriteErrorResponse(c, errs.ErrNotLoggedIn, nil)
		},
	})
}

// MaybeLoggedIn parses a bearer token when one is sent and lets anonymous
// requests through. Invalid tokens are treated as absent.
func MaybeLoggedIn(secret string) echo.MiddlewareFunc {
	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:             []byte(secret),
		ContinueOnIgnoredError: true,
		ErrorHandlerWithContext: func(err error, c echo.Context) error {
			return nil
		},
	})
}

// IsAdmin must run after IsLoggedIn.
func IsAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		_, roleID, ok := utils.ExtractTokenUser(c)
		if !ok {
			return response.WriteErrorResponse(c, errs.ErrNotLoggedIn, nil)
		}

		if roleID != utils.AdminRoleID {
			return response.WriteErrorResponse(c, errs.ErrUnauthorized, nil)
		}

		return next(c)
	}
}
