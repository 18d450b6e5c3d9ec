package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"fundlink/internal/domain/entity"
	"fundlink/internal/domain/repository"
)

type RoleMiddleware struct {
	userRepo repository.UserRepository
}

func NewRoleMiddleware(userRepo repository.UserRepository) *RoleMiddleware {
	return &RoleMiddleware{
		userRepo: userRepo,
	}
}

// Require restricts a route to the given account types. Admins pass any
// check.
func (m *RoleMiddleware) Require(types ...entity.UserType) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := c.Get("uid").(string)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			user, err := m.userRepo.GetByID(c.Request().Context(), uid)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify account type")
			}

			if user.Type == entity.UserTypeAdmin {
				c.Set("user_type", user.Type)
				return next(c)
			}

			for _, t := range types {
				if user.Type == t {
					c.Set("user_type", user.Type)
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "Insufficient privileges for this action")
		}
	}
}

func (m *RoleMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return m.Require(entity.UserTypeAdmin)(next)
}
