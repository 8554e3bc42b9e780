package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/sahidx/saroyar-sub004/internal/models"
	appErrors "github.com/sahidx/saroyar-sub004/pkg/errors"
	"github.com/sahidx/saroyar-sub004/pkg/response"
)

// RequireRoles lets through users holding one of roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return rbac(roles, "")
}

// RequireRolesOrSelf additionally lets a student through when their linked student id
// equals the path parameter param.
func RequireRolesOrSelf(param string, roles ...models.UserRole) gin.HandlerFunc {
	return rbac(roles, param)
}

func rbac(roles []models.UserRole, selfParam string) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, ok := allowed[claims.Role]; ok {
			c.Next()
			return
		}

		if selfParam != "" && claims.StudentID != "" && c.Param(selfParam) == claims.StudentID {
			c.Next()
			return
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}
