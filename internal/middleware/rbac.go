package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/tcu-dcda/dcda-advisor/internal/response"
)

// RequirePermission checks that the admin JWT contains the required permission code.
func RequirePermission(permissionCode string) gin.HandlerFunc {
	return RequireAnyPermission(permissionCode)
}

// RequireAnyPermission checks that the admin JWT contains at least one of the specified permissions.
func RequireAnyPermission(codes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		for _, p := range claims.Permissions {
			if slices.Contains(codes, p) {
				c.Next()
				return
			}
		}

		response.AbortFail(c, http.StatusForbidden, response.ErrPermissionDenied)
	}
}
