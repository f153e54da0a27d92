package middleware

import (
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/auth"
	"go-jobboard-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "token"

// SessionToken reads the token from the session cookie, falling back to an
// Authorization: Bearer header.
func SessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	return auth.ExtractBearerToken(c.GetHeader("Authorization"))
}

func AuthMiddleware(authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			logUnauthorized(c)
			c.Error(apperror.Unauthorized("User not authenticated"))
			c.Abort()
			return
		}

		claims, err := authUC.ValidateSession(c.Request.Context(), token)
		if err != nil {
			logUnauthorized(c)
			c.Error(err)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), claims.UserID)
		c.Set(string(domain.KeyUserRole), claims.Role)
		c.Set(string(domain.KeyTokenID), claims.TokenID)

		c.Next()
	}
}

// RequireRole rejects callers whose session role differs from role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(string(domain.KeyUserRole)) != role {
			c.Error(apperror.Forbidden("This action requires the " + role + " role"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func logUnauthorized(c *gin.Context) {
	security.DefaultLogger().LogUnauthorizedAccess(
		c.Request.Context(),
		c.ClientIP(),
		c.GetHeader("User-Agent"),
		c.GetString(string(domain.KeyRequestID)),
		c.FullPath(),
	)
}
