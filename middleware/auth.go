package middleware

import (
	"net/http"
	"strings"

	"rental-backend/models"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

const accountKey = "account"

// Authenticator resolves a bearer token to an account.
type Authenticator interface {
	Authenticate(token string) (*models.Account, error)
}

// Authenticate loads the caller from an "Authorization: Bearer <jwt>" header.
// Requests without the header pass through anonymously; a malformed or
// invalid token is rejected.
func Authenticate(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.Next()
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.JSONError(c, http.StatusUnauthorized, "error.unauthorized", "Invalid authorization header format.")
			c.Abort()
			return
		}

		account, err := auth.Authenticate(parts[1])
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "error.unauthorized", "Invalid or expired token.")
			c.Abort()
			return
		}

		c.Set(accountKey, account)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests. Use after Authenticate.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentAccount(c) == nil {
			utils.JSONError(c, http.StatusUnauthorized, "error.unauthorized", "Authentication credentials were not provided.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentAccount returns the authenticated caller or nil.
func CurrentAccount(c *gin.Context) *models.Account {
	v, ok := c.Get(accountKey)
	if !ok {
		return nil
	}
	account, _ := v.(*models.Account)
	return account
}
