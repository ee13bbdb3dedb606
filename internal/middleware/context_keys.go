package middleware

import "github.com/gin-gonic/gin"

// userIDKey and isAdminKey store the authenticated member in the request context.
const (
	userIDKey  = contextKey("userID")
	isAdminKey = contextKey("isAdmin")
)

// GetUserIDFromContext retrieves the authenticated member ID from the request context.
// It returns the member ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetIsAdminFromContext reports whether the authenticated member carries the admin claim.
func GetIsAdminFromContext(c *gin.Context) bool {
	isAdmin, _ := c.Request.Context().Value(isAdminKey).(bool)
	return isAdmin
}
