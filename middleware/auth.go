package middleware

import (
	"net/http"
	"os"
	"strings"

	"publication-management-api/config"
	"publication-management-api/models"
	"publication-management-api/workflow"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded session payload. SubmissionID is only set for
// author tokens, which are scoped to a single submission.
type Claims struct {
	UserID       int    `json:"user_id"`
	RoleName     string `json:"role_name"`
	SubmissionID int    `json:"submission_id,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and loads the caller identity
// into the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid authorization header format"})
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token claims"})
			c.Abort()
			return
		}

		// Staff tokens must still reference an active team member.
		if claims.RoleName != workflow.RoleAuthor {
			var member models.TeamMember
			if err := config.DB.Where("user_id = ? AND delete_at IS NULL", claims.UserID).First(&member).Error; err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
				c.Abort()
				return
			}
		}

		c.Set("userID", claims.UserID)
		c.Set("roleName", claims.RoleName)
		c.Set("submissionID", claims.SubmissionID)

		c.Next()
	}
}

// RequireRole restricts a route to the named roles.
func RequireRole(roleNames ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleName, exists := c.Get("roleName")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"message": "Role not found"})
			c.Abort()
			return
		}

		role := roleName.(string)
		allowed := false
		for _, name := range roleNames {
			if role == name {
				allowed = true
				break
			}
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"message": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}
