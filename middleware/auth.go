package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "userId"

type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// JWTAuth validates an HMAC bearer token. On routes with a :user_id parameter
// the token must belong to that user.
func JWTAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", "No authorization token provided")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abort(c, http.StatusUnauthorized, "Invalid authorization header", "UNAUTHORIZED", "Format should be: Bearer <token>")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !token.Valid || claims.UserID == "" {
			abort(c, http.StatusUnauthorized, "Invalid token", "UNAUTHORIZED", "Token validation failed")
			return
		}

		if owner := c.Param("user_id"); owner != "" && owner != claims.UserID {
			abort(c, http.StatusForbidden, "Forbidden", "FORBIDDEN", "Token does not belong to this user")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}

func abort(c *gin.Context, status int, msg, code, detail string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":   msg,
		"code":    code,
		"message": detail,
	})
}
