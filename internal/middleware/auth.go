package middleware

import (
	"net/http"
	"strings"

	"bizzops/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const OwnerIDKey = "owner_id"

// JWTAuth validates the Bearer token on every protected route and stores the
// authenticated owner id in the Gin context.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "authentication required")
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "invalid token claims")
			return
		}
		sub, _ := claims["sub"].(string)
		ownerID, err := uuid.Parse(sub)
		if err != nil {
			abortUnauthorized(c, "invalid token subject")
			return
		}

		c.Set(OwnerIDKey, ownerID)
		c.Next()
	}
}

// GetOwnerID retrieves the authenticated owner id from the Gin context.
func GetOwnerID(c *gin.Context) uuid.UUID {
	id, _ := c.MustGet(OwnerIDKey).(uuid.UUID)
	return id
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, apperror.Response{
		Code:   string(apperror.KindUnauthorized),
		Detail: msg,
	})
}
