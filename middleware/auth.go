package middleware

import (
	"strings"

	"courtfinder/constants"
	"courtfinder/response"
	"courtfinder/services"

	"github.com/gin-gonic/gin"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// AuthMiddleware yêu cầu token hợp lệ và lưu userID vào context
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		userID, err := services.GetUserIDFromToken(tokenString, secret)
		if err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(constants.ContextUserID, userID)
		c.Next()
	}
}

// OptionalAuth cho phép người xem ẩn danh (userID = 0), nhưng token sai vẫn bị từ chối
func OptionalAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.Set(constants.ContextUserID, uint(0))
			c.Next()
			return
		}

		userID, err := services.GetUserIDFromToken(tokenString, secret)
		if err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(constants.ContextUserID, userID)
		c.Next()
	}
}

// CurrentUserID đọc userID do AuthMiddleware/OptionalAuth gán, 0 nếu ẩn danh
func CurrentUserID(c *gin.Context) uint {
	v, ok := c.Get(constants.ContextUserID)
	if !ok {
		return 0
	}
	id, _ := v.(uint)
	return id
}

// ErrorHandler ghi response cho lỗi được đẩy vào c.Errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			response.Fail(c, c.Errors.Last().Err)
		}
	}
}
