package handler

import (
	"strings"
	"time"

	"pacificpro/internal/model"
	"pacificpro/internal/service"
	"pacificpro/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const ctxUserKey = "current_user"

// RequestID menempelkan id unik pada tiap request untuk korelasi log.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger mencatat satu baris log terstruktur per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("action", c.Query("action")).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request selesai")
	}
}

func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// Auth memvalidasi token Bearer dan meletakkan user aktif di context.
func Auth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "token tidak ditemukan, silakan login")
			c.Abort()
			return
		}

		claims, err := authService.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Unauthorized(c, "sesi tidak valid atau sudah berakhir, silakan login ulang")
			c.Abort()
			return
		}

		user, err := authService.ResolveUser(c.Request.Context(), claims)
		if err != nil {
			response.Unauthorized(c, "user sesi tidak ditemukan")
			c.Abort()
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// CurrentUser mengambil user aktif yang diletakkan middleware Auth.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}
