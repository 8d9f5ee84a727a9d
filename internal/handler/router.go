package handler

import (
	"net/http"

	"pacificpro/internal/service"

	"github.com/gin-gonic/gin"
)

// NewRouter merakit seluruh rute HTTP. Endpoint bisnis memakai pola
// satu path per domain dengan parameter aksi, mengikuti kontrak klien
// lama.
func NewRouter(
	authService *service.AuthService,
	transaksiHandler *TransaksiHandler,
	backupHandler *BackupHandler,
	authHandler *AuthHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Logger(), gin.Recovery(), CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/api/login", authHandler.Login)

	api := r.Group("/api")
	api.Use(Auth(authService))
	{
		api.Any("/transaksi", transaksiHandler.Handle)
		api.Any("/backup_restore", backupHandler.Handle)
		api.POST("/logout", authHandler.Logout)
	}

	return r
}
