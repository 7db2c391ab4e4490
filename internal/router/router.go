package router

import (
	"github.com/framewall/internal/config"
	"github.com/framewall/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup configures the gin engine and routes around a wired API.
func Setup(gdb *gorm.DB, cfg config.AppConfig) (*gin.Engine, *handler.API) {
	gin.SetMode(cfg.GinMode)
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("framewall_session", store))

	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	api := handler.NewAPI(gdb, cfg.SessionSecret, cfg.UploadDir, cfg.UploadURLPath)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Public render surface.
	r.GET("/galleries/:id", api.RenderGallery)
	r.GET("/wall", api.RenderWall)
	r.GET("/pages", api.ListPages)
	r.GET("/pages/:slug", api.ShowPage)

	admin := r.Group("/admin")
	{
		admin.POST("/login", api.Login)
		admin.POST("/logout", api.Logout)

		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/api/catalog", api.ActionCatalog)
			auth.POST("/api/action", api.DispatchAction)
			auth.GET("/api/attachments", api.ListAttachments)
			auth.POST("/api/upload", api.UploadImage)
		}
	}

	return r, api
}
