package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/talent-directory/pkg/auth"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

type RouterDeps struct {
	Directory   *DirectoryHandler
	Interchange *InterchangeHandler
	// Media is optional; photo routes are only mounted when it is set.
	Media       *MediaHandler
	Auth        *AuthHandler
	JWT         *auth.JWTService
	Logger      logger.Logger
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(d.Logger), ErrorMiddleware(d.Logger))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "OK"})
		})
		api.POST("/auth/login", d.Auth.Login)

		api.GET("/profiles", d.Directory.ListProfiles)
		api.GET("/profiles/:id", d.Directory.GetProfile)
		api.GET("/skills", d.Directory.ListSkills)
		api.GET("/skills/:id", d.Directory.GetSkill)
		api.GET("/categories", d.Directory.ListCategories)
		api.GET("/stats", d.Directory.Stats)
		api.GET("/export", d.Interchange.Export)

		admin := api.Group("/")
		admin.Use(AuthMiddleware(d.JWT, d.Logger))
		{
			admin.POST("/profiles", d.Directory.CreateProfile)
			admin.PATCH("/profiles/:id", d.Directory.UpdateProfile)
			admin.DELETE("/profiles/:id", d.Directory.DeleteProfile)

			admin.POST("/skills", d.Directory.CreateSkill)
			admin.PATCH("/skills/:id", d.Directory.UpdateSkill)
			admin.DELETE("/skills/:id", d.Directory.DeleteSkill)

			admin.POST("/categories", d.Directory.CreateCategory)
			admin.PUT("/categories/:name", d.Directory.RenameCategory)
			admin.DELETE("/categories/:name", d.Directory.DeleteCategory)

			admin.POST("/import", d.Interchange.Import)

			if d.Media != nil {
				admin.PUT("/profiles/:id/image", d.Media.UploadProfileImage)
				admin.DELETE("/profiles/:id/image", d.Media.DeleteProfileImage)
			}
		}
	}
	return router
}
