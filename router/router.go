package router

import (
	"github.com/Yash-Soni1/vectra-backend/internal/auth"
	"github.com/Yash-Soni1/vectra-backend/internal/handler"
	"github.com/Yash-Soni1/vectra-backend/utils"
	"github.com/gin-gonic/gin"
)

// New builds the HTTP router. Everything except health, signup, login and
// email verification sits behind the auth middleware.
func New(provider auth.Provider, files *handler.FileHandler, folders *handler.FolderHandler) *gin.Engine {
	r := gin.Default()
	r.Use(utils.CORSMiddleware())

	authHandler := handler.NewAuthHandler(provider)

	api := r.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.POST("/auth/signup", authHandler.SignUp)
		api.POST("/auth/login", authHandler.SignIn)
		api.GET("/auth/verify", authHandler.Verify)

		protected := api.Group("")
		protected.Use(auth.Middleware(provider))
		{
			protected.GET("/auth/me", authHandler.Me)

			protected.POST("/files/upload", files.Upload)
			protected.GET("/files", files.List)
			protected.GET("/files/search", files.Search)
			protected.GET("/files/download/:id", files.Download)
			protected.DELETE("/files/:id", files.Delete)

			protected.POST("/folders", folders.Create)
			protected.GET("/folders", folders.List)
			protected.PATCH("/folders/:id", folders.Rename)
			protected.DELETE("/folders/:id", folders.Delete)
		}
	}

	return r
}
