package main

import (
	"log"

	"github.com/Yash-Soni1/vectra-backend/config"
	"github.com/Yash-Soni1/vectra-backend/internal/auth"
	"github.com/Yash-Soni1/vectra-backend/internal/handler"
	"github.com/Yash-Soni1/vectra-backend/internal/metadata"
	"github.com/Yash-Soni1/vectra-backend/internal/mq"
	"github.com/Yash-Soni1/vectra-backend/internal/repo"
	"github.com/Yash-Soni1/vectra-backend/internal/service"
	"github.com/Yash-Soni1/vectra-backend/internal/storage"
	"github.com/Yash-Soni1/vectra-backend/router"
	"github.com/Yash-Soni1/vectra-backend/utils"
)

// main initializes services and starts the HTTP server.
func main() {
	config.InitConfig()
	repo.InitMysql()
	repo.InitRedis()
	storage.InitMinio()

	cache := utils.NewRedisCache(repo.Redis)
	bucket := config.AppConfig.BucketName

	fileStore := metadata.NewGormStore(repo.Db)
	folderStore := metadata.NewGormFolderStore(repo.Db)
	userStore := auth.NewGormUserStore(repo.Db)

	fileService := service.NewFileService(fileStore, storage.Default, bucket, cache, mq.CleanupQueue{})
	folderService := service.NewFolderService(folderStore, fileStore)
	provider := auth.NewLocalProvider(userStore, cache, utils.SendVerificationMail, config.AppConfig.BaseURL)

	r := router.New(
		provider,
		handler.NewFileHandler(fileService),
		handler.NewFolderHandler(folderService),
	)

	if err := r.Run(":" + config.AppConfig.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
