package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Yash-Soni1/vectra-backend/config"
	"github.com/Yash-Soni1/vectra-backend/internal/metadata"
	"github.com/Yash-Soni1/vectra-backend/internal/repo"
	"github.com/Yash-Soni1/vectra-backend/internal/storage"
	"github.com/Yash-Soni1/vectra-backend/internal/worker"
)

func main() {
	config.InitConfig()
	repo.InitMysql()
	storage.InitMinio()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reconciler := worker.NewReconciler(
		metadata.NewGormStore(repo.Db),
		storage.Default,
		config.AppConfig.BucketName,
	)

	go reconciler.RunSweeper(ctx)

	log.Println("reconcile worker started")
	if err := reconciler.Run(ctx); err != nil {
		log.Fatalf("reconcile worker stopped: %v", err)
	}
}
