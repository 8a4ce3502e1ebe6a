package main

import (
	"EteKeeper/internal/blobstore"
	"EteKeeper/internal/config"
	"EteKeeper/internal/handlers"
	"EteKeeper/internal/middleware"
	"EteKeeper/internal/repo"
	"EteKeeper/internal/service"
	"net/http"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	blobs, err := blobstore.NewFS(cfg.BlobDir)
	if err != nil {
		sugar.Fatalw("failed to open blob store", "dir", cfg.BlobDir, "error", err)
	}
	chunks := repo.NewChunkStore(blobs)

	collectionRepo := repo.NewCollectionRepository(gormDB, chunks)
	itemRepo := repo.NewItemRepository(gormDB, chunks)

	userService := service.NewUserService(repo.NewUserRepository(gormDB))
	collectionService := service.NewCollectionService(collectionRepo, itemRepo, chunks, sugar)
	itemService := service.NewItemService(collectionRepo, itemRepo, chunks, sugar)

	h := handlers.NewHandler(userService, collectionService, itemService, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"BlobDir", cfg.BlobDir,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
