package main

import (
	"ClipVault/internal/config"
	"ClipVault/internal/handlers"
	"ClipVault/internal/middleware"
	"ClipVault/internal/repo"
	"ClipVault/internal/service"
	"ClipVault/internal/session"
	"context"
	"net/http"
	"time"

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	if err := service.EnsureUploadDir(cfg.UploadDir); err != nil {
		sugar.Fatalw("failed to prepare upload dir", "dir", cfg.UploadDir, "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	fileRepo := repo.NewFileRepository(gormDB)

	userService := service.NewUserService(userRepo)
	fileService := service.NewFileService(fileRepo, cfg.UploadDir, sugar)

	// начальная учётка администратора из конфига (если задана)
	if err := userService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		sugar.Fatalw("failed to seed admin user", "error", err)
	}

	sessions := session.NewManager(cfg.AuthSecret, cfg.SessionTTL())
	go sessionJanitor(ctx, sessions, sugar)

	h := handlers.NewHandler(userService, fileService, sessions, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"DatabaseDSN", cfg.DatabaseDSN,
		"UploadDir", cfg.UploadDir,
		"SessionTTL", cfg.SessionTTL(),
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}

// sessionJanitor периодически выметает истёкшие сессии.
func sessionJanitor(ctx context.Context, sessions *session.Manager, sugar *zap.SugaredLogger) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				sugar.Infow("session sweep", "removed", n, "alive", sessions.Len())
			}
		}
	}
}
