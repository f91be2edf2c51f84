package main

import (
	"context"

	"github.com/apexearn/apexearn/config"
	"github.com/apexearn/apexearn/db"
	"github.com/apexearn/apexearn/internal/jobs"
	"github.com/apexearn/apexearn/internal/notifier"
	"github.com/apexearn/apexearn/internal/repository"
	"github.com/apexearn/apexearn/internal/server"
	"github.com/apexearn/apexearn/internal/service"
	"github.com/apexearn/apexearn/utils"
)

func main() {
	logger := utils.InitLogger()
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		logger.Fatal("Failed to load config: ", err)
	}

	database, err := db.ConnectDb(cfg.DB_URL, logger)
	if err != nil {
		logger.Fatal(err)
	}

	if err := db.Migrate(database, true, logger); err != nil {
		logger.Fatal(err)
	}

	repo := repository.NewRepository(database, logger)
	svc := service.NewService(repo, logger)

	adminNotifier, err := notifier.NewTelegramNotifier(cfg.TelegramBotToken, cfg.AdminChatID, logger)
	if err != nil {
		logger.Fatal("Failed to create notifier: ", err)
	}
	svc.WithNotifier(adminNotifier)

	scheduler := jobs.NewScheduler(svc, adminNotifier, logger)
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	srv := server.NewServer(svc, &cfg, logger)
	if err := srv.Run(); err != nil {
		logger.Fatal(err)
	}
}
