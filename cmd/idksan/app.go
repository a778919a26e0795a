package main

import (
	"github.com/gin-gonic/gin"

	"github.com/Itoshi-web/idksan/internal/api"
	"github.com/Itoshi-web/idksan/internal/config"
	"github.com/Itoshi-web/idksan/internal/constants"
	"github.com/Itoshi-web/idksan/internal/engine"
	"github.com/Itoshi-web/idksan/internal/logging"
	"github.com/Itoshi-web/idksan/internal/service"
	"github.com/Itoshi-web/idksan/internal/storage"
	"github.com/Itoshi-web/idksan/internal/ws"
)

func run(configPath, dbPath, addrOverride string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		logging.Fatal("Invalid configuration", err, logging.Fields{"config_path": configPath})
	}
	if addrOverride != "" {
		cfg.ServerAddress = addrOverride
	}

	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, logging.Fields{"db_path": dbPath})
	}
	repo := storage.NewSQLiteRepository(db)

	hub := ws.NewHub()
	go hub.Run()

	svc := service.NewGameService(
		service.NewRoomStore(),
		repo,
		hub,
		engine.ProcessRand(),
		cfg.BotThinkDelay,
		cfg.MinPlayers,
		cfg.MaxPlayers,
	)
	startRoomReaper(svc, cfg.RoomTTL)

	router := gin.Default()
	handler := api.NewHandler(svc, repo, hub, cfg.SessionTTL)
	handler.RegisterRoutes(router)

	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: cfg.ServerAddress})
	return router.Run(cfg.ServerAddress)
}
