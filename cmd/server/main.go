package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loyalty_club_backend/internal/config"
	"loyalty_club_backend/internal/database"
	"loyalty_club_backend/internal/repositories"
	"loyalty_club_backend/internal/router"
	"loyalty_club_backend/internal/services"
	"loyalty_club_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.InitLogger("info", true)
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize Logger
	utils.InitLogger(cfg.App.LogLevel, cfg.App.PrettyLogs)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.InitRecordStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer func() {
		if err := store.Close(); err != nil {
			utils.LogError(err, "Failed to close storage")
		}
	}()

	clientRepo, err := repositories.NewClientRepository(ctx, store, repositories.ClientRepositoryOptions{
		Key:    cfg.Storage.Key,
		Avatar: cfg.Avatar,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load clients")
	}

	gate := services.NewSessionGate()
	tokens := utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)
	authService, err := services.NewAuthService(gate, tokens, services.Credential{
		Email:    cfg.Auth.AdminEmail,
		Password: cfg.Auth.AdminPassword,
		Name:     cfg.Auth.AdminName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize auth service")
	}
	clientService := services.NewClientService(clientRepo)
	defer clientService.Close()

	engine := gin.New()
	engine.Use(utils.GinLogger(), gin.Recovery())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.App.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.Setup(engine, router.Dependencies{
		Gate:          gate,
		AuthService:   authService,
		ClientService: clientService,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.App.Port, "storage": cfg.Storage.Driver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Failed to start server")
			stop()
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server forced to shutdown")
	}
}
