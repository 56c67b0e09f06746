package main

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/teachdugsimt/cgl-op-job-service/internal/app/auth"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/config"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/dsn"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/handler"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/idcodec"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/middleware"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/repository"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/service"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	repo, err := repository.New(dsn.FromEnv())
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}

	codec, err := idcodec.New(cfg.IDSalt)
	if err != nil {
		logrus.Fatalf("failed to init id codec: %v", err)
	}

	tokens := auth.NewTokenService(cfg.JWTSecret)
	authMW := middleware.NewAuthMiddleware(tokens)

	notifier := service.NewNotifyClient(cfg.NotificationURL)
	jobService := service.NewJobService(
		repo.Jobs(), repo.Shipments(), repo.Views(), repo, codec, notifier)
	favoriteService := service.NewFavoriteService(
		repo.Favorites(), repo.FavoriteViews(), codec)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))

	handler.New(jobService, favoriteService).RegisterRoutes(r, authMW)

	addr := fmt.Sprintf("%s:%d", cfg.ServiceHost, cfg.ServicePort)
	logrus.WithField("addr", addr).Info("job service listening")
	if err := r.Run(addr); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
