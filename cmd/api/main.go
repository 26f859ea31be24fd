// @title Habit-tracker API
// @description API for habit-tracker app "Habitgrid"
// @BasePath /api/v1
// @schemes http
package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/limbo/habitgrid/internal/api"
	"github.com/limbo/habitgrid/internal/cache"
	"github.com/limbo/habitgrid/internal/repository"
	"github.com/limbo/habitgrid/internal/service"
	"github.com/limbo/habitgrid/pkg/cleanup"
	"github.com/limbo/habitgrid/pkg/config"
	jwtservice "github.com/limbo/habitgrid/pkg/jwt_service"
	"github.com/limbo/habitgrid/pkg/s3backup"
)

func main() {
	cfg := config.New()
	defer cleanup.CleanUp()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	pool, err := repository.Connect(ctx, &repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
		SSLMode:  cfg.GetString("POSTGRES_SSLMODE"),
	})
	if err != nil {
		log.Fatal(err)
	}

	cacheTTL, err := cfg.GetDuration("CACHE_TTL", 10*time.Minute)
	if err != nil {
		log.Fatal(err)
	}
	location, err := cfg.GetLocation("APP_TIMEZONE")
	if err != nil {
		log.Fatal(err)
	}
	mirror := cache.NewMirror(cacheTTL)

	userService := service.NewUserService(repository.NewUsersRepo(pool)).WithMirror(mirror)
	habitsService := service.NewHabitsService(
		repository.NewHabitsRepo(pool),
		repository.NewHabitEntriesRepo(pool),
		repository.NewDataRepo(pool),
		mirror,
	)
	if bucket := cfg.GetString("BACKUP_S3_BUCKET"); bucket != "" {
		store, err := s3backup.NewFromDefaultConfig(ctx, cfg.GetString("AWS_REGION"), bucket, cfg.GetString("BACKUP_S3_PREFIX"))
		if err != nil {
			log.Fatal(err)
		}
		habitsService.WithBackups(store)
		slog.Info("backups enabled", slog.String("bucket", bucket))
	}

	serv := api.New(&api.ServicesList{
		UserService:   userService,
		HabitsService: habitsService,
		JwtService:    jwtservice.New(cfg.GetString("JWT_SECRET")),
		Location:      location,
	})
	if err = serv.Run(cfg.GetStringOr("API_ADDRESS", ":8080")); err != nil {
		slog.Error("server error", slog.String("error", err.Error()))
	}
}
