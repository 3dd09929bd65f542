package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	fitcoach "fitcoach-api"
	"fitcoach-api/internal/handler"
	"fitcoach-api/internal/repository"
	"fitcoach-api/internal/service"
	"fitcoach-api/pkg/config"
	"fitcoach-api/pkg/postgres"
	"fitcoach-api/pkg/schema"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	config.GlobalConfig.Init()

	ctx := context.Background()

	db, err := postgres.New(ctx)
	if err != nil {
		log.Fatalf("can't connect to postgres: %s", err.Error())
	}
	postgres.MigrateDB(db, config.GlobalConfig.DB.Name)

	// Resolve the schema mapping up front so a mis-detected database stops
	// the process instead of serving requests against a wrong guess.
	resolver := schema.NewResolver(db, config.GlobalConfig.Schema.Name, schema.OverridesFromEnv())
	mapping, err := resolver.Resolve(ctx)
	if err != nil {
		log.Fatalf("schema detection failed: %s", err.Error())
	}
	logrus.WithField("mapping", mapping).Info("DB mapping resolved")

	repos := repository.NewRepositories(db, mapping)
	services := service.NewServices(repos, mapping, config.GlobalConfig.Telegram.BotToken)
	handlers := handler.NewHandlers(services, mapping, config.GlobalConfig.ServerConfig.CORSOrigin)

	gin.SetMode(config.GlobalConfig.ServerConfig.GinMode)
	srv := new(fitcoach.Server)
	go func() {
		if err := srv.Run(config.GlobalConfig.ServerConfig.Port, handlers.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error occurred while running http server, %s", err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Print("fitcoach-api shutting down")

	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("error occured on server shutting down: %s", err.Error())
	}

	if err := db.Close(); err != nil {
		log.Fatalf("error occured on db connection close: %s", err.Error())
	}
}
