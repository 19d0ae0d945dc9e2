package main

import (
	"context"
	"log"

	"github.com/ccenter-uz/1009-organization-service-sub000/controller"
	"github.com/ccenter-uz/1009-organization-service-sub000/dal"
	"github.com/ccenter-uz/1009-organization-service-sub000/middelware"
	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/mq"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"
	"github.com/ccenter-uz/1009-organization-service-sub000/worker"

	"github.com/gin-gonic/gin"
)

var config *models.Config

func Init() {
	var err error
	config, err = utils.GetConfig()
	if err != nil {
		log.Fatal(err)
	}
}

// @title 1009 Organization Service API
// @version 1.0
// @description Directory of organizations and the address hierarchy behind them.
// @description Reference entities (regions, cities, streets and the rest) carry
// @description ru/uz/cy translations; organization changes go through a
// @description moderation queue before they are visible.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Enter 'Bearer' [space] and then your token.
func main() {
	Init()

	ctx := context.Background()
	appLogger := logger.NewLogger(config.LogLevel, config.LogFormat)

	dbclient, err := dal.NewPostgresClient(ctx, config, appLogger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbclient.Close()

	if config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	logging := middelware.NewLoggingMiddleware(appLogger)
	r.Use(logging.Recovery())
	r.Use(logging.StructuredLogger())
	r.Use(middelware.NewCORSMiddleware(config).CORS())

	c := controller.NewController(ctx, config, appLogger, dbclient)

	// Start server (this is blocking)
	go c.RegisterRoutes(ctx, config, r, config.BasePath)

	// Infrastructure worker: schema setup plus cron maintenance
	infraWorker, err := worker.NewService(ctx, config, appLogger, dbclient)
	if err != nil {
		log.Fatalf("Failed to create infrastructure worker: %v", err)
	}
	if err := infraWorker.StartInBackground(); err != nil {
		log.Fatalf("Failed to start infrastructure worker: %v", err)
	}
	defer infraWorker.Stop()

	// AMQP command transport shares the HTTP service container
	dispatcher := mq.NewDispatcher(c.Services(), appLogger)
	consumer := mq.NewConsumer(config, appLogger, dispatcher)
	if err := consumer.Start(ctx); err != nil {
		log.Fatalf("Failed to start AMQP consumer: %v", err)
	}
	defer consumer.Close()

	// Keep main goroutine alive
	select {}
}
