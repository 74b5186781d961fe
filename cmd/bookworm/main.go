package main

import (
	"os"
	"sync"
	"time"

	"github.com/emzola/bookworm/clients"
	"github.com/emzola/bookworm/config"
	"github.com/emzola/bookworm/data"
	_ "github.com/emzola/bookworm/docs"
	"github.com/emzola/bookworm/handler"
	"github.com/emzola/bookworm/internal/jsonlog"
	"github.com/emzola/bookworm/internal/mailer"
	"github.com/emzola/bookworm/internal/refiner"
	"github.com/emzola/bookworm/repository"
	"github.com/emzola/bookworm/repository/postgres"
	"github.com/emzola/bookworm/service"
	"github.com/jellydator/ttlcache/v3"
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	repo    repository.Repository
	service service.Service
	handler *handler.Handler
}

// @title  Bookworm API
// @version 1.0.0
// @description This is an API service for a book review platform.
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /
func main() {
	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	// Initialize configuration
	cfg, err := config.Decode()
	if err != nil {
		logger.PrintFatal(err, nil)
	}

	// Initialize database connection
	db, err := postgres.OpenDBConn(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	defer db.Close()
	logger.PrintInfo("database connection pool established", nil)

	// Other shared resources: waitgroup and in-memory cache for
	// authentication token lookups
	var wg sync.WaitGroup
	cache := ttlcache.New(ttlcache.WithTTL[string, *data.User](3 * time.Minute))
	go cache.Start()

	// Application layers
	repo := repository.New(db)
	ref := refiner.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model, clients.NewHTTPClient(), logger)
	mail := mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender)
	service := service.New(cfg, &wg, logger, repo, ref, mail)
	handler := handler.New(cfg, logger, cache, service)

	// Instantiate application
	app := &app{
		config:  cfg,
		repo:    repo,
		service: service,
		handler: handler,
	}

	// Start HTTP server
	err = app.serve(&wg, logger)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}
