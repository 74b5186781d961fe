package service

import (
	"sync"

	"github.com/emzola/bookworm/config"
	"github.com/emzola/bookworm/internal/jsonlog"
	"github.com/emzola/bookworm/internal/mailer"
	"github.com/emzola/bookworm/internal/refiner"
	"github.com/emzola/bookworm/repository"
)

type Service interface {
	books
	reviews
	users
	tokens
}

// service defines the app's service layer.
type service struct {
	config  config.Config
	wg      *sync.WaitGroup
	logger  *jsonlog.Logger
	repo    repository.Repository
	refiner *refiner.Refiner
	mailer  mailer.Mailer
}

// New creates a new instance of Service.
func New(cfg config.Config, wg *sync.WaitGroup, logger *jsonlog.Logger, repo repository.Repository, refiner *refiner.Refiner, mailer mailer.Mailer) *service {
	return &service{
		config:  cfg,
		wg:      wg,
		logger:  logger,
		repo:    repo,
		refiner: refiner,
		mailer:  mailer,
	}
}
