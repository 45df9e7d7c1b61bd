package handler

import (
	"github.com/roadwatch/roadwatch/internal/config"
	"github.com/roadwatch/roadwatch/internal/database"
	"github.com/roadwatch/roadwatch/internal/logger"
	"github.com/roadwatch/roadwatch/internal/notice"
	"github.com/roadwatch/roadwatch/internal/service"
)

// Version is reported by the health endpoint
const Version = "0.1.0"

// Handler holds all HTTP handlers
type Handler struct {
	db       *database.Postgres
	rdb      *database.Redis
	log      *logger.Logger
	cfg      *config.Config
	alertSvc *service.AlertService
	notices  notice.Publisher
}

// New creates a new Handler instance. db and rdb may be nil when the
// deployment does not use them.
func New(db *database.Postgres, rdb *database.Redis, log *logger.Logger, cfg *config.Config, alertSvc *service.AlertService, notices notice.Publisher) *Handler {
	return &Handler{
		db:       db,
		rdb:      rdb,
		log:      log.WithComponent("handler"),
		cfg:      cfg,
		alertSvc: alertSvc,
		notices:  notices,
	}
}
