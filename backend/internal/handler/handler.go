package handler

import (
	"context"

	"github.com/itchan-dev/attachstore/backend/internal/service"
	"github.com/itchan-dev/attachstore/shared/config"
	"github.com/itchan-dev/attachstore/shared/validation"
)

// HealthChecker is implemented by dependencies the readiness probe checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	message service.MessageService
	cfg     *config.Config
	health  HealthChecker
	limits  *validation.AttachmentValidator
}

func New(message service.MessageService, cfg *config.Config, health HealthChecker) *Handler {
	return &Handler{
		message: message,
		cfg:     cfg,
		health:  health,
		limits:  validation.NewAttachmentValidator(cfg.Public.MaxFileCount, cfg.Public.MaxFileSize),
	}
}
