package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/caredesk/caredesk/internal/config"
)

// Service is the interface for a web handler service.
// Init registers the handler's routes on router, which is an API generation group.
type Service interface {
	Init(router fiber.Router, cfg *config.Config, db *gorm.DB) error
}
