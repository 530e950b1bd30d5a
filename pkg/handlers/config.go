// pkg/handlers/config.go

package handlers

import (
	config "agents-registry/config"
	utils "agents-registry/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// ConfigHandler exposes the effective runtime configuration
type ConfigHandler struct {
	log    *utils.Logger
	config *config.Config
}

func NewConfigHandler(config *config.Config, logger *utils.Logger) *ConfigHandler {

	return &ConfigHandler{
		config: config,
		log:    logger,
	}
}

func (h *ConfigHandler) GetConfig(c *fiber.Ctx) error {
	return c.JSON(h.config)
}
