// pkg/handlers/catalog.go
package handlers

import (
	"agents-registry/pkg/interfaces"
	"agents-registry/pkg/utils"
	"agents-registry/pkg/version"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves catalog lookups and the portal home page
type CatalogHandler struct {
	catalog interfaces.CatalogServiceInterface
	log     *utils.Logger
}

func NewCatalogHandler(catalog interfaces.CatalogServiceInterface, log *utils.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		log:     log,
	}
}

// HandleLatest answers GET /agents/:name/latest
func (h *CatalogHandler) HandleLatest(c *fiber.Ctx) error {
	name := c.Params("name")

	agent, latest, err := h.catalog.ResolveLatest(c.UserContext(), name)
	if err != nil {
		h.log.WithFunc().WithError(err).WithField("agent", name).Debug("Latest lookup failed")
		return serviceError(c, err)
	}

	agent.CurrentVersion = latest
	return c.JSON(agent)
}

// DisplayHome renders the portal status page
func (h *CatalogHandler) DisplayHome(c *fiber.Ctx) error {
	count, err := h.catalog.Stats(c.UserContext())
	if err != nil {
		h.log.WithFunc().WithError(err).Warn("Failed to load catalog stats for home page")
	}

	return c.Render("home", fiber.Map{
		"Title":      "agents registry",
		"AgentCount": count,
		"Version":    version.StringWithCommit(),
	})
}
