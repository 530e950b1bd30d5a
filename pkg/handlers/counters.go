// pkg/handlers/counters.go
package handlers

import (
	"agents-registry/pkg/interfaces"
	"agents-registry/pkg/models"
	"agents-registry/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// CounterHandler serves the view/download counter endpoints. These are
// separate routes from search/trending on purpose: listing an agent never
// bumps its counters.
type CounterHandler struct {
	counters interfaces.CounterServiceInterface
	log      *utils.Logger
}

func NewCounterHandler(counters interfaces.CounterServiceInterface, log *utils.Logger) *CounterHandler {
	return &CounterHandler{
		counters: counters,
		log:      log,
	}
}

// HandleView answers POST /agents/:id/view
func (h *CounterHandler) HandleView(c *fiber.Ctx) error {
	return h.increment(c, models.CounterView)
}

// HandleDownload answers POST /agents/:id/download
func (h *CounterHandler) HandleDownload(c *fiber.Ctx) error {
	return h.increment(c, models.CounterDownload)
}

func (h *CounterHandler) increment(c *fiber.Ctx, kind models.CounterKind) error {
	id := c.Params("id")
	if err := utils.ValidateUUID(id); err != nil {
		return HTTPError(c, fiber.StatusBadRequest, err.Error())
	}

	count, err := h.counters.Increment(c.UserContext(), id, kind)
	if err != nil {
		// Counter failures are always surfaced; the caller decides on retry
		h.log.WithFunc().WithError(err).WithFields(logrus.Fields{
			"entity": id,
			"kind":   kind,
		}).Error("Counter increment failed")
		return serviceError(c, err)
	}

	return c.JSON(models.CounterResponse{
		ID:    id,
		Kind:  string(kind),
		Count: count,
	})
}
