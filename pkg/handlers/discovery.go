// pkg/handlers/discovery.go
package handlers

import (
	"strings"
	"time"

	"agents-registry/pkg/interfaces"
	"agents-registry/pkg/models"
	"agents-registry/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// DiscoveryHandler serves the search and trending surfaces
type DiscoveryHandler struct {
	discovery interfaces.DiscoveryServiceInterface
	log       *utils.Logger
}

func NewDiscoveryHandler(discovery interfaces.DiscoveryServiceInterface, log *utils.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{
		discovery: discovery,
		log:       log,
	}
}

// HandleSearch answers GET /search
func (h *DiscoveryHandler) HandleSearch(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	query := models.SearchQuery{
		Text:     c.Query("q"),
		Author:   c.Query("author"),
		Sort:     models.SortKey(c.Query("sort")),
		Order:    models.SortOrder(c.Query("order")),
		Page:     uint32(page),
		PageSize: uint32(pageSize),
	}
	if tags := c.Query("tags"); tags != "" {
		query.Tags = strings.Split(tags, ",")
	}

	h.log.WithFunc().WithFields(logrus.Fields{
		"q":    query.Text,
		"sort": query.Sort,
		"page": query.Page,
	}).Debug("Search request")

	response, err := h.discovery.Search(c.UserContext(), query)
	if err != nil {
		h.log.WithFunc().WithError(err).Error("Search failed")
		return serviceError(c, err)
	}
	return c.JSON(response)
}

// HandleTrending answers GET /trending
func (h *DiscoveryHandler) HandleTrending(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)

	snapshot, err := h.discovery.Trending(c.UserContext(), limit)
	if err != nil {
		h.log.WithFunc().WithError(err).Error("Trending failed")
		return serviceError(c, err)
	}

	return c.JSON(models.TrendingResponse{
		Entries:    snapshot.Entries,
		ComputedAt: snapshot.ComputedAt.UTC().Format(time.RFC3339),
	})
}

// HandleRefreshTrending answers POST /trending/refresh: an explicit,
// non-blocking rebuild trigger for operators
func (h *DiscoveryHandler) HandleRefreshTrending(c *fiber.Ctx) error {
	h.discovery.RefreshTrending()
	return c.JSON(fiber.Map{"message": "refresh triggered"})
}
