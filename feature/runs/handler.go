package runs

import (
	"errors"

	"catalog-sync/core/ledger"
	"catalog-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultLimit = 20
	maxLimit     = 200
)

// Handler handles HTTP requests for run history.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the run routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/runs")
	group.Get("/", h.HandleList)
	group.Get("/schema", h.HandleSchema)
	group.Get("/:id", h.HandleGet)
}

// HandleList returns the latest runs.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	list, err := h.service.Recent(c.UserContext(), limit)
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(fiber.Map{"runs": list, "count": len(list)})
}

// HandleGet returns one run with its items.
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	run, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(run)
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, err error) error {
	switch {
	case errors.Is(err, ErrLedgerDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ledger.ErrRunNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		l.Error("Run ledger query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// HandleSchema reports drift between the ledger tables and the models.
func (h *Handler) HandleSchema(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Schema()
	if err != nil {
		return h.fail(c, l, err)
	}
	if !report.Matched {
		l.Warn("Run ledger schema drift", zap.Strings("errors", report.Errors))
	}
	return c.JSON(report)
}
