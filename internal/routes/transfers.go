package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quayside-wallet/quayside/internal/transfers"
)

// RegisterTransferRoutes wires the pending-transfer endpoints.
func RegisterTransferRoutes(router fiber.Router, h *transfers.Handler) {
	group := router.Group("/transfers")
	group.Get("/", h.Pending)
	group.Post("/", h.Submit)
	group.Delete("/:id", h.Resolve)
}
