package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quayside-wallet/quayside/internal/assets"
)

// RegisterAssetRoutes wires asset metadata, balance and rate endpoints. The
// quote middlewares, if any, apply to the rate and orderbook groups only;
// balances reflect pending local events and must not be served from a
// response cache.
func RegisterAssetRoutes(router fiber.Router, h *assets.Handler, quote ...fiber.Handler) {
	group := router.Group("/assets")
	group.Get("/balances", h.Balances)
	group.Get("/fee/send", h.SendFee)
	group.Get("/:assetId", h.Info)
	group.Get("/:assetId/balance", h.Balance)

	rates := router.Group("/rates", quote...)
	rates.Get("/:from/:to", h.RateQuote)
	rates.Get("/:from/:to/change", h.Change)
	rates.Get("/:from/:to/history", h.History)

	orderbook := router.Group("/orderbook", quote...)
	orderbook.Get("/:amount/:price", h.Orderbook)
}
