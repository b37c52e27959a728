package assets

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes asset, balance and rate HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an asset HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Info returns asset metadata.
func (h *Handler) Info(c *fiber.Ctx) error {
	info, err := h.service.GetAssetInfo(c.UserContext(), c.Params("assetId"))
	if err != nil {
		return fiber.NewError(http.StatusBadGateway, err.Error())
	}
	return c.Status(http.StatusOK).JSON(info)
}

// Balance returns the asset's spendable balance for the wallet address.
func (h *Handler) Balance(c *fiber.Ctx) error {
	balance, err := h.service.GetBalance(c.UserContext(), c.Params("assetId"))
	if err != nil {
		return fiber.NewError(http.StatusBadGateway, err.Error())
	}
	return c.Status(http.StatusOK).JSON(balance)
}

// Balances lists balances, either for an explicit comma-separated assets
// query or as the full filtered listing.
func (h *Handler) Balances(c *fiber.Ctx) error {
	var assetIDs []string
	if raw := c.Query("assets"); raw != "" {
		assetIDs = strings.Split(raw, ",")
	}

	opts := ListOptions{
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}

	list, err := h.service.GetBalanceList(c.UserContext(), assetIDs, opts)
	if err != nil {
		return fiber.NewError(http.StatusBadGateway, err.Error())
	}
	return c.Status(http.StatusOK).JSON(list)
}

// RateQuote returns the spot rate between two assets.
func (h *Handler) RateQuote(c *fiber.Ctx) error {
	from, to := c.Params("from"), c.Params("to")
	rate, err := h.service.GetRate(c.UserContext(), from, to)
	if err != nil {
		return fiber.NewError(http.StatusBadGateway, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"from": from,
		"to":   to,
		"rate": rate.Value(),
	})
}

// Change returns the daily rate of change between two assets.
func (h *Handler) Change(c *fiber.Ctx) error {
	from, to := c.Params("from"), c.Params("to")
	change, err := h.service.GetChange(c.UserContext(), from, to)
	if err != nil {
		return fiber.NewError(http.StatusBadGateway, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"from":   from,
		"to":     to,
		"change": change,
	})
}

// History returns a historical rate series.
func (h *Handler) History(c *fiber.Ctx) error {
	from, to := c.Params("from"), c.Params("to")
	interval := c.QueryInt("interval", 60)
	count := c.QueryInt("count", 100)
	if interval <= 0 || count <= 0 {
		return fiber.NewError(http.StatusBadRequest, "interval and count must be positive")
	}

	points, err := h.service.GetRateHistory(c.UserContext(), from, to, interval, count)
	if err != nil {
		return fiber.NewError(http.StatusBadGateway, err.Error())
	}
	return c.Status(http.StatusOK).JSON(points)
}

// Orderbook returns the best bid and ask for a pair.
func (h *Handler) Orderbook(c *fiber.Ctx) error {
	quote, err := h.service.GetBidAsk(c.UserContext(), c.Params("amount"), c.Params("price"))
	if err != nil {
		return fiber.NewError(http.StatusBadGateway, err.Error())
	}
	return c.Status(http.StatusOK).JSON(quote)
}

// SendFee returns the flat send fee quote.
func (h *Handler) SendFee(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(h.service.FeeSend())
}
