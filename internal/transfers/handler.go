package transfers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/quayside-wallet/quayside/internal/events"
)

// Handler exposes transfer endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a transfer handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type submitRequest struct {
	Recipient string  `json:"recipient"`
	AssetID   string  `json:"asset_id"`
	Amount    float64 `json:"amount"`
}

// Submit records a new pending transfer.
func (h *Handler) Submit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.Submit(c.UserContext(), SubmitInput{
		Recipient: req.Recipient,
		AssetID:   req.AssetID,
		Amount:    req.Amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrMissingRecipient):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(res)
}

// Resolve marks a pending transfer as confirmed.
func (h *Handler) Resolve(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.service.Resolve(c.UserContext(), id); err != nil {
		if errors.Is(err, events.ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "pending transfer not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(http.StatusNoContent)
}

// Pending lists the transfers awaiting confirmation.
func (h *Handler) Pending(c *fiber.Ctx) error {
	pending, err := h.service.Pending(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{"transfers": pending})
}
