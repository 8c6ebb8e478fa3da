package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookloop/bookloop-api/internal/api/metrics"
	"github.com/bookloop/bookloop-api/internal/core/domain"
	"github.com/bookloop/bookloop-api/internal/core/ports"
)

// ExchangeHandler handles exchange proposal endpoints.
type ExchangeHandler struct {
	service ports.ExchangeService
}

func NewExchangeHandler(service ports.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{service: service}
}

type createExchangeRequest struct {
	BookID string `json:"bookId" validate:"required"`
}

type exchangeResponse struct {
	ID         string    `json:"id"`
	BookID     string    `json:"bookId"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Create opens a PENDING proposal for a listed book; the receiver is the
// book's current owner.
//
// @Summary      Propose an exchange
// @Tags         exchanges
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createExchangeRequest  true  "Exchange proposal"
// @Success      201   {object}  exchangeResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /exchanges [post]
func (h *ExchangeHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createExchangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	exchange, err := h.service.Propose(c.Request().Context(), ports.ProposeExchangeInput{
		BookID:   req.BookID,
		SenderID: actor.ID,
	})
	if err != nil {
		return err
	}

	metrics.ExchangesCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toExchangeResponse(exchange))
}

// List returns the proposals where the caller is sender or receiver,
// newest first.
//
// @Summary      List my exchanges
// @Tags         exchanges
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   exchangeResponse
// @Failure      401  {object}  map[string]string
// @Router       /exchanges [get]
func (h *ExchangeHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	exchanges, err := h.service.ListMine(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}

	out := make([]exchangeResponse, len(exchanges))
	for i, e := range exchanges {
		out[i] = toExchangeResponse(e)
	}
	return c.JSON(http.StatusOK, out)
}

func toExchangeResponse(e *domain.Exchange) exchangeResponse {
	return exchangeResponse{
		ID:         e.ID,
		BookID:     e.BookID,
		SenderID:   e.SenderID,
		ReceiverID: e.ReceiverID,
		Status:     string(e.Status),
		CreatedAt:  e.CreatedAt.UTC(),
	}
}
