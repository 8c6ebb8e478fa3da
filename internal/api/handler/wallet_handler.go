package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/bookloop/bookloop-api/internal/core/domain"
	"github.com/bookloop/bookloop-api/internal/core/ports"
)

// WalletHandler exposes read access to the caller's wallet and ledger.
type WalletHandler struct {
	service ports.WalletService
}

func NewWalletHandler(service ports.WalletService) *WalletHandler {
	return &WalletHandler{service: service}
}

type walletResponse struct {
	ID      string          `json:"id"`
	UserID  string          `json:"userId"`
	Balance decimal.Decimal `json:"balance"`
}

type movementResponse struct {
	ID        string          `json:"id"`
	WalletID  string          `json:"walletId"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	Reason    string          `json:"reason,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Me returns the caller's wallet.
//
// @Summary      Get my wallet
// @Tags         wallets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  walletResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /wallets/me [get]
func (h *WalletHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	wallet, err := h.service.GetWallet(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toWalletResponse(wallet))
}

// Movements returns the caller's ledger, newest first.
//
// @Summary      Get my wallet movements
// @Tags         wallets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   movementResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /wallets/me/movements [get]
func (h *WalletHandler) Movements(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	movements, err := h.service.GetMovements(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}

	out := make([]movementResponse, len(movements))
	for i, m := range movements {
		out[i] = toMovementResponse(m)
	}
	return c.JSON(http.StatusOK, out)
}

func toWalletResponse(w *domain.Wallet) walletResponse {
	return walletResponse{
		ID:      w.ID,
		UserID:  w.UserID,
		Balance: w.Balance,
	}
}

func toMovementResponse(m *domain.Movement) movementResponse {
	return movementResponse{
		ID:        m.ID,
		WalletID:  m.WalletID,
		Amount:    m.Amount,
		Type:      string(m.Type),
		Reason:    m.Reason,
		CreatedAt: m.CreatedAt.UTC(),
	}
}
