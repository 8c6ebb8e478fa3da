package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bookloop/bookloop-api/internal/core/domain"
	"github.com/bookloop/bookloop-api/internal/core/ports"
)

type stubWalletRepo struct {
	wallets   map[string]*domain.Wallet // keyed by wallet id
	movements map[string][]*domain.Movement
	nextID    int
}

func newStubWalletRepo() *stubWalletRepo {
	return &stubWalletRepo{
		wallets:   make(map[string]*domain.Wallet),
		movements: make(map[string][]*domain.Movement),
	}
}

func (r *stubWalletRepo) Create(_ context.Context, w *domain.Wallet) (*domain.Wallet, error) {
	clone := *w
	r.nextID++
	clone.ID = "wallet_" + strconv.Itoa(r.nextID)
	r.wallets[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubWalletRepo) FindByUserID(_ context.Context, userID string) (*domain.Wallet, error) {
	for _, w := range r.wallets {
		if w.UserID == userID {
			clone := *w
			return &clone, nil
		}
	}
	return nil, domain.ErrWalletNotFound
}

func (r *stubWalletRepo) ListMovements(_ context.Context, walletID string) ([]*domain.Movement, error) {
	ms := r.movements[walletID]
	out := make([]*domain.Movement, 0, len(ms))
	for i := len(ms) - 1; i >= 0; i-- { // newest first
		clone := *ms[i]
		out = append(out, &clone)
	}
	return out, nil
}

// AppendMovement mirrors the transactional repository: balance and ledger
// change together or not at all.
func (r *stubWalletRepo) AppendMovement(_ context.Context, walletID string, m *domain.Movement) (*domain.Wallet, error) {
	w, ok := r.wallets[walletID]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}

	next := w.Balance
	switch m.Type {
	case domain.MovementIncome:
		next = next.Add(m.Amount)
	case domain.MovementExpense:
		next = next.Sub(m.Amount)
	}
	if next.IsNegative() {
		return nil, domain.ErrInsufficientFunds
	}

	clone := *m
	r.nextID++
	clone.ID = "mov_" + strconv.Itoa(r.nextID)
	r.movements[walletID] = append(r.movements[walletID], &clone)
	w.Balance = next

	out := *w
	return &out, nil
}

func newTestWalletService(t *testing.T) (*WalletService, *stubWalletRepo) {
	t.Helper()
	repo := newStubWalletRepo()
	return NewWalletService(repo, zerolog.Nop()), repo
}

func seedWallet(t *testing.T, repo *stubWalletRepo, userID, balance string) *domain.Wallet {
	t.Helper()
	w, err := repo.Create(context.Background(), &domain.Wallet{
		UserID:  userID,
		Balance: decimal.RequireFromString(balance),
	})
	if err != nil {
		t.Fatalf("seed wallet: %v", err)
	}
	return w
}

func TestWalletService_RecordMovement_Income(t *testing.T) {
	svc, repo := newTestWalletService(t)
	seedWallet(t, repo, "user_1", "50")

	updated, err := svc.RecordMovement(context.Background(), ports.RecordMovementInput{
		UserID: "user_1",
		Amount: decimal.RequireFromString("20"),
		Type:   domain.MovementIncome,
		Reason: "Exchange settled",
	})
	if err != nil {
		t.Fatalf("RecordMovement failed: %v", err)
	}
	if !updated.Balance.Equal(decimal.RequireFromString("70")) {
		t.Fatalf("expected balance 70, got %s", updated.Balance)
	}

	movements, err := svc.GetMovements(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("GetMovements failed: %v", err)
	}
	if len(movements) != 1 || movements[0].Type != domain.MovementIncome {
		t.Fatalf("unexpected ledger: %+v", movements)
	}
}

func TestWalletService_RecordMovement_ExpenseOverdraft(t *testing.T) {
	svc, repo := newTestWalletService(t)
	seedWallet(t, repo, "user_1", "30")

	_, err := svc.RecordMovement(context.Background(), ports.RecordMovementInput{
		UserID: "user_1",
		Amount: decimal.RequireFromString("30.01"),
		Type:   domain.MovementExpense,
		Reason: "too much",
	})
	if err != domain.ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// neither side of the transaction applied
	w, _ := svc.GetWallet(context.Background(), "user_1")
	if !w.Balance.Equal(decimal.RequireFromString("30")) {
		t.Fatalf("balance changed on failed movement: %s", w.Balance)
	}
	movements, _ := svc.GetMovements(context.Background(), "user_1")
	if len(movements) != 0 {
		t.Fatalf("ledger changed on failed movement: %+v", movements)
	}
}

func TestWalletService_RecordMovement_Validation(t *testing.T) {
	svc, repo := newTestWalletService(t)
	seedWallet(t, repo, "user_1", "50")

	cases := []ports.RecordMovementInput{
		{UserID: "user_1", Amount: decimal.RequireFromString("10"), Type: "TRANSFER"},
		{UserID: "user_1", Amount: decimal.RequireFromString("-5"), Type: domain.MovementIncome},
		{UserID: "user_1", Amount: decimal.Zero, Type: domain.MovementExpense},
	}
	for i, input := range cases {
		if _, err := svc.RecordMovement(context.Background(), input); err != domain.ErrInvalidMovement {
			t.Fatalf("case %d: expected ErrInvalidMovement, got %v", i, err)
		}
	}
}

func TestWalletService_BalanceEqualsLedgerSum(t *testing.T) {
	svc, repo := newTestWalletService(t)
	seedWallet(t, repo, "user_1", "0")

	entries := []struct {
		amount string
		typ    domain.MovementType
	}{
		{"50", domain.MovementIncome},
		{"12.25", domain.MovementExpense},
		{"3.75", domain.MovementIncome},
	}
	for _, e := range entries {
		if _, err := svc.RecordMovement(context.Background(), ports.RecordMovementInput{
			UserID: "user_1",
			Amount: decimal.RequireFromString(e.amount),
			Type:   e.typ,
			Reason: "test",
		}); err != nil {
			t.Fatalf("RecordMovement(%s): %v", e.amount, err)
		}
	}

	w, _ := svc.GetWallet(context.Background(), "user_1")
	movements, _ := svc.GetMovements(context.Background(), "user_1")

	sum := decimal.Zero
	for _, m := range movements {
		if m.Type == domain.MovementIncome {
			sum = sum.Add(m.Amount)
		} else {
			sum = sum.Sub(m.Amount)
		}
	}
	if !w.Balance.Equal(sum) {
		t.Fatalf("balance %s does not equal ledger sum %s", w.Balance, sum)
	}
	if !w.Balance.Equal(decimal.RequireFromString("41.50")) {
		t.Fatalf("expected balance 41.50, got %s", w.Balance)
	}
}

func TestWalletService_GetMovements_NewestFirst(t *testing.T) {
	svc, repo := newTestWalletService(t)
	w := seedWallet(t, repo, "user_1", "100")

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		_, err := repo.AppendMovement(context.Background(), w.ID, &domain.Movement{
			WalletID:  w.ID,
			Amount:    decimal.RequireFromString("1"),
			Type:      domain.MovementIncome,
			Reason:    "r",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	movements, err := svc.GetMovements(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("GetMovements failed: %v", err)
	}
	for i := 1; i < len(movements); i++ {
		if movements[i].CreatedAt.After(movements[i-1].CreatedAt) {
			t.Fatalf("movements not ordered newest first")
		}
	}
}

func TestWalletService_GetWallet_NotFound(t *testing.T) {
	svc, _ := newTestWalletService(t)

	if _, err := svc.GetWallet(context.Background(), "ghost"); err != domain.ErrWalletNotFound {
		t.Fatalf("expected ErrWalletNotFound, got %v", err)
	}
}
