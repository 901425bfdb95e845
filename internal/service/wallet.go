package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// pointsPerUnit is the top-up amount that earns one loyalty point.
const pointsPerUnit = 10

// Wallet is the account ledger view returned to clients.
type Wallet struct {
	Balance        float64 `json:"walletBalance"`
	LoyaltyPoints  int     `json:"loyaltyPoints"`
	MembershipTier string  `json:"membershipTier"`
}

type WalletService struct {
	users    UserStore
	payments PaymentStore
	gateway  PaymentGateway
	now      func() time.Time
	log      zerolog.Logger
}

func NewWalletService(users UserStore, payments PaymentStore, gateway PaymentGateway, log zerolog.Logger) *WalletService {
	return &WalletService{
		users:    users,
		payments: payments,
		gateway:  gateway,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log.With().Str("component", "wallet").Logger(),
	}
}

func (s *WalletService) Balance(ctx context.Context, userID uint64) (Wallet, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return Wallet{}, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return Wallet{}, err
	}
	return Wallet{Balance: u.WalletBalance, LoyaltyPoints: u.LoyaltyPoints, MembershipTier: u.MembershipTier}, nil
}

// AddToWallet tops up the balance by amount and awards floor(amount/10)
// loyalty points. With a token and a configured gateway the card is charged
// first; without one the top-up is recorded as a demo payment.
func (s *WalletService) AddToWallet(ctx context.Context, userID uint64, amount float64, token string) (Wallet, *model.Payment, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Wallet{}, nil, ErrInvalidAmount
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Wallet{}, nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return Wallet{}, nil, err
	}

	now := s.now()
	p := &model.Payment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		Method:    model.PaymentDemo,
		Status:    model.PaymentCompleted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if token != "" && s.gateway != nil {
		txID, err := s.gateway.Charge(ctx, amount, token, "Wallet top-up")
		if err != nil {
			return Wallet{}, nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
		}
		p.Method = model.PaymentGateway
		p.TransactionID = txID
	}

	points := int(math.Floor(amount / pointsPerUnit))
	if err := s.users.AdjustWallet(ctx, userID, amount, points); err != nil {
		if p.Method == model.PaymentGateway {
			return Wallet{}, nil, s.reconcile(p, "credit wallet", err)
		}
		return Wallet{}, nil, fmt.Errorf("credit wallet: %w", err)
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return Wallet{}, nil, s.reconcile(p, "record top-up payment", err)
	}

	w, err := s.Balance(ctx, userID)
	if err != nil {
		return Wallet{}, nil, err
	}
	s.log.Info().Uint64("user_id", userID).Float64("amount", amount).Int("points", points).
		Str("method", string(p.Method)).Msg("wallet topped up")
	return w, p, nil
}

func (s *WalletService) reconcile(p *model.Payment, step string, err error) error {
	s.log.Error().Err(err).
		Str("step", step).
		Uint64("user_id", p.UserID).
		Str("payment_id", p.ID).
		Str("transaction_id", p.TransactionID).
		Float64("amount", p.Amount).
		Msg("wallet top-up needs manual reconciliation")
	return fmt.Errorf("%w: %s: %w", ErrReconciliation, step, err)
}
