package wallet

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound            = errors.New("wallet not found")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

// Wallet holds a rider's balance. Amounts are integer cents; credit and
// debit apply atomically, one transaction per mutation.
type Wallet struct {
	RiderID      int64     `json:"rider_id"`
	BalanceCents int64     `json:"balance_cents"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Repository defines the interface for wallet data access
type Repository interface {
	// GetByRiderID retrieves a wallet, creating a zero-balance one on
	// first access
	GetByRiderID(ctx context.Context, riderID int64) (*Wallet, error)

	// Credit adds amountCents to the balance
	Credit(ctx context.Context, riderID int64, amountCents int64) (*Wallet, error)

	// Debit subtracts amountCents; fails with ErrInsufficientBalance
	// when the balance would go negative
	Debit(ctx context.Context, riderID int64, amountCents int64) (*Wallet, error)
}
