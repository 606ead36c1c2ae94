package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gocomet/rider-tracker/internal/domain/wallet"
)

// WalletStore is the PostgreSQL implementation of wallet.Repository.
// Credits and debits run inside a transaction with a row lock so the
// balance check and the update are one atomic step.
type WalletStore struct {
	db *sql.DB
}

// NewWalletStore creates a WalletStore
func NewWalletStore(db *sql.DB) *WalletStore {
	return &WalletStore{db: db}
}

// GetByRiderID retrieves a wallet, creating a zero-balance one on first access
func (s *WalletStore) GetByRiderID(ctx context.Context, riderID int64) (*wallet.Wallet, error) {
	var w wallet.Wallet
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO wallets (rider_id, balance_cents, updated_at)
		VALUES ($1, 0, NOW())
		ON CONFLICT (rider_id) DO UPDATE SET rider_id = EXCLUDED.rider_id
		RETURNING rider_id, balance_cents, updated_at
	`, riderID).Scan(&w.RiderID, &w.BalanceCents, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Credit adds amountCents to the balance
func (s *WalletStore) Credit(ctx context.Context, riderID int64, amountCents int64) (*wallet.Wallet, error) {
	if amountCents <= 0 {
		return nil, wallet.ErrInvalidAmount
	}
	var w wallet.Wallet
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO wallets (rider_id, balance_cents, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (rider_id)
		DO UPDATE SET
			balance_cents = wallets.balance_cents + EXCLUDED.balance_cents,
			updated_at = NOW()
		RETURNING rider_id, balance_cents, updated_at
	`, riderID, amountCents).Scan(&w.RiderID, &w.BalanceCents, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Debit subtracts amountCents, refusing to drive the balance negative
func (s *WalletStore) Debit(ctx context.Context, riderID int64, amountCents int64) (*wallet.Wallet, error) {
	if amountCents <= 0 {
		return nil, wallet.ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var w wallet.Wallet
	err = tx.QueryRowContext(ctx, `
		SELECT rider_id, balance_cents, updated_at
		FROM wallets
		WHERE rider_id = $1
		FOR UPDATE
	`, riderID).Scan(&w.RiderID, &w.BalanceCents, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, wallet.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if w.BalanceCents < amountCents {
		return nil, wallet.ErrInsufficientBalance
	}

	err = tx.QueryRowContext(ctx, `
		UPDATE wallets
		SET balance_cents = balance_cents - $2, updated_at = NOW()
		WHERE rider_id = $1
		RETURNING rider_id, balance_cents, updated_at
	`, riderID, amountCents).Scan(&w.RiderID, &w.BalanceCents, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &w, nil
}
