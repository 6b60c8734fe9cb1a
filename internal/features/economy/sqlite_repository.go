// Package economy — sqlite_repository.go хранит кошельки в SQLite.
// Используется для локального запуска без PostgreSQL (DB_DRIVER=sqlite) и в тестах.
package economy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"serotonyl.ru/castle-economy/internal/common"
)

// SQLiteRepository — хранилище кошельков в SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository создаёт репозиторий поверх открытой SQLite-базы.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateBalance(ctx context.Context, userID int64, initial int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO balances (user_id, balance, total_earned) VALUES (?, ?, ?)`,
		userID, initial, initial)
	if err != nil {
		return fmt.Errorf("ошибка создания баланса: %w", err)
	}

	created, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if created > 0 && initial > 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (to_user_id, amount, transaction_type, description) VALUES (?, ?, ?, ?)`,
			userID, initial, TxTypeStartingGold, "Starting gold")
		if err != nil {
			return fmt.Errorf("ошибка записи транзакции: %w", err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRepository) GetBalance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := r.db.QueryRowContext(ctx, `SELECT balance FROM balances WHERE user_id = ?`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w (user_id=%d)", common.ErrWalletNotFound, userID)
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка получения баланса: %w", err)
	}
	return balance, nil
}

func (r *SQLiteRepository) AddBalance(ctx context.Context, userID int64, amount int64, txType, description string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE balances
		SET balance = balance + ?, total_earned = total_earned + ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ?`,
		amount, amount, userID)
	if err != nil {
		return fmt.Errorf("ошибка начисления: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("%w (user_id=%d)", common.ErrWalletNotFound, userID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (to_user_id, amount, transaction_type, description) VALUES (?, ?, ?, ?)`,
		userID, amount, txType, description)
	if err != nil {
		return fmt.Errorf("ошибка записи транзакции: %w", err)
	}

	return tx.Commit()
}

func (r *SQLiteRepository) GetTransactions(ctx context.Context, userID int64, limit int) ([]Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, to_user_id, amount, transaction_type, COALESCE(description, ''), created_at
		FROM transactions
		WHERE to_user_id = ?
		ORDER BY id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения транзакций: %w", err)
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.ToUserID, &t.Amount, &t.TransactionType, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
