// Package economy — repository.go выполняет операции с таблицами balances
// и transactions в PostgreSQL.
// Все денежные операции выполняются в транзакциях БД для целостности данных.
package economy

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/castle-economy/internal/common"
)

// Repository — хранилище кошельков в PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий экономики.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateBalance создаёт кошелёк нового игрока.
// Стартовое золото (если > 0) записывается отдельной транзакцией.
func (r *Repository) CreateBalance(ctx context.Context, userID int64, initial int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO balances (user_id, balance, total_earned)
		VALUES ($1, $2, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, initial)
	if err != nil {
		return fmt.Errorf("ошибка создания баланса: %w", err)
	}

	// Кошелёк уже был — стартовое золото не начисляем повторно
	if tag.RowsAffected() > 0 && initial > 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO transactions (to_user_id, amount, transaction_type, description)
			VALUES ($1, $2, $3, $4)
		`, userID, initial, TxTypeStartingGold, "Starting gold")
		if err != nil {
			return fmt.Errorf("ошибка записи транзакции: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetBalance возвращает текущее золото игрока.
func (r *Repository) GetBalance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, `SELECT balance FROM balances WHERE user_id = $1`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w (user_id=%d)", common.ErrWalletNotFound, userID)
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка получения баланса: %w", err)
	}
	return balance, nil
}

// AddBalance начисляет золото игроку.
//
// Параметры:
//   - userID: кому начислить
//   - amount: сколько (положительное число)
//   - txType: тип транзакции (round_reward, ...)
//   - description: описание для истории транзакций
func (r *Repository) AddBalance(ctx context.Context, userID int64, amount int64, txType, description string) error {
	// Обновление баланса и запись транзакции — атомарно
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE balances
		SET balance = balance + $2, total_earned = total_earned + $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("ошибка начисления: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w (user_id=%d)", common.ErrWalletNotFound, userID)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (to_user_id, amount, transaction_type, description)
		VALUES ($1, $2, $3, $4)
	`, userID, amount, txType, description)
	if err != nil {
		return fmt.Errorf("ошибка записи транзакции: %w", err)
	}

	return tx.Commit(ctx)
}

// GetTransactions возвращает последние транзакции игрока.
func (r *Repository) GetTransactions(ctx context.Context, userID int64, limit int) ([]Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, to_user_id, amount, transaction_type, COALESCE(description, ''), created_at
		FROM transactions
		WHERE to_user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
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
