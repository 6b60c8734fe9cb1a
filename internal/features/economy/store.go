// Package economy — store.go описывает хранилище кошельков.
// Реализации: Repository (PostgreSQL, pgx) и SQLiteRepository (go-sqlite3).
package economy

import "context"

// Store — операции с балансами и историей транзакций.
// Все начисления должны быть атомарными: баланс и запись в истории
// меняются в одной транзакции БД.
type Store interface {
	// CreateBalance создаёт кошелёк с начальным золотом. Если кошелёк есть — ничего не делает.
	CreateBalance(ctx context.Context, userID int64, initial int64) error
	// GetBalance возвращает золото игрока или common.ErrWalletNotFound.
	GetBalance(ctx context.Context, userID int64) (int64, error)
	// AddBalance начисляет золото и пишет транзакцию.
	AddBalance(ctx context.Context, userID int64, amount int64, txType, description string) error
	// GetTransactions возвращает последние limit транзакций игрока, новые первыми.
	GetTransactions(ctx context.Context, userID int64, limit int) ([]Transaction, error)
}
