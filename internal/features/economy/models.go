// Package economy управляет золотом игроков.
// models.go описывает структуры для балансов и транзакций.
package economy

import "time"

// Balance представляет кошелёк игрока.
// У каждого игрока ровно одна запись в таблице balances.
type Balance struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`      // ID игрока
	Balance     int64     `db:"balance"`      // Текущее золото
	TotalEarned int64     `db:"total_earned"` // Сколько всего начислено наградами
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Transaction представляет одно начисление золота.
type Transaction struct {
	ID              int64     `db:"id"`
	ToUserID        int64     `db:"to_user_id"`       // Получатель
	Amount          int64     `db:"amount"`           // Сумма (всегда положительная)
	TransactionType string    `db:"transaction_type"` // Тип: 'round_reward', 'starting_gold'
	Description     string    `db:"description"`      // Описание для истории
	CreatedAt       time.Time `db:"created_at"`
}

// Типы транзакций
const (
	TxTypeRoundReward  = "round_reward"  // Награда за волну (процент + бонус серии)
	TxTypeStartingGold = "starting_gold" // Стартовое золото нового игрока
)
