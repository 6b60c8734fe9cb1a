// Package economy — service.go содержит бизнес-логику кошельков.
// Сервис — это «игрок» для драйвера раундов: читает золото и начисляет награды.
package economy

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/castle-economy/internal/common"
)

// Service управляет золотом игроков.
type Service struct {
	store        Store // Хранилище (PostgreSQL или SQLite)
	startingGold int64 // Золото нового игрока
}

// NewService создаёт новый сервис экономики.
func NewService(store Store, startingGold int64) *Service {
	return &Service{store: store, startingGold: startingGold}
}

// EnsureWallet создаёт кошелёк игрока, если его ещё нет.
func (s *Service) EnsureWallet(ctx context.Context, userID int64) error {
	if err := s.store.CreateBalance(ctx, userID, s.startingGold); err != nil {
		return fmt.Errorf("ошибка создания кошелька: %w", err)
	}
	return nil
}

// GetGold возвращает текущее золото игрока.
func (s *Service) GetGold(ctx context.Context, userID int64) (int64, error) {
	return s.store.GetBalance(ctx, userID)
}

// GrantGold начисляет игроку награду за волну.
// Ноль — допустимая награда, но в историю не пишется.
func (s *Service) GrantGold(ctx context.Context, userID int64, amount int64, description string) error {
	if amount < 0 {
		return common.ErrInvalidAmount
	}
	if amount == 0 {
		log.WithField("user_id", userID).Debug("Нулевая награда, начисление пропущено")
		return nil
	}

	if err := s.store.AddBalance(ctx, userID, amount, TxTypeRoundReward, description); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка начисления награды")
		return err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"amount":  common.FormatGoldAmount(amount),
	}).Debug("Награда начислена")
	return nil
}

// History возвращает последние транзакции игрока.
func (s *Service) History(ctx context.Context, userID int64, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.store.GetTransactions(ctx, userID, limit)
}
