// Package castle описывает защищаемое строение — замок.
// Замок хранит текущее и максимальное HP, получает урон от осады
// и может ремонтироваться. Методы безопасны для вызова из разных горутин:
// бой и смена волн идут из разных cron-задач.
package castle

import (
	"fmt"
	"sync"

	"serotonyl.ru/castle-economy/internal/common"
)

// Castle — защищаемый замок.
type Castle struct {
	mu        sync.Mutex
	health    int // Текущее HP, 0..maxHealth
	maxHealth int // Максимальное HP, задаётся при создании
}

// New создаёт замок с полным HP.
func New(maxHealth int) (*Castle, error) {
	if maxHealth <= 0 {
		return nil, fmt.Errorf("%w: %d", common.ErrInvalidHealth, maxHealth)
	}
	return &Castle{health: maxHealth, maxHealth: maxHealth}, nil
}

// Health возвращает текущее HP.
func (c *Castle) Health() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.health
}

// MaxHealth возвращает максимальное HP.
func (c *Castle) MaxHealth() int {
	return c.maxHealth
}

// TakeDamage наносит урон. HP не опускается ниже нуля.
// Возвращает фактически нанесённый урон.
func (c *Castle) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if amount > c.health {
		amount = c.health
	}
	c.health -= amount
	return amount
}

// Repair восстанавливает HP, но не выше максимума.
// Возвращает фактически восстановленное HP.
func (c *Castle) Repair(amount int) int {
	if amount <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if missing := c.maxHealth - c.health; amount > missing {
		amount = missing
	}
	c.health += amount
	return amount
}

// Destroyed — true, если HP замка упало до нуля.
func (c *Castle) Destroyed() bool {
	return c.Health() == 0
}
