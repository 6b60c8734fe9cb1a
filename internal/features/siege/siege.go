// Package siege разыгрывает бой: каждый тик осада наносит замку
// случайный урон, после чего ремонтная бригада латает стены.
package siege

import (
	"fmt"
	"math/rand"
)

// Target — то, что можно осаждать (замок).
type Target interface {
	TakeDamage(amount int) int
	Repair(amount int) int
	Health() int
}

// Config — параметры осады.
type Config struct {
	MinDamage     int // Минимальный урон за тик
	MaxDamage     int // Максимальный урон за тик (включительно)
	RepairPerTick int // Ремонт за тик
}

// Hit — результат одного тика боя.
type Hit struct {
	Damage   int // Нанесённый урон
	Repaired int // Восстановленное HP
	Health   int // HP после тика
}

// Siege генерирует урон по замку.
// Не потокобезопасен: генератор случайных чисел общий.
type Siege struct {
	cfg Config
	rng *rand.Rand
}

// New создаёт осаду. rng можно передать с фиксированным seed для тестов.
func New(cfg Config, rng *rand.Rand) (*Siege, error) {
	if cfg.MinDamage < 0 || cfg.MaxDamage < cfg.MinDamage {
		return nil, fmt.Errorf("некорректный диапазон урона: %d..%d", cfg.MinDamage, cfg.MaxDamage)
	}
	if cfg.RepairPerTick < 0 {
		return nil, fmt.Errorf("ремонт не может быть отрицательным: %d", cfg.RepairPerTick)
	}
	return &Siege{cfg: cfg, rng: rng}, nil
}

// Strike проводит один тик боя по цели.
func (s *Siege) Strike(target Target) Hit {
	damage := s.cfg.MinDamage
	if spread := s.cfg.MaxDamage - s.cfg.MinDamage; spread > 0 {
		damage += s.rng.Intn(spread + 1)
	}

	hit := Hit{Damage: target.TakeDamage(damage)}
	hit.Repaired = target.Repair(s.cfg.RepairPerTick)
	hit.Health = target.Health()
	return hit
}
