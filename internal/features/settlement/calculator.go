// Package settlement — calculator.go содержит калькулятор итогов раунда.
//
// Калькулятор хранит две серии (побед и поражений) и HP замка на старте раунда.
// Жизненный цикл раунда:
//  1. SnapshotRoundStart — в начале волны запоминаем HP замка
//  2. SettleRound — в конце волны определяем исход и считаем награду
//
// Калькулятор не потокобезопасен: вызовы для одного экземпляра
// должны идти последовательно (один раунд за раз).
package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"serotonyl.ru/castle-economy/internal/common"
)

// Calculator считает серии и награду за раунд.
type Calculator struct {
	cfg           Config
	interestRate  decimal.Decimal
	lossThreshold decimal.Decimal

	winStreak      int // Серия побед подряд
	loseStreak     int // Серия поражений подряд
	preRoundHealth int // HP замка на старте раунда
}

// NewCalculator создаёт калькулятор с нулевыми сериями.
// Возвращает common.ErrConfiguration, если MaxHealth <= 0.
func NewCalculator(cfg Config) (*Calculator, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	if cfg.LossThreshold == 0 {
		cfg.LossThreshold = DefaultLossThreshold
	}
	return &Calculator{
		cfg:           cfg,
		interestRate:  decimal.NewFromFloat(cfg.InterestRate),
		lossThreshold: decimal.NewFromFloat(cfg.LossThreshold),
	}, nil
}

func validate(cfg Config) error {
	if cfg.MaxHealth <= 0 {
		return fmt.Errorf("%w: максимальное HP = %d", common.ErrConfiguration, cfg.MaxHealth)
	}
	return nil
}

// SnapshotRoundStart запоминает HP замка на старте раунда.
// Вызывается один раз за раунд, до завершения боя. Повторный вызов
// с тем же значением ничего не меняет.
func (c *Calculator) SnapshotRoundStart(currentHealth int) {
	c.preRoundHealth = currentHealth
}

// EvaluateStreak определяет исход раунда и обновляет серии.
//
//   - потеряно < 10% максимального HP → победа: поражения = 0, победы + 1
//   - потеряно >= 10% → поражение: победы = 0, поражения + 1
//
// Лечение (отрицательная потеря) считается победой.
// При некорректной конфигурации серии не меняются.
func (c *Calculator) EvaluateStreak(currentHealth int) error {
	_, err := c.evaluate(currentHealth)
	return err
}

func (c *Calculator) evaluate(currentHealth int) (Outcome, error) {
	// Проверяем до любых изменений состояния
	if err := validate(c.cfg); err != nil {
		return Outcome{}, err
	}

	lost := c.preRoundHealth - currentHealth
	outcome := Outcome{
		Lost:      lost,
		LossRatio: float64(lost) / float64(c.cfg.MaxHealth),
		Won:       !isLoss(lost, c.cfg.MaxHealth, c.lossThreshold),
	}

	if outcome.Won {
		c.loseStreak = 0
		c.winStreak++
	} else {
		c.winStreak = 0
		c.loseStreak++
	}
	return outcome, nil
}

// SettleRound завершает раунд: обновляет серии и считает награду.
//
// Формула:
//
//	bonus    = |win - lose| * PerStreakUnitBonus
//	total    = playerGold + bonus
//	interest = round(total * InterestRate)
//	award    = interest + bonus
//
// Бонус входит и в базу процента, и в итоговую выплату.
// Золото игрока не меняется — начислить GoldAwarded должен вызывающий.
func (c *Calculator) SettleRound(currentHealth int, playerGold int64) (Settlement, error) {
	outcome, err := c.evaluate(currentHealth)
	if err != nil {
		return Settlement{}, err
	}

	bonus := CalculateBonus(c.winStreak, c.loseStreak, c.cfg.PerStreakUnitBonus)
	total := playerGold + bonus
	interest := CalculateInterest(total, c.interestRate)

	return Settlement{
		Outcome:     outcome,
		Bonus:       bonus,
		Total:       total,
		Interest:    interest,
		GoldAwarded: interest + bonus,
		WinStreak:   c.winStreak,
		LoseStreak:  c.loseStreak,
	}, nil
}

// Streaks возвращает текущие серии побед и поражений (для HUD).
func (c *Calculator) Streaks() (win, lose int) {
	return c.winStreak, c.loseStreak
}

// PreRoundHealth возвращает HP замка, запомненное на старте раунда.
func (c *Calculator) PreRoundHealth() int {
	return c.preRoundHealth
}

// Config возвращает параметры калькулятора.
func (c *Calculator) Config() Config {
	return c.cfg
}
