// Package settlement управляет расчётом итогов раунда.
// models.go описывает конфигурацию калькулятора и результат расчёта.
package settlement

// DefaultLossThreshold — доля потерянного HP замка, начиная с которой
// раунд считается проигранным. Ровно 10% — уже поражение.
const DefaultLossThreshold = 0.10

// Config — параметры калькулятора, фиксируются при создании.
type Config struct {
	InterestRate       float64 // Процент на (золото + бонус), например 0.25
	MaxHealth          int     // Максимальное HP замка, должно быть > 0
	PerStreakUnitBonus int64   // Награда за единицу разницы серий, например 1
	LossThreshold      float64 // Порог поражения; 0 — DefaultLossThreshold
}

// Outcome — исход раунда по потере HP. Не хранится, считается на лету.
type Outcome struct {
	Lost      int     // Сколько HP потеряно за раунд (отрицательно при лечении)
	LossRatio float64 // Lost / MaxHealth
	Won       bool    // Победа, если LossRatio < порога
}

// Settlement — итог расчёта раунда.
// Золото игрока калькулятор не меняет: начисление GoldAwarded — забота вызывающего.
type Settlement struct {
	Outcome
	Bonus       int64 // |win - lose| * PerStreakUnitBonus
	Total       int64 // Золото игрока + бонус
	Interest    int64 // round(Total * InterestRate)
	GoldAwarded int64 // Interest + Bonus
	WinStreak   int   // Серия побед после расчёта
	LoseStreak  int   // Серия поражений после расчёта
}
