// Package settlement — rewards.go содержит формулы награды за раунд.
package settlement

import "github.com/shopspring/decimal"

// CalculateBonus вычисляет бонус за серию.
// Учитывается только модуль разницы серий, поэтому бонус всегда >= 0
// при неотрицательной ставке за единицу.
//
// Примеры (perUnit = 1):
//
//	CalculateBonus(3, 0, 1) → 3
//	CalculateBonus(0, 2, 1) → 2
//	CalculateBonus(0, 0, 1) → 0
func CalculateBonus(winStreak, loseStreak int, perUnit int64) int64 {
	diff := int64(winStreak - loseStreak)
	if diff < 0 {
		diff = -diff
	}
	return diff * perUnit
}

// CalculateInterest вычисляет процент с суммы.
// Округление — половина от нуля (decimal.Round), для неотрицательных сумм
// это обычное округление половины вверх: 2.75 → 3, 2.5 → 3, 2.25 → 2.
func CalculateInterest(total int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(total).Mul(rate).Round(0).IntPart()
}

// isLoss сравнивает lost/maxHealth с порогом без деления:
// lost >= threshold * maxHealth. Граница включается в поражение.
func isLoss(lost, maxHealth int, threshold decimal.Decimal) bool {
	limit := threshold.Mul(decimal.NewFromInt(int64(maxHealth)))
	return decimal.NewFromInt(int64(lost)).GreaterThanOrEqual(limit)
}
