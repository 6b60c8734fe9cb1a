// Package common — pluralize.go содержит форматирование начислений
// для логов и истории транзакций.
package common

import "fmt"

// FormatGoldAmount создаёт строку вида "+12 монет" или "-5 монет".
// Знак добавляется автоматически.
//
// Примеры:
//
//	FormatGoldAmount(12) → "+12 монет"
//	FormatGoldAmount(-5) → "-5 монет"
//	FormatGoldAmount(1)  → "+1 монета"
func FormatGoldAmount(amount int64) string {
	if amount >= 0 {
		return "+" + FormatGold(amount)
	}
	return FormatGold(amount)
}

// FormatNumber форматирует число с разделителями тысяч (пробелами).
// Пример: FormatNumber(2350) → "2 350"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s %03d", FormatNumber(n/1000), n%1000)
}

// RoundRewardDescription создаёт описание транзакции для награды за волну.
// Пример: "Round reward - wave 3"
func RoundRewardDescription(wave int) string {
	return fmt.Sprintf("Round reward - wave %d", wave)
}
