// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, форматирование сумм, работа с часовым поясом.
package common

import (
	"fmt"
	"math"
	"time"
)

// PluralizeGold возвращает правильную форму слова «монета» для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → "монета" (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → "монеты" (2, 3, 4, 22, ...)
//   - Остальные случаи → "монет" (0, 5-20, 25-30, 100, ...)
//
// Примеры:
//
//	PluralizeGold(1)  → "монета"
//	PluralizeGold(3)  → "монеты"
//	PluralizeGold(11) → "монет"
func PluralizeGold(n int64) string {
	return pluralize(n, "монета", "монеты", "монет")
}

// PluralizeWaves возвращает правильную форму слова «волна».
func PluralizeWaves(n int) string {
	return pluralize(int64(n), "волна", "волны", "волн")
}

// pluralize выбирает одну из трёх форм слова по правилам русского языка.
func pluralize(n int64, one, few, many string) string {
	// Берём абсолютное значение для отрицательных чисел
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return one
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return few
	}
	return many
}

// FormatGold форматирует сумму золота в читабельную строку.
// Пример: FormatGold(2350) → "2 350 монет"
func FormatGold(amount int64) string {
	return fmt.Sprintf("%s %s", FormatNumber(amount), PluralizeGold(amount))
}

// LoadLocation загружает часовой пояс по имени.
// Если tzdata недоступна, для Europe/Moscow используется UTC+3, для остальных — UTC.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc
	}
	if name == "Europe/Moscow" {
		return time.FixedZone("MSK", 3*60*60)
	}
	return time.UTC
}
