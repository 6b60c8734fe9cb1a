// Package common — errors.go определяет ошибки, которые используются
// во всех модулях сервиса. Ошибки позволяют вызывающему коду различать
// типы проблем через errors.Is.
package common

import "errors"

// Ошибки расчёта раунда
var (
	// ErrConfiguration — некорректная настройка (например, максимальное HP калькулятора <= 0).
	// Это ошибка сборки, а не временный сбой: повторять вызов бессмысленно.
	ErrConfiguration = errors.New("некорректная конфигурация расчёта раунда")
)

// Ошибки экономики (золото игрока)
var (
	// ErrInvalidAmount — некорректная сумма (отрицательная)
	ErrInvalidAmount = errors.New("сумма не может быть отрицательной")
	// ErrWalletNotFound — у игрока нет кошелька
	ErrWalletNotFound = errors.New("кошелёк игрока не найден")
)

// Ошибки замка и волн
var (
	// ErrInvalidHealth — максимальное HP замка должно быть положительным
	ErrInvalidHealth = errors.New("HP замка должно быть больше нуля")
	// ErrWaveInProgress — волна уже идёт, повторный старт запрещён
	ErrWaveInProgress = errors.New("волна уже идёт")
	// ErrNoActiveWave — попытка завершить волну, которая не начиналась
	ErrNoActiveWave = errors.New("нет активной волны")
	// ErrUnknownPlayer — игрок не зарегистрирован в сессиях
	ErrUnknownPlayer = errors.New("игрок не найден среди сессий")
)
