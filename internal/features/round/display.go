// Package round — display.go содержит HUD, который пишет серии в лог.
// Рендеринг текста на экран — забота внешнего клиента.
package round

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// LogDisplay отдаёт серии в структурированный лог.
type LogDisplay struct{}

// ShowStreaks реализует StreakDisplay.
func (LogDisplay) ShowStreaks(_ context.Context, playerID int64, win, lose int) {
	log.WithFields(log.Fields{
		"player_id":   playerID,
		"win_streak":  win,
		"lose_streak": lose,
	}).Info("HUD: серии обновлены")
}
