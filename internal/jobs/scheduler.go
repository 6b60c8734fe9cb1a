// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: тики боя и смену волн.
package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/castle-economy/internal/common"
	"serotonyl.ru/castle-economy/internal/features/round"
)

// Game — то, чем управляет планировщик (реестр сессий).
type Game interface {
	Combat(ctx context.Context)
	AdvanceWave(ctx context.Context) []*round.Report
}

// Schedules — cron-выражения задач.
type Schedules struct {
	Wave   string
	Combat string
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron      *cron.Cron
	game      Game
	schedules Schedules
	timezone  string
}

// NewScheduler создаёт планировщик в указанном часовом поясе.
// Паника внутри задачи перехватывается и логируется, планировщик продолжает работу.
func NewScheduler(game Game, schedules Schedules, timezone string) *Scheduler {
	c := cron.New(
		cron.WithLocation(common.LoadLocation(timezone)),
		cron.WithChain(cron.Recover(cronLogger{})),
	)

	return &Scheduler{
		cron:      c,
		game:      game,
		schedules: schedules,
		timezone:  timezone,
	}
}

// Start регистрирует задачи и запускает планировщик.
// Возвращает ошибку, если какое-то расписание не разобрано.
func (s *Scheduler) Start(ctx context.Context) error {
	// Смена волн: итог по каждому игроку, затем новая волна
	if _, err := s.cron.AddFunc(s.schedules.Wave, func() {
		reports := s.game.AdvanceWave(ctx)
		log.WithField("settled", len(reports)).Debug("[CRON] Смена волны")
	}); err != nil {
		return fmt.Errorf("некорректное расписание волн %q: %w", s.schedules.Wave, err)
	}

	// Тик боя
	if _, err := s.cron.AddFunc(s.schedules.Combat, func() {
		s.game.Combat(ctx)
	}); err != nil {
		return fmt.Errorf("некорректное расписание боя %q: %w", s.schedules.Combat, err)
	}

	s.cron.Start()
	log.Infof("Планировщик задач запущен (%s)", s.timezone)
	return nil
}

// Stop останавливает планировщик и ждёт завершения выполняющихся задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

// cronLogger пишет сообщения cron в logrus.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.WithFields(toFields(keysAndValues)).Debug("[CRON] " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.WithError(err).WithFields(toFields(keysAndValues)).Error("[CRON] " + msg)
}

// toFields превращает пары ключ-значение в поля logrus.
// Нечётный хвост пишется под ключом "extra".
func toFields(keysAndValues []interface{}) log.Fields {
	fields := make(log.Fields, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 >= len(keysAndValues) {
			fields["extra"] = keysAndValues[i]
			break
		}
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
