// Package round — sessions.go хранит игровые сессии: по одной на игрока.
//
// Сессия = замок + осада + драйвер раундов. Сессия создаётся при подключении
// игрока (Open) и уничтожается при отключении (Close) или падении замка —
// тогда она пересоздаётся с нуля, и серии начинаются заново.
package round

import (
	"context"
	"fmt"
	"math/rand"
	"runtime/debug"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/castle-economy/internal/common"
	"serotonyl.ru/castle-economy/internal/features/castle"
	"serotonyl.ru/castle-economy/internal/features/settlement"
	"serotonyl.ru/castle-economy/internal/features/siege"
)

// SessionConfig — параметры новой сессии.
type SessionConfig struct {
	CastleMaxHealth int
	Settlement      settlement.Config
	Siege           siege.Config
	Seed            int64 // Seed генератора урона
}

type session struct {
	castle   *castle.Castle
	siege    *siege.Siege
	driver   *Driver
	campaign int // Сколько раз сессия начиналась заново
}

// Sessions — реестр сессий. Все вызовы для игроков сериализуются одним мьютексом.
type Sessions struct {
	mu       sync.Mutex
	wallet   Wallet
	display  StreakDisplay
	cfg      SessionConfig
	rng      *rand.Rand
	sessions map[int64]*session
}

// NewSessions создаёт пустой реестр сессий.
func NewSessions(wallet Wallet, display StreakDisplay, cfg SessionConfig) *Sessions {
	return &Sessions{
		wallet:   wallet,
		display:  display,
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		sessions: make(map[int64]*session),
	}
}

// Open создаёт сессию игрока и начинает первую волну.
// Если сессия уже есть, ничего не делает.
func (s *Sessions) Open(ctx context.Context, playerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[playerID]; ok {
		return nil
	}

	sess, err := s.newSession(playerID)
	if err != nil {
		return err
	}
	if err := sess.driver.StartWave(ctx); err != nil {
		return err
	}
	s.sessions[playerID] = sess

	log.WithField("player_id", playerID).Info("Сессия открыта")
	return nil
}

func (s *Sessions) newSession(playerID int64) (*session, error) {
	c, err := castle.New(s.cfg.CastleMaxHealth)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания замка: %w", err)
	}
	sg, err := siege.New(s.cfg.Siege, s.rng)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания осады: %w", err)
	}
	d, err := NewDriver(playerID, c, s.wallet, s.display, s.cfg.Settlement)
	if err != nil {
		return nil, err
	}
	return &session{castle: c, siege: sg, driver: d}, nil
}

// Close уничтожает сессию игрока. Незавершённая волна не оплачивается.
func (s *Sessions) Close(playerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[playerID]; ok {
		delete(s.sessions, playerID)
		log.WithField("player_id", playerID).Info("Сессия закрыта")
	}
}

// Combat проводит один тик боя во всех сессиях с активной волной.
func (s *Sessions) Combat(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.playerIDs() {
		sess := s.sessions[id]
		if !sess.driver.Active() || sess.castle.Destroyed() {
			continue
		}
		hit := sess.siege.Strike(sess.castle)
		log.WithFields(log.Fields{
			"player_id": id,
			"damage":    hit.Damage,
			"repaired":  hit.Repaired,
			"health":    hit.Health,
		}).Debug("Удар по замку")
	}
}

// AdvanceWave завершает текущую волну у всех игроков и начинает следующую.
// Если замок пал, сессия пересоздаётся с новым калькулятором.
// Ошибка или паника одного игрока не мешает остальным.
func (s *Sessions) AdvanceWave(ctx context.Context) []*Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reports []*Report
	for _, id := range s.playerIDs() {
		if report := s.advancePlayer(ctx, id); report != nil {
			reports = append(reports, report)
		}
	}
	return reports
}

func (s *Sessions) advancePlayer(ctx context.Context, id int64) (report *Report) {
	defer recoverPlayer(id)

	sess := s.sessions[id]

	if sess.driver.Active() {
		var err error
		report, err = sess.driver.EndWave(ctx)
		if err != nil {
			log.WithError(err).WithField("player_id", id).Error("Ошибка завершения волны")
			// Золото не прочитано, волна осталась активной, попробуем в следующий раз
			if sess.driver.Active() {
				return nil
			}
		}
	}

	if sess.castle.Destroyed() {
		survived := sess.driver.Wave()
		fresh, err := s.newSession(id)
		if err != nil {
			log.WithError(err).WithField("player_id", id).Error("Ошибка перезапуска сессии")
			return report
		}
		fresh.campaign = sess.campaign + 1
		s.sessions[id] = fresh
		sess = fresh

		log.WithFields(log.Fields{
			"player_id": id,
			"survived":  fmt.Sprintf("%d %s", survived, common.PluralizeWaves(survived)),
			"campaign":  fresh.campaign,
		}).Warn("Замок пал, сессия начата заново")
	}

	if err := sess.driver.StartWave(ctx); err != nil {
		log.WithError(err).WithField("player_id", id).Error("Ошибка старта волны")
	}
	return report
}

// recoverPlayer гасит панику в обработке одного игрока.
func recoverPlayer(id int64) {
	if r := recover(); r != nil {
		log.WithFields(log.Fields{
			"component": "panic_recovery",
			"player_id": id,
			"panic":     fmt.Sprintf("%v", r),
			"stack":     string(debug.Stack()),
		}).Error("ПАНИКА при смене волны — восстановлено")
	}
}

// Streaks возвращает серии игрока для внешнего HUD.
func (s *Sessions) Streaks(playerID int64) (win, lose int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[playerID]
	if !ok {
		return 0, 0, fmt.Errorf("%w (player_id=%d)", common.ErrUnknownPlayer, playerID)
	}
	win, lose = sess.driver.Streaks()
	return win, lose, nil
}

// Health возвращает текущее HP замка игрока.
func (s *Sessions) Health(playerID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[playerID]
	if !ok {
		return 0, fmt.Errorf("%w (player_id=%d)", common.ErrUnknownPlayer, playerID)
	}
	return sess.castle.Health(), nil
}

// Players возвращает ID игроков с открытыми сессиями по возрастанию.
func (s *Sessions) Players() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerIDs()
}

// playerIDs вызывается под мьютексом.
func (s *Sessions) playerIDs() []int64 {
	ids := make([]int64, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
