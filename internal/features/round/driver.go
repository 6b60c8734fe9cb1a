// Package round управляет жизненным циклом волн.
// driver.go — драйвер раундов одного игрока: в начале волны запоминает HP замка,
// в конце считает итог, начисляет золото и показывает серии.
//
// Все зависимости передаются явно (замок, кошелёк, HUD), драйвер
// ничего не ищет сам.
package round

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/castle-economy/internal/common"
	"serotonyl.ru/castle-economy/internal/features/settlement"
)

// HealthSource — источник HP защищаемого строения (замок).
type HealthSource interface {
	Health() int
	MaxHealth() int
}

// Wallet — кошелёк игрока: чтение и начисление золота.
type Wallet interface {
	GetGold(ctx context.Context, userID int64) (int64, error)
	GrantGold(ctx context.Context, userID int64, amount int64, description string) error
}

// StreakDisplay — внешний HUD, которому отдаются текущие серии.
type StreakDisplay interface {
	ShowStreaks(ctx context.Context, playerID int64, win, lose int)
}

// Report — итог одной волны.
type Report struct {
	RoundID         uuid.UUID
	PlayerID        int64
	Wave            int
	HealthBefore    int
	HealthAfter     int
	Settlement      settlement.Settlement
	CastleDestroyed bool
}

// Driver ведёт раунды одного игрока. Владеет калькулятором:
// калькулятор создаётся вместе с драйвером и живёт до конца сессии.
// Не потокобезопасен, вызовы сериализует Sessions.
type Driver struct {
	playerID int64
	castle   HealthSource
	wallet   Wallet
	display  StreakDisplay
	calc     *settlement.Calculator

	wave   int  // Номер текущей (или последней) волны
	active bool // Идёт ли волна
}

// NewDriver создаёт драйвер для сессии игрока.
// Максимальное HP калькулятора берётся из замка при создании.
func NewDriver(playerID int64, castle HealthSource, wallet Wallet, display StreakDisplay, cfg settlement.Config) (*Driver, error) {
	cfg.MaxHealth = castle.MaxHealth()
	calc, err := settlement.NewCalculator(cfg)
	if err != nil {
		return nil, err
	}
	return &Driver{
		playerID: playerID,
		castle:   castle,
		wallet:   wallet,
		display:  display,
		calc:     calc,
	}, nil
}

// StartWave начинает волну: запоминает HP замка.
func (d *Driver) StartWave(ctx context.Context) error {
	if d.active {
		return common.ErrWaveInProgress
	}

	d.calc.SnapshotRoundStart(d.castle.Health())
	d.wave++
	d.active = true

	log.WithFields(log.Fields{
		"player_id": d.playerID,
		"wave":      d.wave,
		"health":    d.calc.PreRoundHealth(),
	}).Debug("Волна началась")
	return nil
}

// EndWave завершает волну: считает итог, начисляет награду, обновляет HUD.
//
// Если не удалось прочитать золото, волна остаётся активной и серии не меняются,
// вызов можно повторить. Если не удалось начислить награду, серии уже обновлены,
// волна закрыта, ошибка возвращается вызывающему.
func (d *Driver) EndWave(ctx context.Context) (*Report, error) {
	if !d.active {
		return nil, common.ErrNoActiveWave
	}

	gold, err := d.wallet.GetGold(ctx, d.playerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения золота: %w", err)
	}

	before := d.calc.PreRoundHealth()
	health := d.castle.Health()
	s, err := d.calc.SettleRound(health, gold)
	if err != nil {
		return nil, err
	}
	d.active = false

	report := &Report{
		RoundID:         uuid.New(),
		PlayerID:        d.playerID,
		Wave:            d.wave,
		HealthBefore:    before,
		HealthAfter:     health,
		Settlement:      s,
		CastleDestroyed: health <= 0,
	}

	if err := d.wallet.GrantGold(ctx, d.playerID, s.GoldAwarded, common.RoundRewardDescription(d.wave)); err != nil {
		return nil, fmt.Errorf("ошибка начисления награды за волну %d: %w", d.wave, err)
	}

	d.display.ShowStreaks(ctx, d.playerID, s.WinStreak, s.LoseStreak)

	log.WithFields(log.Fields{
		"round_id":  report.RoundID,
		"player_id": d.playerID,
		"wave":      d.wave,
		"gold":      common.FormatGold(gold),
		"lost":      s.Lost,
		"won":       s.Won,
		"bonus":     s.Bonus,
		"interest":  s.Interest,
		"award":     common.FormatGoldAmount(s.GoldAwarded),
	}).Info("Волна завершена")

	return report, nil
}

// Active — идёт ли сейчас волна.
func (d *Driver) Active() bool {
	return d.active
}

// Wave возвращает номер текущей или последней волны.
func (d *Driver) Wave() int {
	return d.wave
}

// Streaks возвращает текущие серии побед и поражений.
func (d *Driver) Streaks() (win, lose int) {
	return d.calc.Streaks()
}
