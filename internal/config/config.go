// Package config загружает конфигурацию сервиса из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"serotonyl.ru/castle-economy/internal/common"
	"serotonyl.ru/castle-economy/internal/features/round"
	"serotonyl.ru/castle-economy/internal/features/settlement"
	"serotonyl.ru/castle-economy/internal/features/siege"
)

// Драйверы хранилища кошельков.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- Database ---
	DBDriver string `envconfig:"DB_DRIVER" default:"postgres"`
	// В Docker дефолт "postgres" (имя сервиса в docker-compose), для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"castle"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"castle_economy"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"2"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"castle.db"`

	// --- Players ---
	PlayerIDsRaw string  `envconfig:"PLAYER_IDS" required:"true"`
	PlayerIDs    []int64 `envconfig:"-"` // заполним вручную

	// --- Economy ---
	EconomyStartingGold int64 `envconfig:"ECONOMY_STARTING_GOLD" default:"0"`

	// --- Settlement ---
	SettlementInterestRate  float64 `envconfig:"SETTLEMENT_INTEREST_RATE" default:"0.25"`
	SettlementStreakBonus   int64   `envconfig:"SETTLEMENT_STREAK_BONUS" default:"1"`
	SettlementLossThreshold float64 `envconfig:"SETTLEMENT_LOSS_THRESHOLD" default:"0.10"`

	// --- Castle & siege ---
	CastleMaxHealth    int `envconfig:"CASTLE_MAX_HEALTH" default:"100"`
	SiegeMinDamage     int `envconfig:"SIEGE_MIN_DAMAGE" default:"0"`
	SiegeMaxDamage     int `envconfig:"SIEGE_MAX_DAMAGE" default:"3"`
	SiegeRepairPerTick int `envconfig:"SIEGE_REPAIR_PER_TICK" default:"0"`

	// --- Jobs ---
	WaveSchedule   string `envconfig:"WAVE_SCHEDULE" default:"@every 1m"`
	CombatSchedule string `envconfig:"COMBAT_SCHEDULE" default:"@every 10s"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Settlement собирает настройки калькулятора.
// MaxHealth проставляет драйвер раундов из замка.
func (c *Config) Settlement() settlement.Config {
	return settlement.Config{
		InterestRate:       c.SettlementInterestRate,
		PerStreakUnitBonus: c.SettlementStreakBonus,
		LossThreshold:      c.SettlementLossThreshold,
	}
}

// Session собирает параметры игровой сессии.
func (c *Config) Session(seed int64) round.SessionConfig {
	return round.SessionConfig{
		CastleMaxHealth: c.CastleMaxHealth,
		Settlement:      c.Settlement(),
		Siege: siege.Config{
			MinDamage:     c.SiegeMinDamage,
			MaxDamage:     c.SiegeMaxDamage,
			RepairPerTick: c.SiegeRepairPerTick,
		},
		Seed: seed,
	}
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBPassword == "" {
			return fmt.Errorf("%w: DB_PASSWORD обязателен для postgres", common.ErrConfiguration)
		}
		if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("%w: некорректные DB_MIN_CONNS/DB_MAX_CONNS", common.ErrConfiguration)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: SQLITE_PATH пуст", common.ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: неизвестный DB_DRIVER %q", common.ErrConfiguration, c.DBDriver)
	}

	if len(c.PlayerIDs) == 0 {
		return fmt.Errorf("%w: PLAYER_IDS пуст", common.ErrConfiguration)
	}
	if c.EconomyStartingGold < 0 {
		return fmt.Errorf("%w: ECONOMY_STARTING_GOLD должен быть >= 0", common.ErrConfiguration)
	}
	if c.SettlementInterestRate < 0 {
		return fmt.Errorf("%w: SETTLEMENT_INTEREST_RATE должен быть >= 0", common.ErrConfiguration)
	}
	if c.SettlementStreakBonus < 0 {
		return fmt.Errorf("%w: SETTLEMENT_STREAK_BONUS должен быть >= 0", common.ErrConfiguration)
	}
	if c.SettlementLossThreshold <= 0 || c.SettlementLossThreshold > 1 {
		return fmt.Errorf("%w: SETTLEMENT_LOSS_THRESHOLD должен быть в (0, 1]", common.ErrConfiguration)
	}
	if c.CastleMaxHealth <= 0 {
		return fmt.Errorf("%w: CASTLE_MAX_HEALTH должен быть > 0", common.ErrConfiguration)
	}
	if c.SiegeMinDamage < 0 || c.SiegeMaxDamage < c.SiegeMinDamage {
		return fmt.Errorf("%w: некорректные SIEGE_MIN_DAMAGE/SIEGE_MAX_DAMAGE", common.ErrConfiguration)
	}
	if c.SiegeRepairPerTick < 0 {
		return fmt.Errorf("%w: SIEGE_REPAIR_PER_TICK должен быть >= 0", common.ErrConfiguration)
	}
	if c.WaveSchedule == "" || c.CombatSchedule == "" {
		return fmt.Errorf("%w: пустое расписание задач", common.ErrConfiguration)
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	ids, err := parseInt64CSV(cfg.PlayerIDsRaw)
	if err != nil {
		return nil, fmt.Errorf("PLAYER_IDS parse: %w", err)
	}
	cfg.PlayerIDs = ids

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseInt64CSV(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	seen := make(map[int64]bool, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int64 %q: %w", p, err)
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, nil
}
