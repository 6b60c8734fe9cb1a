// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: открывает хранилище кошельков, создаёт сервисы,
// сессии игроков и планировщик.
package app

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/castle-economy/internal/config"
	"serotonyl.ru/castle-economy/internal/db/postgres"
	"serotonyl.ru/castle-economy/internal/db/sqlite"
	"serotonyl.ru/castle-economy/internal/features/economy"
	"serotonyl.ru/castle-economy/internal/features/round"
	"serotonyl.ru/castle-economy/internal/jobs"
)

// App содержит все компоненты приложения.
type App struct {
	Economy   *economy.Service
	Sessions  *round.Sessions
	Scheduler *jobs.Scheduler

	closeDB func()
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Хранилище кошельков ===
	store, closeDB, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// === 2. Сервисы ===
	economyService := economy.NewService(store, cfg.EconomyStartingGold)
	for _, id := range cfg.PlayerIDs {
		if err := economyService.EnsureWallet(ctx, id); err != nil {
			closeDB()
			return nil, fmt.Errorf("ошибка создания кошелька %d: %w", id, err)
		}
	}

	// === 3. Сессии игроков ===
	sessions := round.NewSessions(economyService, round.LogDisplay{}, cfg.Session(time.Now().UnixNano()))
	for _, id := range cfg.PlayerIDs {
		if err := sessions.Open(ctx, id); err != nil {
			closeDB()
			return nil, fmt.Errorf("ошибка открытия сессии %d: %w", id, err)
		}
	}

	// === 4. Планировщик задач ===
	scheduler := jobs.NewScheduler(sessions, jobs.Schedules{
		Wave:   cfg.WaveSchedule,
		Combat: cfg.CombatSchedule,
	}, cfg.AppTimezone)

	log.WithFields(log.Fields{
		"driver":  cfg.DBDriver,
		"players": len(cfg.PlayerIDs),
	}).Info("Приложение инициализировано")

	return &App{
		Economy:   economyService,
		Sessions:  sessions,
		Scheduler: scheduler,
		closeDB:   closeDB,
	}, nil
}

// Close закрывает подключение к БД.
func (a *App) Close() {
	if a.closeDB != nil {
		a.closeDB()
	}
}

// openStore подключает хранилище по DB_DRIVER и применяет миграции.
func openStore(ctx context.Context, cfg *config.Config) (economy.Store, func(), error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("ошибка подключения к БД: %w", err)
		}
		if err := sqlite.Migrate(db, sqlite.Migrations()); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ошибка миграций: %w", err)
		}
		return economy.NewSQLiteRepository(db), func() { db.Close() }, nil

	default:
		pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
			DSN:      cfg.DatabaseDSN(),
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("ошибка подключения к БД: %w", err)
		}
		if err := postgres.Migrate(ctx, pool, postgres.Migrations); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ошибка миграций: %w", err)
		}
		return economy.NewRepository(pool), pool.Close, nil
	}
}
