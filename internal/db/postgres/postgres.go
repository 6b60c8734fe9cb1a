// Package postgres управляет подключением к PostgreSQL.
// Используется пул соединений pgxpool: кошельки читаются и пишутся
// из cron-задач, которые работают в разных горутинах.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// PoolConfig — параметры пула соединений.
type PoolConfig struct {
	DSN      string
	MaxConns int32
	MinConns int32
}

// NewPool создаёт пул соединений к PostgreSQL и проверяет, что база доступна.
//
// Пример:
//
//	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{DSN: cfg.DatabaseDSN()})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close()
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("база данных недоступна: %w", err)
	}

	log.WithFields(log.Fields{
		"max_conns": poolConfig.MaxConns,
		"min_conns": poolConfig.MinConns,
	}).Info("Подключение к PostgreSQL установлено")
	return pool, nil
}
