// Package sqlite открывает SQLite-базу и применяет миграции.
// Используется для локального запуска (DB_DRIVER=sqlite) и в тестах репозиториев.
package sqlite

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations возвращает встроенные SQL-миграции схемы.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Open открывает базу по пути (":memory:" — база в памяти).
// SQLite не любит параллельную запись, поэтому держим одно соединение.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия SQLite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("SQLite недоступна: %w", err)
	}

	log.WithField("path", path).Info("Подключение к SQLite установлено")
	return db, nil
}

// Migrate применяет миграции *.sql из migrationsFS по возрастанию версии.
// Версия берётся из префикса имени файла: 001_init.sql → 1.
// Уже применённые версии пропускаются.
func Migrate(db *sql.DB, migrationsFS fs.FS) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);
	`)
	if err != nil {
		return err
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current); err != nil {
		return err
	}

	entries, err := fs.Glob(migrationsFS, "*.sql")
	if err != nil {
		return err
	}
	sort.Strings(entries)

	for _, name := range entries {
		version, err := ParseMigrationVersion(name)
		if err != nil {
			log.WithError(err).WithField("file", name).Warn("Пропускаем некорректный файл миграции")
			continue
		}
		if version <= current {
			continue
		}

		sqlBytes, err := fs.ReadFile(migrationsFS, name)
		if err != nil {
			return fmt.Errorf("чтение миграции %s: %w", name, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("миграция %d: %w", version, err)
		}

		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			tx.Rollback()
			return fmt.Errorf("миграция %d: %w", version, err)
		}
		if _, err := tx.Exec(`INSERT OR REPLACE INTO schema_version(version) VALUES (?)`, version); err != nil {
			tx.Rollback()
			return fmt.Errorf("запись версии %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("миграция %d: %w", version, err)
		}
		log.Infof("Миграция %d применена", version)
	}

	return nil
}

// ParseMigrationVersion извлекает номер версии из имени файла миграции.
func ParseMigrationVersion(filename string) (int, error) {
	base := filename
	if idx := strings.LastIndex(filename, "/"); idx >= 0 {
		base = filename[idx+1:]
	}

	if !strings.HasSuffix(base, ".sql") {
		return 0, fmt.Errorf("миграция %q: неверное расширение", base)
	}

	prefix, _, _ := strings.Cut(strings.TrimSuffix(base, ".sql"), "_")
	version, err := strconv.Atoi(prefix)
	if err != nil || version <= 0 {
		return 0, fmt.Errorf("миграция %q: неверный номер версии", base)
	}
	return version, nil
}
