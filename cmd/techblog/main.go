// Основной пакет сервиса TechBlog. Читает конфигурацию, подключается к базе (Postgres или SQLite),
// мигрирует модели и запускает HTTP сервер.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/aisa-it/techblog/internal/techblog"
	"github.com/aisa-it/techblog/internal/techblog/config"
	"github.com/aisa-it/techblog/internal/techblog/dao"
	"github.com/aisa-it/techblog/internal/techblog/gormlogger"
)

var version string = "DEV"

// Пример запуска: go run main.go --noMigration --trace
func main() {
	noTranslateFlag := flag.Bool("noTranslate", false, "Turn off BD errors translate")
	paramQueries := flag.Bool("paramQueries", true, "Mask queries params in log")
	noMigration := flag.Bool("noMigration", false, "Turn off DB migration")
	trace := flag.Bool("trace", false, "Verbose logs and sql trace")
	flag.Parse()

	PrintBanner()

	if *trace {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	// Set prod log format
	if version != "DEV" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})))
	}

	cfg, err := config.ReadConfig()
	if err != nil {
		slog.Error("Read config", "err", err)
		os.Exit(1)
	}

	slog.Info("TechBlog start.", "driver", cfg.DatabaseDriver)

	db, err := gorm.Open(dialector(cfg), &gorm.Config{
		TranslateError: !*noTranslateFlag,
		Logger:         gormlogger.NewGormLogger(slog.Default(), time.Second*4, *paramQueries),
	})
	if err != nil {
		slog.Error("Fail init DB connection", "err", err)
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Fail set settings to conn pool", "err", err)
		os.Exit(1)
	}
	if cfg.DatabaseDriver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetMaxIdleConns(25)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(time.Minute * 15)

	if !*noMigration {
		slog.Info("Migrate models")
		if err := dao.Migrate(db); err != nil {
			slog.Error("Migrate models", "err", err)
			os.Exit(1)
		}
	}

	techblog.Server(db, cfg, version)
}

func dialector(cfg *config.Config) gorm.Dialector {
	if cfg.DatabaseDriver == config.DriverSQLite {
		dsn := cfg.DatabaseDSN
		if dsn == "" {
			dsn = "techblog.db"
		}
		return sqlite.Open(dsn)
	}
	return postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: false,
	})
}

func PrintBanner() {
	banner := `
 _____         _     ____  _
|_   _|__  ___| |__ | __ )| | ___   __ _
  | |/ _ \/ __| '_ \|  _ \| |/ _ \ / _  |
  | |  __/ (__| | | | |_) | | (_) | (_| |
  |_|\___|\___|_| |_|____/|_|\___/ \__, | %s
Articles with math, rendered safely |___/
----------------------------------------------------
`
	colorReset := "\033[0m"
	colorYellow := "\033[33m"

	formattedVersion := version
	if version == "DEV" {
		formattedVersion = colorYellow + version + colorReset
	}

	fmt.Printf(banner, formattedVersion)
}
