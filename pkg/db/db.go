package db

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"liyu1981.xyz/greenhouse-service/pkg/common"
	"liyu1981.xyz/greenhouse-service/pkg/models"
)

type DB struct {
	Conn *gorm.DB
}

// Open connects with the given dialector and migrates the schema. Each call
// returns an independent pool; the caller owns it and must Close it.
func Open(dialector gorm.Dialector) (*DB, error) {
	logger := common.GetLogger()

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

	instance := &DB{Conn: conn}

	if d, ok := dialector.(*sqlite.Dialector); ok {
		if err := instance.prepareSqlite(d.DSN); err != nil {
			_ = instance.Close()
			return nil, err
		}
	}

	err = instance.Conn.AutoMigrate(
		&models.Greenhouse{},
		&models.PlantTemplate{},
		&models.Setpoint{},
		&models.TelemetryReading{},
	)
	if err != nil {
		_ = instance.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migration completed")

	return instance, nil
}

func (d *DB) prepareSqlite(dsn string) error {
	if strings.Contains(dsn, "mode=memory") {
		// a shared-cache memory database lives as long as one connection does,
		// and every extra connection would contend on table locks
		sqlDB, err := d.Conn.DB()
		if err != nil {
			return err
		}
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	} else if err := d.Conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
		return fmt.Errorf("failed to set sqlite journal mode: %w", err)
	}

	if err := d.Conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return fmt.Errorf("failed to enable sqlite foreign key support: %w", err)
	}
	return nil
}

func (d *DB) Close() error {
	sqlDB, err := d.Conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func withForeignKeys(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=1"
}

func UseSqliteDialector(dbPath string) gorm.Dialector {
	if dbPath == "" {
		dbPath = "greenhouse.db"
	}
	return sqlite.Open(withForeignKeys(dbPath))
}

// UseMemorySqliteDialector names every database uniquely so concurrent tests
// never see each other's rows.
func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open(withForeignKeys(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())))
}

func UsePostgresDialector(dsn string) gorm.Dialector {
	return postgres.Open(dsn)
}

func DialectorFromConfig(cfg common.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case common.DBTypeFile:
		return UseSqliteDialector(cfg.DBPath), nil
	case common.DBTypeMemory:
		return UseMemorySqliteDialector(), nil
	case common.DBTypePostgres:
		return UsePostgresDialector(cfg.DatabaseURL), nil
	default:
		return nil, fmt.Errorf("unknown %s: %s", common.EnvKeyDBType, cfg.DBType)
	}
}
