package app

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
	"liyu1981.xyz/greenhouse-service/pkg/common"
	"liyu1981.xyz/greenhouse-service/pkg/control"
	"liyu1981.xyz/greenhouse-service/pkg/core"
	"liyu1981.xyz/greenhouse-service/pkg/db"
)

type Options struct {
	// Dialector replaces the database chosen by the config.
	Dialector gorm.Dialector
	// ClientFactory replaces the paho client, mostly for tests.
	ClientFactory control.ClientFactory
}

// App is the explicitly wired process context: one database pool, one broker
// connection and the core services on top of them.
type App struct {
	Config    common.Config
	DB        *db.DB
	Core      *core.Core
	Publisher *control.Publisher
	Ingestor  *control.TelemetryIngestor
	Limiters  *core.RateLimiterStore
}

func New(ctx context.Context, cfg common.Config, opts Options) (*App, error) {
	logger := common.GetLoggerWith(common.LoggerNameApp)

	dialector := opts.Dialector
	if dialector == nil {
		var err error
		if dialector, err = db.DialectorFromConfig(cfg); err != nil {
			return nil, err
		}
	}

	dbInstance, err := db.Open(dialector)
	if err != nil {
		return nil, err
	}

	coreInstance := core.New(dbInstance)

	if cfg.SeedTemplates {
		if _, err := coreInstance.Catalog.SeedTemplates(ctx, core.DefaultPlantTemplates()); err != nil {
			_ = dbInstance.Close()
			return nil, fmt.Errorf("failed to seed plant templates: %w", err)
		}
	}

	publisher := control.NewPublisher(cfg.Mqtt, opts.ClientFactory)
	coreInstance.WithServices(core.ServiceOpts{Publisher: publisher})

	a := &App{
		Config:    cfg,
		DB:        dbInstance,
		Core:      coreInstance,
		Publisher: publisher,
		Ingestor: &control.TelemetryIngestor{
			Telemetry: coreInstance.Telemetry,
			Timeout:   cfg.Mqtt.PublishTimeout,
		},
		Limiters: core.NewRateLimiterStore(rate.Limit(cfg.DefaultRate), cfg.DefaultBurst),
	}

	logger.Info("App created with:",
		zap.String("db_type", cfg.DBType),
		zap.String("broker", cfg.Mqtt.BrokerURL),
		zap.Float64("default_rate", cfg.DefaultRate),
		zap.Int("default_burst", cfg.DefaultBurst),
	)
	return a, nil
}

// Start subscribes the ingestor and starts connecting to the broker. A broker
// that is down does not fail Start; the publisher keeps retrying.
func (a *App) Start() error {
	a.Publisher.Subscribe(a.Config.Mqtt.TelemetryTopic, a.Ingestor.Handler())
	return a.Publisher.Start()
}

// Close stops the control channel first so no publish races the database
// shutdown.
func (a *App) Close() error {
	logger := common.GetLoggerWith(common.LoggerNameApp)

	err := multierr.Combine(
		a.Publisher.Close(),
		a.DB.Close(),
	)
	if err != nil {
		logger.Error("App closed with errors", zap.Error(err))
	} else {
		logger.Info("App closed")
	}
	return err
}
