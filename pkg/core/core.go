package core

//go:generate mockgen -source=core.go -destination=mocks/mock_core.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"liyu1981.xyz/greenhouse-service/pkg/common"
	"liyu1981.xyz/greenhouse-service/pkg/db"
	"liyu1981.xyz/greenhouse-service/pkg/models"
)

type ITelemetry interface {
	AppendReading(ctx context.Context, reading *models.TelemetryReading) (bool, error)
	LatestReading(ctx context.Context, greenhouseID uuid.UUID) (*models.TelemetryReading, error)
	RecentReadings(ctx context.Context, greenhouseID uuid.UUID, limit int, columns ...string) ([]models.TelemetryReading, error)
}

type ICatalog interface {
	LookupTemplate(ctx context.Context, conn *gorm.DB, name string) (*models.PlantTemplate, error)
	SeedTemplates(ctx context.Context, templates []models.PlantTemplate) (int64, error)
}

type IProvisioning interface {
	CreateGreenhouse(ctx context.Context, ownerID uuid.UUID, name, plantTemplateName string) (*models.Provisioned, error)
	GetGreenhouse(ctx context.Context, ownerID, greenhouseID uuid.UUID) (*models.Greenhouse, error)
	ListGreenhouses(ctx context.Context, ownerID uuid.UUID) ([]models.Greenhouse, error)
	RenameGreenhouse(ctx context.Context, ownerID, greenhouseID uuid.UUID, name string) (*models.Greenhouse, error)
	DeleteGreenhouse(ctx context.Context, ownerID, greenhouseID uuid.UUID) error
}

type ISetpoint interface {
	GetSetpoint(ctx context.Context, greenhouseID uuid.UUID) (*models.Setpoint, error)
	UpdateSetpoint(ctx context.Context, greenhouseID uuid.UUID, patch models.SetpointPatch) (*models.Setpoint, error)
}

type IStatus interface {
	ProjectStatus(ctx context.Context, greenhouseID uuid.UUID) (*models.GreenhouseStatus, error)
	ListStatuses(ctx context.Context, ownerID uuid.UUID) ([]models.GreenhouseStatus, error)
}

type IHistory interface {
	GetHistory(ctx context.Context, greenhouseID uuid.UUID, parameter string, limit int) ([]models.HistoryPoint, error)
}

// IPublisher hands a committed setpoint to the actuation layer. It must never
// block; false means the message was not accepted.
type IPublisher interface {
	PublishSetpoint(greenhouseID uuid.UUID, setpoint *models.Setpoint) bool
}

type Core struct {
	Db  db.DB
	Now func() time.Time

	Telemetry    ITelemetry
	Catalog      ICatalog
	Provisioning IProvisioning
	Setpoint     ISetpoint
	Status       IStatus
	History      IHistory
	Publisher    IPublisher
}

type ServiceOpts struct {
	Telemetry    ITelemetry
	Catalog      ICatalog
	Provisioning IProvisioning
	Setpoint     ISetpoint
	Status       IStatus
	History      IHistory
	Publisher    IPublisher
}

// New builds a Core with the database backed implementation of every service.
// The publisher is optional and may be attached later with WithServices.
func New(database *db.DB) *Core {
	c := &Core{Db: *database}
	return c.WithServices(ServiceOpts{
		Telemetry:    c.GetITelemetry(),
		Catalog:      c.GetICatalog(),
		Provisioning: c.GetIProvisioning(),
		Setpoint:     c.GetISetpoint(),
		Status:       c.GetIStatus(),
		History:      c.GetIHistory(),
	})
}

func (c *Core) WithServices(opts ServiceOpts) *Core {
	if opts.Telemetry != nil {
		c.Telemetry = opts.Telemetry
	}
	if opts.Catalog != nil {
		c.Catalog = opts.Catalog
	}
	if opts.Provisioning != nil {
		c.Provisioning = opts.Provisioning
	}
	if opts.Setpoint != nil {
		c.Setpoint = opts.Setpoint
	}
	if opts.Status != nil {
		c.Status = opts.Status
	}
	if opts.History != nil {
		c.History = opts.History
	}
	if opts.Publisher != nil {
		c.Publisher = opts.Publisher
	}
	return c
}

func (c *Core) now() time.Time {
	if c.Now != nil {
		return c.Now().UTC()
	}
	return time.Now().UTC()
}

func (c *Core) conn(ctx context.Context) *gorm.DB {
	return c.Db.Conn.WithContext(ctx)
}

// wrapStorage keeps errors already classified, turns a missing record into
// NotFound and everything else into a storage failure.
func wrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var classified *common.Error
	if errors.As(err, &classified) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &common.Error{Kind: common.ErrNotFound, Message: op, Err: err}
	}
	return common.StorageFailure(op, err)
}

var (
	errCatalogUnavailable   = errors.New("plant catalog not available")
	errTelemetryUnavailable = errors.New("telemetry store not available")
)
