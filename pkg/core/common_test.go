package core

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"liyu1981.xyz/greenhouse-service/pkg/core/mocks"
	"liyu1981.xyz/greenhouse-service/pkg/db"
	"liyu1981.xyz/greenhouse-service/pkg/models"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// GetMockCoreWithMemorySqliteDialector returns a core on a fresh seeded memory
// database. The publisher is always the returned mock.
func GetMockCoreWithMemorySqliteDialector(t *testing.T, useMockITelemetry, useMockICatalog bool) (
	*gomock.Controller,
	*Core,
	*mocks.MockITelemetry,
	*mocks.MockICatalog,
	*mocks.MockIPublisher,
) {
	ctrl := gomock.NewController(t)

	mockITelemetry := mocks.NewMockITelemetry(ctrl)
	mockICatalog := mocks.NewMockICatalog(ctrl)
	mockIPublisher := mocks.NewMockIPublisher(ctrl)

	dbInstance, err := db.Open(db.UseMemorySqliteDialector())
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbInstance.Close() })

	coreInstance := New(dbInstance)
	coreInstance.Now = func() time.Time { return testNow }

	_, err = coreInstance.Catalog.SeedTemplates(context.Background(), DefaultPlantTemplates())
	require.NoError(t, err)

	opts := ServiceOpts{Publisher: mockIPublisher}
	if useMockITelemetry {
		opts.Telemetry = mockITelemetry
	}
	if useMockICatalog {
		opts.Catalog = mockICatalog
	}
	coreInstance.WithServices(opts)

	return ctrl, coreInstance, mockITelemetry, mockICatalog, mockIPublisher
}

func provisionTomato(t *testing.T, c *Core, ownerID uuid.UUID, name string) *models.Provisioned {
	t.Helper()
	p, err := c.Provisioning.CreateGreenhouse(context.Background(), ownerID, name, "Tomato")
	require.NoError(t, err)
	return p
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
