package services

import (
	"testing"
	"time"

	"cleanops/config"
	"cleanops/internal/database"
	"cleanops/internal/events"
	"cleanops/internal/testdb"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testToday = time.Date(2030, 3, 1, 8, 0, 0, 0, time.UTC)

type harness struct {
	db  database.DB
	sql *gorm.DB
	bus *events.EventBus
	svc Service
}

func newHarness(t *testing.T, mutate ...func(*config.CleaningDefaults)) *harness {
	t.Helper()

	db := testdb.New(t)
	bus := events.New(nil)
	t.Cleanup(func() { _ = bus.Close() })

	cfg := config.Config{LockTTLSeconds: 60, Cleaning: config.DefaultCleaning()}
	for _, fn := range mutate {
		fn(&cfg.Cleaning)
	}

	svc, err := New(db, cfg, bus)
	require.NoError(t, err)

	clock := func() time.Time { return testToday }
	svc.Task.now = clock
	svc.Shift.now = clock
	svc.Staff.now = clock
	svc.Reconciliation.now = clock

	return &harness{db: db, sql: db.SQL, bus: bus, svc: svc}
}

func day(offset int) time.Time {
	return time.Date(2030, 3, 1+offset, 0, 0, 0, 0, time.UTC)
}
