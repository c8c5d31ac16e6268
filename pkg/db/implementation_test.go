package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dadas-io/dadas/pkg/model"
	"github.com/dadas-io/dadas/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *database {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "dadas.sqlite")
	d, err := New(context.Background(), "sqlite", dsn, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	impl := d.(*database)

	// deterministic, strictly increasing creation times
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	impl.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return impl
}

func fields(name string, status model.Status, apps ...string) model.VPSFields {
	return model.VPSFields{
		Name:         name,
		CPU:          "2 Core",
		RAM:          "4GB",
		Storage:      "50GB",
		Applications: apps,
		Unit:         "Dinas Kominfo",
		Status:       status,
	}
}

func TestUnsupportedDialect(t *testing.T) {
	_, err := New(context.Background(), "oracle", "", nil)
	assert.EqualError(t, err, "unsupported dialect: oracle")
}

func TestInsertAndListNewestFirst(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, d.Insert(ctx, fields("VPS-GOV-01", model.StatusActive, "E-Office")))
	require.NoError(t, d.Insert(ctx, fields("VPS-GOV-02", model.StatusInactive, "SIPD", "SIMPEG")))
	require.NoError(t, d.Insert(ctx, fields("VPS-GOV-03", model.StatusActive, "X", "Y", "Z")))

	records, err := d.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "VPS-GOV-03", records[0].Name)
	assert.Equal(t, "VPS-GOV-02", records[1].Name)
	assert.Equal(t, "VPS-GOV-01", records[2].Name)

	assert.Equal(t, []string{"SIPD", "SIMPEG"}, records[1].Applications)
	assert.Equal(t, model.StatusInactive, records[1].Status)
	assert.Len(t, records[0].ID, 36)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestListEmpty(t *testing.T) {
	d := newTestDatabase(t)

	records, err := d.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestUpdateReplacesAllFields(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, d.Insert(ctx, fields("VPS-GOV-01", model.StatusActive, "A", "B")))
	records, err := d.List(ctx)
	require.NoError(t, err)
	original := records[0]

	replacement := model.VPSFields{
		Name:         "VPS-GOV-01b",
		CPU:          "8 Core",
		RAM:          "16GB",
		Storage:      "200GB",
		Applications: []string{"C"},
		Unit:         "Bappeda",
		Status:       model.StatusInactive,
	}
	require.NoError(t, d.Update(ctx, original.ID, replacement))

	records, err = d.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, original.ID, records[0].ID)
	assert.Equal(t, replacement, records[0].VPSFields)
	assert.True(t, original.CreatedAt.Equal(records[0].CreatedAt))
}

func TestUpdateUnknownID(t *testing.T) {
	d := newTestDatabase(t)

	err := d.Update(context.Background(), "missing", fields("x", model.StatusActive, "a"))
	require.Error(t, err)

	var se *store.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "update", se.Op)
	assert.Equal(t, "missing", se.ID)
	assert.True(t, store.IsNotFound(err))
}

func TestDelete(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, d.Insert(ctx, fields("VPS-GOV-01", model.StatusActive, "A")))
	require.NoError(t, d.Insert(ctx, fields("VPS-GOV-02", model.StatusInactive, "B")))
	records, err := d.List(ctx)
	require.NoError(t, err)

	require.NoError(t, d.Delete(ctx, records[0].ID))

	remaining, err := d.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, records[1].ID, remaining[0].ID)

	err = d.Delete(ctx, records[0].ID)
	assert.True(t, store.IsNotFound(err))
}

func TestApplicationsDenormalization(t *testing.T) {
	assert.Equal(t, "A,B,C", DenormalizeApplications([]string{"A", "B", "C"}))
	assert.Equal(t, []string{"C", "A"}, NormalizeApplications("C,A"))
	assert.Equal(t, []string{}, NormalizeApplications(""))
}
