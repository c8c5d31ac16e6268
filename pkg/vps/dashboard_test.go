package vps

import (
	"context"
	"testing"

	"github.com/dadas-io/dadas/pkg/model"
	"github.com/dadas-io/dadas/pkg/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loaded(t *testing.T, mem *storetest.Memory, pageSize int) *Dashboard {
	t.Helper()
	d := NewDashboard(mem, pageSize)
	require.NoError(t, d.Reload(context.Background()))
	return d
}

func TestDashboard_CreateUpdatesStats(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory(sample()...)
	d := loaded(t, mem, 0)
	before := d.Stats()

	f := NewCreateForm()
	f.Values = validValues()
	require.True(t, d.Submit(ctx, f))

	after := d.Stats()
	assert.Equal(t, before.Total+1, after.Total)
	assert.Equal(t, before.Active+1, after.Active)
	assert.Equal(t, before.TotalApplications+2, after.TotalApplications)

	assert.Equal(t, MsgCreated, f.Notice.Message)
	assert.False(t, f.Open)
	assert.Equal(t, "active", f.Values.Status)
	assert.Empty(t, f.Values.Name)

	created := d.Records()[0]
	assert.Equal(t, "VPS-GOV-04", created.Name)
	assert.Equal(t, []string{"X", "Y"}, created.Applications)
}

func TestDashboard_DeleteInactive(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory(sample()...)
	d := loaded(t, mem, 0)
	before := d.Stats()

	r, ok := d.Find("2")
	require.True(t, ok)
	require.Equal(t, model.StatusInactive, r.Status)

	f := NewEditForm(r)
	assert.False(t, d.ConfirmDelete(ctx, f), "delete needs confirmation")
	assert.Equal(t, 0, mem.Calls)

	require.True(t, f.RequestDelete())
	require.True(t, d.ConfirmDelete(ctx, f))

	after := d.Stats()
	assert.Equal(t, before.Total-1, after.Total)
	assert.Equal(t, before.Active, after.Active)
	assert.Equal(t, MsgDeleted, f.Notice.Message)
	_, ok = d.Find("2")
	assert.False(t, ok)
}

func TestDashboard_EditRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory(sample()...)
	d := loaded(t, mem, 0)

	r, _ := d.Find("1")
	f := NewEditForm(r)
	assert.Equal(t, "SIPD, E-Office", f.Values.Applications)

	f.Values.Applications = "A, B , C"
	require.True(t, d.Submit(ctx, f))
	assert.Equal(t, MsgUpdated, f.Notice.Message)
	assert.False(t, f.Open)
	assert.Equal(t, defaultValues(), f.Values, "fields reset after a successful edit")

	stored, _ := mem.Get("1")
	assert.Equal(t, []string{"A", "B", "C"}, stored.Applications)

	r, _ = d.Find("1")
	assert.Equal(t, "A, B, C", NewEditForm(r).Values.Applications)
}

func TestForm_ValidationSkipsStore(t *testing.T) {
	mem := storetest.NewMemory()
	f := NewCreateForm()
	f.Values.Name = "only a name"

	assert.False(t, f.Submit(context.Background(), mem))
	assert.Equal(t, 0, mem.Calls)
	assert.True(t, f.Open)
	assert.Equal(t, "only a name", f.Values.Name)
	assert.Contains(t, f.Errors, FieldCPU)
	assert.NotContains(t, f.Errors, FieldName)
	assert.Nil(t, f.Notice)
}

func TestForm_StoreFailureKeepsValues(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory()
	mem.FailInsert = true

	f := NewCreateForm()
	f.Values = validValues()
	assert.False(t, f.Submit(ctx, mem))
	assert.Equal(t, validValues(), f.Values)
	assert.True(t, f.Open)
	assert.Equal(t, NoticeError, f.Notice.Kind)
	assert.Equal(t, MsgCreateFailed, f.Notice.Message)

	mem.FailInsert = false
	assert.True(t, f.Submit(ctx, mem))
	assert.Equal(t, 1, mem.Len())
}

func TestForm_UpdateUnknownID(t *testing.T) {
	f := NewEditForm(record("gone", "x", "y", model.StatusActive, "a"))
	assert.False(t, f.Submit(context.Background(), storetest.NewMemory()))
	assert.Equal(t, MsgUpdateFailed, f.Notice.Message)
}

func TestForm_DeleteFailureStaysConfirming(t *testing.T) {
	mem := storetest.NewMemory(sample()...)
	mem.FailDelete = true

	r, _ := mem.Get("1")
	f := NewEditForm(r)
	require.True(t, f.RequestDelete())
	assert.False(t, f.ConfirmDelete(context.Background(), mem))
	assert.True(t, f.ConfirmingDelete)
	assert.Equal(t, MsgDeleteFailed, f.Notice.Message)
	assert.Equal(t, 3, mem.Len())

	f.CancelDelete()
	assert.False(t, f.ConfirmingDelete)
}

func TestForm_CreateCannotDelete(t *testing.T) {
	f := NewCreateForm()
	assert.False(t, f.RequestDelete())
	assert.False(t, f.ConfirmDelete(context.Background(), storetest.NewMemory()))
}

func TestDashboard_ReloadFailureKeepsRecords(t *testing.T) {
	mem := storetest.NewMemory(sample()...)
	d := loaded(t, mem, 0)

	mem.FailList = true
	assert.Error(t, d.Reload(context.Background()))
	assert.Len(t, d.Records(), 3)
	require.NotNil(t, d.Notice)
	assert.Equal(t, MsgLoadFailed, d.Notice.Message)

	mem.FailList = false
	require.NoError(t, d.Reload(context.Background()))
	assert.Nil(t, d.Notice)
}

func TestDashboard_SearchAndPaging(t *testing.T) {
	mem := storetest.NewMemory(numbered(25)...)
	d := loaded(t, mem, 10)

	v := d.View()
	assert.Equal(t, 3, v.TotalPages)
	assert.Equal(t, 25, v.TotalItems)
	assert.Equal(t, []int{1, 2, 3}, v.Pages())
	assert.False(t, v.HasPrev)
	assert.True(t, v.HasNext)

	d.GoTo(3)
	v = d.View()
	assert.Len(t, v.Items, 5)
	assert.False(t, v.HasNext)

	d.Next()
	assert.Equal(t, 3, d.Page())
	d.GoTo(-4)
	assert.Equal(t, 1, d.Page())
	d.Prev()
	assert.Equal(t, 1, d.Page())

	d.GoTo(2)
	d.Search("vps-2")
	assert.Equal(t, 1, d.Page())
	v = d.View()
	assert.Equal(t, 5, v.TotalItems, "vps-20 to vps-24")
	assert.Equal(t, 25, v.Stats.Total, "stats ignore the search term")

	d.Search("nothing matches")
	v = d.View()
	assert.Empty(t, v.Items)
	assert.Equal(t, 0, v.TotalPages)
	assert.Equal(t, 1, d.Page())
}

func TestDashboard_Report(t *testing.T) {
	mem := storetest.NewMemory(sample()...)
	d := loaded(t, mem, 0)
	d.Search("sipd")

	doc := d.Report()
	assert.Equal(t, 3, doc.Total)
	assert.Equal(t, 2, doc.Active)
}

func TestDashboard_ReloadFailureAfterWrite(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory(sample()...)
	mem.FailListAfter = 1
	d := loaded(t, mem, 0)
	assert.False(t, d.Stale())

	f := NewCreateForm()
	f.Values = validValues()
	require.True(t, d.Submit(ctx, f), "the write itself succeeded")
	assert.Equal(t, 4, mem.Len())
	assert.Equal(t, MsgCreated, f.Notice.Message)

	assert.True(t, d.Stale())
	assert.Equal(t, MsgLoadFailed, d.Notice.Message)
	assert.Len(t, d.Records(), 3, "previous record set kept")
}
