package vps

import (
	"context"

	"github.com/dadas-io/dadas/pkg/model"
	"github.com/dadas-io/dadas/pkg/report"
	"github.com/dadas-io/dadas/pkg/store"
	"github.com/sirupsen/logrus"
)

// Dashboard owns the loaded record set together with the search term and the
// current page. It is not safe for concurrent use; every request or command
// builds its own.
type Dashboard struct {
	client   store.Client
	pageSize int

	records []model.VPS
	term    string
	page    int

	// Notice is set when loading the record set failed.
	Notice *Notice
}

func NewDashboard(c store.Client, pageSize int) *Dashboard {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Dashboard{
		client:   c,
		pageSize: pageSize,
		records:  []model.VPS{},
		page:     1,
	}
}

// Reload fetches the full record set. On failure the previous set is kept and
// a generic notice is set.
func (d *Dashboard) Reload(ctx context.Context) error {
	records, err := d.client.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to load vps records")
		d.Notice = failure(MsgLoadFailed)
		return err
	}

	d.records = records
	d.Notice = nil
	return nil
}

// Records is the full, unfiltered record set.
func (d *Dashboard) Records() []model.VPS {
	return d.records
}

func (d *Dashboard) Find(id string) (model.VPS, bool) {
	for _, r := range d.records {
		if r.ID == id {
			return r, true
		}
	}
	return model.VPS{}, false
}

// Search changes the search term. A new term starts again from the first page.
func (d *Dashboard) Search(term string) {
	if term == d.term {
		return
	}
	d.term = term
	d.page = 1
}

func (d *Dashboard) Term() string {
	return d.term
}

func (d *Dashboard) Page() int {
	return d.page
}

func (d *Dashboard) PageSize() int {
	return d.pageSize
}

// GoTo moves to page, kept within the pages the current filter produces.
func (d *Dashboard) GoTo(page int) {
	_, totalPages := Paginate(d.filtered(), d.pageSize, 1)
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	d.page = page
}

func (d *Dashboard) Next() {
	d.GoTo(d.page + 1)
}

func (d *Dashboard) Prev() {
	d.GoTo(d.page - 1)
}

func (d *Dashboard) filtered() []model.VPS {
	return Filter(d.records, d.term)
}

// View is what the record list renders.
type View struct {
	Items      []model.VPS
	Term       string
	Page       int
	PageSize   int
	TotalPages int
	TotalItems int
	HasPrev    bool
	HasNext    bool
	Stats      model.Stats
}

// Pages lists the page numbers for the pagination links.
func (v View) Pages() []int {
	pages := make([]int, v.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

func (v View) PrevPage() int { return v.Page - 1 }
func (v View) NextPage() int { return v.Page + 1 }

func (d *Dashboard) View() View {
	filtered := d.filtered()
	items, totalPages := Paginate(filtered, d.pageSize, d.page)

	return View{
		Items:      items,
		Term:       d.term,
		Page:       d.page,
		PageSize:   d.pageSize,
		TotalPages: totalPages,
		TotalItems: len(filtered),
		HasPrev:    d.page > 1,
		HasNext:    d.page < totalPages,
		Stats:      d.Stats(),
	}
}

// Stats summarizes the full record set, regardless of search and page.
func (d *Dashboard) Stats() model.Stats {
	return Summarize(d.records)
}

// Report builds the printable report over the full record set.
func (d *Dashboard) Report() report.Document {
	return report.Build(d.records)
}

// Submit saves f and reloads the record set when the store changed. It
// returns whether the write succeeded; a failed reload afterwards leaves the
// write in place and is reported through Stale.
func (d *Dashboard) Submit(ctx context.Context, f *Form) bool {
	if !f.Submit(ctx, d.client) {
		return false
	}
	d.reloadAfterWrite(ctx, f)
	return true
}

// ConfirmDelete deletes the record behind f and reloads the record set.
func (d *Dashboard) ConfirmDelete(ctx context.Context, f *Form) bool {
	if !f.ConfirmDelete(ctx, d.client) {
		return false
	}
	d.reloadAfterWrite(ctx, f)
	return true
}

func (d *Dashboard) reloadAfterWrite(ctx context.Context, f *Form) {
	if err := d.Reload(ctx); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"mode": f.Mode.String(),
			"id":   f.ID,
		}).Warn("vps saved but the record set could not be reloaded")
	}
}

// Stale reports whether the last load failed, so the record set and its
// stats may not reflect the store.
func (d *Dashboard) Stale() bool {
	return d.Notice != nil
}
