package apiserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dadas-io/dadas/pkg/health"
	"github.com/dadas-io/dadas/pkg/model"
	"github.com/dadas-io/dadas/pkg/report"
	"github.com/dadas-io/dadas/pkg/store"
	"github.com/dadas-io/dadas/pkg/version"
	"github.com/dadas-io/dadas/pkg/vps"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const (
	msgNotFound        = "Data VPS tidak ditemukan"
	msgInvalid         = "Data VPS tidak valid"
	msgBadRequest      = "Permintaan tidak valid"
	msgConfirmRequired = "Konfirmasi penghapusan diperlukan"
	msgReportFailed    = "Gagal membuat laporan PDF"
)

type handler struct {
	client   store.Client
	pageSize int
	prober   *health.Prober
}

func newHandler(c store.Client, prober *health.Prober, pageSize int) *handler {
	return &handler{
		client:   c,
		pageSize: pageSize,
		prober:   prober,
	}
}

// load builds a dashboard for a single request. The dashboard is returned even
// when loading failed so that callers can still render its notice.
func (h *handler) load(r *http.Request) (*vps.Dashboard, error) {
	d := vps.NewDashboard(h.client, h.pageSize)
	return d, d.Reload(r.Context())
}

// applyQuery sets the search term and page from the q and page parameters.
func applyQuery(d *vps.Dashboard, r *http.Request) {
	q := r.URL.Query()
	d.Search(strings.TrimSpace(q.Get("q")))

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		page = 1
	}
	d.GoTo(page)
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, version.Get(), "")
}

func (h *handler) readyz(w http.ResponseWriter, r *http.Request) {
	if h.prober == nil {
		writeSuccess(w, http.StatusOK, health.Status{Ready: true}, "")
		return
	}

	s := h.prober.Status()
	status := http.StatusOK
	if !s.Ready {
		status = http.StatusServiceUnavailable
	}
	writeSuccess(w, status, s, "")
}

func (h *handler) listVPS(w http.ResponseWriter, r *http.Request) {
	d, err := h.load(r)
	if err != nil {
		writeError(w, http.StatusBadGateway, vps.MsgLoadFailed, nil)
		return
	}
	applyQuery(d, r)

	v := d.View()
	writeSuccess(w, http.StatusOK, model.ListResponse{
		Items:      v.Items,
		Term:       v.Term,
		Page:       v.Page,
		PageSize:   v.PageSize,
		TotalPages: v.TotalPages,
		TotalItems: v.TotalItems,
		Stats:      v.Stats,
	}, "")
}

func (h *handler) getVPS(w http.ResponseWriter, r *http.Request) {
	d, err := h.load(r)
	if err != nil {
		writeError(w, http.StatusBadGateway, vps.MsgLoadFailed, nil)
		return
	}

	rec, ok := d.Find(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound, nil)
		return
	}
	writeSuccess(w, http.StatusOK, rec, "")
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	d, err := h.load(r)
	if err != nil {
		writeError(w, http.StatusBadGateway, vps.MsgLoadFailed, nil)
		return
	}
	writeSuccess(w, http.StatusOK, d.Stats(), "")
}

func decodeForm(r *http.Request) (vps.FormValues, error) {
	var input model.FormRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return vps.FormValues{}, err
	}
	return vps.FormValues(input), nil
}

// writeFormResult maps the outcome of a submitted form: validation failures
// are 422 with the field errors, store failures 502 with the generic notice.
// A successful write carries the refreshed stats, or no data when the record
// set could not be reloaded.
func writeFormResult(w http.ResponseWriter, d *vps.Dashboard, f *vps.Form, ok bool, successStatus int) {
	switch {
	case ok && d.Stale():
		writeSuccess(w, successStatus, nil, f.Notice.Message)
	case ok:
		writeSuccess(w, successStatus, d.Stats(), f.Notice.Message)
	case len(f.Errors) > 0:
		writeError(w, http.StatusUnprocessableEntity, msgInvalid, f.Errors)
	case f.Notice != nil:
		writeError(w, http.StatusBadGateway, f.Notice.Message, nil)
	default:
		writeError(w, http.StatusBadRequest, msgBadRequest, nil)
	}
}

func (h *handler) createVPS(w http.ResponseWriter, r *http.Request) {
	values, err := decodeForm(r)
	if err != nil {
		logrus.WithError(err).Debug("unable to decode vps request")
		writeError(w, http.StatusBadRequest, msgBadRequest, nil)
		return
	}

	f := vps.NewCreateForm()
	if values.Status == "" {
		values.Status = f.Values.Status
	}
	f.Values = values

	// Creating does not depend on the current record set, so it is loaded
	// only afterwards for the stats.
	d := vps.NewDashboard(h.client, h.pageSize)
	ok := d.Submit(r.Context(), f)
	writeFormResult(w, d, f, ok, http.StatusCreated)
}

func (h *handler) updateVPS(w http.ResponseWriter, r *http.Request) {
	values, err := decodeForm(r)
	if err != nil {
		logrus.WithError(err).Debug("unable to decode vps request")
		writeError(w, http.StatusBadRequest, msgBadRequest, nil)
		return
	}

	d, err := h.load(r)
	if err != nil {
		writeError(w, http.StatusBadGateway, vps.MsgLoadFailed, nil)
		return
	}

	rec, found := d.Find(mux.Vars(r)["id"])
	if !found {
		writeError(w, http.StatusNotFound, msgNotFound, nil)
		return
	}

	f := vps.NewEditForm(rec)
	f.Values = values
	ok := d.Submit(r.Context(), f)
	writeFormResult(w, d, f, ok, http.StatusOK)
}

func (h *handler) deleteVPS(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusPreconditionRequired, msgConfirmRequired, nil)
		return
	}

	d, err := h.load(r)
	if err != nil {
		writeError(w, http.StatusBadGateway, vps.MsgLoadFailed, nil)
		return
	}

	rec, found := d.Find(mux.Vars(r)["id"])
	if !found {
		writeError(w, http.StatusNotFound, msgNotFound, nil)
		return
	}

	f := vps.NewEditForm(rec)
	f.RequestDelete()
	ok := d.ConfirmDelete(r.Context(), f)
	writeFormResult(w, d, f, ok, http.StatusOK)
}

func (h *handler) reportJSONErrors(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, func(status int, msg string) {
		writeError(w, status, msg, nil)
	})
}

// serveReport renders the report over the full record set as an attachment.
func (h *handler) serveReport(w http.ResponseWriter, r *http.Request, fail func(status int, msg string)) {
	d, err := h.load(r)
	if err != nil {
		fail(http.StatusBadGateway, vps.MsgLoadFailed)
		return
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, d.Report()); err != nil {
		logrus.WithError(err).Error("failed to render report")
		fail(http.StatusInternalServerError, msgReportFailed)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
