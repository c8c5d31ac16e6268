package apiserver

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/dadas-io/dadas/pkg/model"
	"github.com/dadas-io/dadas/pkg/vps"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const dashboardTitle = "(DADAS) Dashboard Pendataan VPS"

//go:embed templates/*.html
var templateFS embed.FS

var views = template.Must(template.New("").Funcs(template.FuncMap{
	"join": vps.JoinApplications,
}).ParseFS(templateFS, "templates/*.html"))

// Redirects after a successful write carry a notice code rather than the
// message itself.
var notices = map[string]string{
	"created": vps.MsgCreated,
	"updated": vps.MsgUpdated,
	"deleted": vps.MsgDeleted,
}

type page struct {
	Title  string
	Notice *vps.Notice
	View   vps.View
	Form   *vps.Form
	Action string
	Record model.VPS
}

func render(w http.ResponseWriter, status int, name string, data page) {
	var buf bytes.Buffer
	if err := views.ExecuteTemplate(&buf, name, data); err != nil {
		logrus.WithError(err).WithField("template", name).Error("failed to render view")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func redirectWithNotice(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/?notice="+url.QueryEscape(code), http.StatusSeeOther)
}

func formValues(r *http.Request) vps.FormValues {
	return vps.FormValues{
		Name:         r.PostFormValue("name"),
		CPU:          r.PostFormValue("cpu"),
		RAM:          r.PostFormValue("ram"),
		Storage:      r.PostFormValue("storage"),
		Applications: r.PostFormValue("applications"),
		Unit:         r.PostFormValue("unit"),
		Status:       r.PostFormValue("status"),
	}
}

// formStatus is the response status for a form that was not saved.
func formStatus(f *vps.Form) int {
	if len(f.Errors) > 0 {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	d, err := h.load(r)
	applyQuery(d, r)

	p := page{
		Title:  dashboardTitle,
		View:   d.View(),
		Notice: d.Notice,
	}

	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	} else if msg, ok := notices[r.URL.Query().Get("notice")]; ok {
		p.Notice = &vps.Notice{Kind: vps.NoticeSuccess, Title: "Berhasil", Message: msg}
	}

	render(w, status, "dashboard", p)
}

func (h *handler) newForm(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, "form", page{
		Title:  "Tambah VPS Baru",
		Form:   vps.NewCreateForm(),
		Action: "/vps",
	})
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, msgBadRequest, http.StatusBadRequest)
		return
	}

	f := vps.NewCreateForm()
	f.Values = formValues(r)
	if f.Submit(r.Context(), h.client) {
		redirectWithNotice(w, r, "created")
		return
	}

	render(w, formStatus(f), "form", page{
		Title:  "Tambah VPS Baru",
		Notice: f.Notice,
		Form:   f,
		Action: "/vps",
	})
}

// find loads the record named by the id route variable, writing the error
// response itself when it cannot.
func (h *handler) find(w http.ResponseWriter, r *http.Request) (model.VPS, bool) {
	d, err := h.load(r)
	if err != nil {
		http.Error(w, vps.MsgLoadFailed, http.StatusBadGateway)
		return model.VPS{}, false
	}

	rec, ok := d.Find(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, msgNotFound, http.StatusNotFound)
		return model.VPS{}, false
	}
	return rec, true
}

func (h *handler) editForm(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.find(w, r)
	if !ok {
		return
	}

	render(w, http.StatusOK, "form", page{
		Title:  "Edit VPS",
		Form:   vps.NewEditForm(rec),
		Action: "/vps/" + rec.ID,
		Record: rec,
	})
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, msgBadRequest, http.StatusBadRequest)
		return
	}

	rec, ok := h.find(w, r)
	if !ok {
		return
	}

	f := vps.NewEditForm(rec)
	f.Values = formValues(r)
	if f.Submit(r.Context(), h.client) {
		redirectWithNotice(w, r, "updated")
		return
	}

	render(w, formStatus(f), "form", page{
		Title:  "Edit VPS",
		Notice: f.Notice,
		Form:   f,
		Action: "/vps/" + rec.ID,
		Record: rec,
	})
}

func (h *handler) confirmDelete(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.find(w, r)
	if !ok {
		return
	}

	f := vps.NewEditForm(rec)
	f.RequestDelete()
	render(w, http.StatusOK, "delete", page{
		Title:  "Hapus VPS",
		Form:   f,
		Record: rec,
	})
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.find(w, r)
	if !ok {
		return
	}

	f := vps.NewEditForm(rec)
	f.RequestDelete()
	if f.ConfirmDelete(r.Context(), h.client) {
		redirectWithNotice(w, r, "deleted")
		return
	}

	render(w, http.StatusBadGateway, "delete", page{
		Title:  "Hapus VPS",
		Notice: f.Notice,
		Form:   f,
		Record: rec,
	})
}

func (h *handler) reportPDF(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, func(status int, msg string) {
		http.Error(w, msg, status)
	})
}
