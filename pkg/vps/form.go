package vps

import (
	"context"

	"github.com/dadas-io/dadas/pkg/model"
	"github.com/dadas-io/dadas/pkg/store"
	"github.com/sirupsen/logrus"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a user facing message. Store failures only ever produce the
// generic messages below; the cause goes to the log.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Title   string     `json:"title"`
	Message string     `json:"msg"`
}

const (
	MsgCreated      = "Data VPS berhasil ditambahkan"
	MsgUpdated      = "Data VPS berhasil diperbarui"
	MsgDeleted      = "Data VPS berhasil dihapus"
	MsgCreateFailed = "Gagal menambahkan data VPS"
	MsgUpdateFailed = "Gagal memperbarui data VPS"
	MsgDeleteFailed = "Gagal menghapus data VPS"
	MsgLoadFailed   = "Gagal memuat data VPS"
)

func success(msg string) *Notice {
	return &Notice{Kind: NoticeSuccess, Title: "Berhasil", Message: msg}
}

func failure(msg string) *Notice {
	return &Notice{Kind: NoticeError, Title: "Error", Message: msg}
}

// Form is the state of the create/edit dialog for a single record.
type Form struct {
	Mode   Mode
	ID     string
	Values FormValues
	Errors FieldErrors
	Open   bool
	// ConfirmingDelete is set while the delete confirmation step is showing.
	ConfirmingDelete bool
	Notice           *Notice
}

func defaultValues() FormValues {
	return FormValues{Status: string(model.StatusActive)}
}

func NewCreateForm() *Form {
	return &Form{
		Mode:   ModeCreate,
		Values: defaultValues(),
		Errors: FieldErrors{},
		Open:   true,
	}
}

func NewEditForm(r model.VPS) *Form {
	return &Form{
		Mode:   ModeEdit,
		ID:     r.ID,
		Values: ValuesFrom(r.VPSFields),
		Errors: FieldErrors{},
		Open:   true,
	}
}

// Submit validates the form and writes it to the store. It returns true when
// the record set changed and must be reloaded. On any failure the form stays
// open with the entered values.
func (f *Form) Submit(ctx context.Context, c store.Client) bool {
	f.Notice = nil
	f.Errors = Validate(f.Values)
	if len(f.Errors) > 0 {
		logrus.Debugf("vps form (%s) rejected: %s", f.Mode, f.Errors)
		return false
	}

	payload := f.Values.Payload()

	var err error
	if f.Mode == ModeEdit {
		err = c.Update(ctx, f.ID, payload)
	} else {
		err = c.Insert(ctx, payload)
	}

	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"mode": f.Mode.String(),
			"id":   f.ID,
			"name": payload.Name,
		}).Error("failed to save vps")

		if f.Mode == ModeEdit {
			f.Notice = failure(MsgUpdateFailed)
		} else {
			f.Notice = failure(MsgCreateFailed)
		}
		return false
	}

	if f.Mode == ModeEdit {
		f.Notice = success(MsgUpdated)
	} else {
		f.Notice = success(MsgCreated)
	}
	f.Values = defaultValues()
	f.Errors = FieldErrors{}
	f.Open = false
	return true
}

// RequestDelete opens the confirmation step. Only edit forms can delete.
func (f *Form) RequestDelete() bool {
	if f.Mode != ModeEdit {
		return false
	}
	f.ConfirmingDelete = true
	return true
}

func (f *Form) CancelDelete() {
	f.ConfirmingDelete = false
}

// ConfirmDelete deletes the record once the confirmation step is showing. It
// returns true when the record set changed.
func (f *Form) ConfirmDelete(ctx context.Context, c store.Client) bool {
	if f.Mode != ModeEdit || !f.ConfirmingDelete {
		return false
	}

	f.Notice = nil
	if err := c.Delete(ctx, f.ID); err != nil {
		logrus.WithError(err).WithField("id", f.ID).Error("failed to delete vps")
		f.Notice = failure(MsgDeleteFailed)
		return false
	}

	f.Notice = success(MsgDeleted)
	f.ConfirmingDelete = false
	f.Open = false
	return true
}
