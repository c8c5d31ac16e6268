package vps

import (
	"fmt"
	"strings"

	"github.com/dadas-io/dadas/pkg/model"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Field string

const (
	FieldName         Field = "name"
	FieldCPU          Field = "cpu"
	FieldRAM          Field = "ram"
	FieldStorage      Field = "storage"
	FieldApplications Field = "applications"
	FieldUnit         Field = "unit"
	FieldStatus       Field = "status"
)

// FormValues holds the raw form input, exactly as typed.
type FormValues struct {
	Name         string `json:"name"`
	CPU          string `json:"cpu"`
	RAM          string `json:"ram"`
	Storage      string `json:"storage"`
	Applications string `json:"applications"`
	Unit         string `json:"unit"`
	Status       string `json:"status"`
}

// FieldResult is the outcome of validating one field: OK, or the reason shown
// next to the field.
type FieldResult struct {
	OK     bool
	Reason string
}

func valid() FieldResult {
	return FieldResult{OK: true}
}

func invalid(reason string) FieldResult {
	return FieldResult{Reason: reason}
}

// FieldErrors maps each failing field to its reason. Empty means valid.
type FieldErrors map[Field]string

func (e FieldErrors) String() string {
	fields := maps.Keys(e)
	slices.Sort(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return strings.Join(parts, "; ")
}

// Get looks up the reason for a field by name, for use from templates.
func (e FieldErrors) Get(field string) string {
	return e[Field(field)]
}

func required(reason string) func(string) FieldResult {
	return func(v string) FieldResult {
		if strings.TrimSpace(v) == "" {
			return invalid(reason)
		}
		return valid()
	}
}

var (
	ValidateName    = required("Nama VPS harus diisi")
	ValidateCPU     = required("CPU harus diisi")
	ValidateRAM     = required("RAM harus diisi")
	ValidateStorage = required("Storage harus diisi")
	ValidateUnit    = required("Unit/Instansi harus diisi")
)

func ValidateApplications(v string) FieldResult {
	if len(ParseApplications(v)) == 0 {
		return invalid("Aplikasi harus diisi")
	}
	return valid()
}

func ValidateStatus(v string) FieldResult {
	v = strings.TrimSpace(v)
	if v == "" {
		return invalid("Status harus dipilih")
	}
	if err := model.Status(v).IsValid(); err != nil {
		return invalid("Status tidak valid")
	}
	return valid()
}

// Validate runs every field validator and collects the failures.
func Validate(v FormValues) FieldErrors {
	checks := []struct {
		field  Field
		result FieldResult
	}{
		{FieldName, ValidateName(v.Name)},
		{FieldCPU, ValidateCPU(v.CPU)},
		{FieldRAM, ValidateRAM(v.RAM)},
		{FieldStorage, ValidateStorage(v.Storage)},
		{FieldApplications, ValidateApplications(v.Applications)},
		{FieldUnit, ValidateUnit(v.Unit)},
		{FieldStatus, ValidateStatus(v.Status)},
	}

	errs := FieldErrors{}
	for _, c := range checks {
		if !c.result.OK {
			errs[c.field] = c.result.Reason
		}
	}
	return errs
}

// Payload converts validated values into the record written to the store.
func (v FormValues) Payload() model.VPSFields {
	return model.VPSFields{
		Name:         strings.TrimSpace(v.Name),
		CPU:          strings.TrimSpace(v.CPU),
		RAM:          strings.TrimSpace(v.RAM),
		Storage:      strings.TrimSpace(v.Storage),
		Applications: ParseApplications(v.Applications),
		Unit:         strings.TrimSpace(v.Unit),
		Status:       model.Status(strings.TrimSpace(v.Status)),
	}
}

// ValuesFrom renders a record into form values.
func ValuesFrom(f model.VPSFields) FormValues {
	return FormValues{
		Name:         f.Name,
		CPU:          f.CPU,
		RAM:          f.RAM,
		Storage:      f.Storage,
		Applications: JoinApplications(f.Applications),
		Unit:         f.Unit,
		Status:       string(f.Status),
	}
}
