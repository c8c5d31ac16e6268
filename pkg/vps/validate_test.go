package vps

import (
	"testing"

	"github.com/dadas-io/dadas/pkg/model"
	"github.com/stretchr/testify/assert"
)

func validValues() FormValues {
	return FormValues{
		Name:         "VPS-GOV-04",
		CPU:          "2 Core",
		RAM:          "4GB",
		Storage:      "50GB",
		Applications: "X, Y",
		Unit:         "Dinas X",
		Status:       "active",
	}
}

func TestValidate_Valid(t *testing.T) {
	assert.Empty(t, Validate(validValues()))
}

func TestValidate_Empty(t *testing.T) {
	errs := Validate(FormValues{})
	assert.Equal(t, FieldErrors{
		FieldName:         "Nama VPS harus diisi",
		FieldCPU:          "CPU harus diisi",
		FieldRAM:          "RAM harus diisi",
		FieldStorage:      "Storage harus diisi",
		FieldApplications: "Aplikasi harus diisi",
		FieldUnit:         "Unit/Instansi harus diisi",
		FieldStatus:       "Status harus dipilih",
	}, errs)
}

func TestValidate_WhitespaceIsEmpty(t *testing.T) {
	v := validValues()
	v.Name = "   "
	v.Applications = " , ,"

	errs := Validate(v)
	assert.Len(t, errs, 2)
	assert.Contains(t, errs, FieldName)
	assert.Contains(t, errs, FieldApplications)
}

func TestValidateStatus(t *testing.T) {
	assert.True(t, ValidateStatus("active").OK)
	assert.True(t, ValidateStatus("inactive").OK)
	assert.Equal(t, "Status tidak valid", ValidateStatus("paused").Reason)
	assert.Equal(t, "Status harus dipilih", ValidateStatus("").Reason)
}

func TestFieldErrorsString(t *testing.T) {
	errs := FieldErrors{FieldUnit: "u", FieldCPU: "c"}
	assert.Equal(t, "cpu: c; unit: u", errs.String())
}

func TestPayload(t *testing.T) {
	v := validValues()
	v.Name = "  VPS-GOV-04 "
	v.Applications = "A, B , C"

	p := v.Payload()
	assert.Equal(t, "VPS-GOV-04", p.Name)
	assert.Equal(t, []string{"A", "B", "C"}, p.Applications)
	assert.Equal(t, model.StatusActive, p.Status)

	assert.Equal(t, "A, B, C", ValuesFrom(p).Applications)
}
