package db

import (
	"strings"
	"time"

	"github.com/dadas-io/dadas/pkg/model"
	"github.com/dadas-io/dadas/pkg/store"
)

type VPS struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Name         string    `gorm:"not null"`
	CPU          string    `gorm:"not null"`
	RAM          string    `gorm:"not null"`
	Storage      string    `gorm:"not null"`
	Applications string    `gorm:"type:text"` // Intentionally denormalized because we don't want to create an applications table
	Unit         string    `gorm:"not null"`
	Status       string    `gorm:"size:16;index"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
}

func (VPS) TableName() string {
	return store.Collection
}

func (v VPS) toModel() model.VPS {
	return model.VPS{
		ID: v.ID,
		VPSFields: model.VPSFields{
			Name:         v.Name,
			CPU:          v.CPU,
			RAM:          v.RAM,
			Storage:      v.Storage,
			Applications: NormalizeApplications(v.Applications),
			Unit:         v.Unit,
			Status:       model.Status(v.Status),
		},
		CreatedAt: v.CreatedAt,
	}
}

// DenormalizeApplications joins the list in order. Entries never contain a comma
// since they are produced by splitting the form input on commas.
func DenormalizeApplications(apps []string) string {
	return strings.Join(apps, ",")
}

func NormalizeApplications(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
