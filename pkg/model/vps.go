package model

import (
	"fmt"
	"time"
)

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Status string

func (s Status) IsValid() error {
	switch s {
	case StatusActive, StatusInactive:
		return nil
	}

	return fmt.Errorf("invalid status %q", string(s))
}

// Label is the Indonesian display label used by the dashboard and the report.
func (s Status) Label() string {
	if s == StatusActive {
		return "Aktif"
	}
	return "Non-aktif"
}

// VPSFields is everything about a VPS that a write sends to the store. The id
// and creation time are owned by the store.
type VPSFields struct {
	Name         string   `json:"name"`
	CPU          string   `json:"cpu"`
	RAM          string   `json:"ram"`
	Storage      string   `json:"storage"`
	Applications []string `json:"applications"`
	Unit         string   `json:"unit"`
	Status       Status   `json:"status"`
}

type VPS struct {
	ID string `json:"id"`
	VPSFields
	CreatedAt time.Time `json:"created_at"`
}

func (v VPS) IsActive() bool {
	return v.Status == StatusActive
}
