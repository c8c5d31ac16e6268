// Package report turns the full VPS record set into the printable report.
// Build is pure; Render lays the result out as an A4 PDF.
package report

import (
	"fmt"

	"github.com/dadas-io/dadas/pkg/model"
)

const (
	FileName = "laporan-vps.pdf"
	Title    = "Laporan Data VPS"
)

var Columns = []string{"Nama VPS", "Spesifikasi", "Aplikasi", "Unit/Instansi", "Status"}

type Row struct {
	Name string
	// Spec holds the CPU, RAM and storage lines, in that order.
	Spec         []string
	Applications []string
	Unit         string
	Status       string
	Active       bool
}

type Document struct {
	Title   string
	Summary string
	Total   int
	Active  int
	Columns []string
	Rows    []Row
}

// Build lays out every record given, in order. Callers pass the full record
// set, never a filtered page.
func Build(records []model.VPS) Document {
	doc := Document{
		Title:   Title,
		Columns: Columns,
		Rows:    make([]Row, 0, len(records)),
	}

	for _, r := range records {
		active := r.Status == model.StatusActive
		if active {
			doc.Active++
		}
		apps := make([]string, len(r.Applications))
		copy(apps, r.Applications)

		doc.Rows = append(doc.Rows, Row{
			Name: r.Name,
			Spec: []string{
				"CPU: " + r.CPU,
				"RAM: " + r.RAM,
				"Storage: " + r.Storage,
			},
			Applications: apps,
			Unit:         r.Unit,
			Status:       r.Status.Label(),
			Active:       active,
		})
	}
	doc.Total = len(records)
	doc.Summary = fmt.Sprintf("Total VPS: %d | VPS Aktif: %d", doc.Total, doc.Active)

	return doc
}
