package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/plague/internal/plague"
)

type ExportData struct {
	RunMetadata
	DayAxis     []float64 `json:"day"`
	Percentages []float64 `json:"infected_percentage"`
	Rates       []float64 `json:"infection_rate"`
	Controls    []float64 `json:"applied_control"`
}

func NewExportData(meta RunMetadata, h plague.History) ExportData {
	return ExportData{
		RunMetadata: meta,
		DayAxis:     h.Days(),
		Percentages: h.Percentages,
		Rates:       h.Rates,
		Controls:    h.Controls,
	}
}

func ExportJSON(w io.Writer, meta RunMetadata, h plague.History) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, h))
}
