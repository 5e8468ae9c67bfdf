package store

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

type ExportData struct {
	ID           string             `json:"id"`
	Plant        string             `json:"plant"`
	Dt           float64            `json:"dt"`
	Duration     float64            `json:"duration"`
	Steps        int                `json:"steps"`
	Setpoints    []float64          `json:"setpoints"`
	Measurements []float64          `json:"measurements"`
	Outputs      []float64          `json:"outputs"`
	Metrics      map[string]float64 `json:"metrics"`
}

// ExportJSON writes a stored run as a single JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, series *Series) error {
	data := ExportData{
		ID:           meta.ID,
		Plant:        meta.Plant,
		Dt:           meta.Dt,
		Duration:     meta.Duration,
		Steps:        len(series.Measurements),
		Setpoints:    series.Setpoints,
		Measurements: series.Measurements,
		Outputs:      series.Outputs,
		Metrics:      meta.Metrics,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes a stored run in the firmware log format, with a leading
// time column derived from the run's sample interval.
func ExportCSV(w io.Writer, meta *RunMetadata, series *Series) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"time", "setpoint", "measurement", "output"}); err != nil {
		return err
	}

	for i := range series.Measurements {
		row := []string{
			strconv.FormatFloat(float64(i)*meta.Dt, 'f', 6, 64),
			strconv.FormatFloat(series.Setpoints[i], 'f', 6, 64),
			strconv.FormatFloat(series.Measurements[i], 'f', 6, 64),
			strconv.FormatFloat(series.Outputs[i], 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
