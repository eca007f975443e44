// Package export writes computed control limits to JSON and XLSX files.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/iafilius/xcontrol/src/bands"
)

// SheetName is the worksheet holding the limits table.
const SheetName = "Control Limits"

// Record is one band row. Value is nil when the band is undefined.
type Record struct {
	Code       string   `json:"code"`
	Name       string   `json:"name"`
	Multiplier int      `json:"multiplier"`
	Value      *float64 `json:"value"`
}

// Report is the JSON document written for a series.
type Report struct {
	Series string   `json:"series"`
	Bands  []Record `json:"bands"`
}

var bandNames = map[bands.Band]string{
	bands.Center:    "Center line",
	bands.UpperNear: "Upper +1 sigma",
	bands.UpperMid:  "Upper +2 sigma",
	bands.UpperFar:  "Upper control limit",
	bands.LowerNear: "Lower -1 sigma",
	bands.LowerMid:  "Lower -2 sigma",
	bands.LowerFar:  "Lower control limit",
}

// Records lists every band in drawing order, defined or not.
func Records(set bands.Set) []Record {
	all := bands.All()
	out := make([]Record, 0, len(all))
	for _, b := range all {
		r := Record{Code: b.Code(), Name: bandNames[b], Multiplier: b.Multiplier()}
		if v, ok := set.Get(b); ok {
			r.Value = &v
		}
		out = append(out, r)
	}
	return out
}

// WriteJSON encodes the limits report to w.
func WriteJSON(w io.Writer, seriesID string, set bands.Set, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(Report{Series: seriesID, Bands: Records(set)}); err != nil {
		return fmt.Errorf("encode limits: %w", err)
	}
	return nil
}

// WriteXLSX saves the limits table as a workbook at path.
func WriteXLSX(path, seriesID string, set bands.Set) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := []string{"Series", "Code", "Name", "Multiplier", "Value"}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for i, r := range Records(set) {
		row := i + 2
		vals := []any{seriesID, r.Code, r.Name, r.Multiplier, nil}
		if r.Value != nil {
			vals[4] = *r.Value
		}
		for col, v := range vals {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// Save picks the format from the file extension (.xlsx or .json).
func Save(path, seriesID string, set bands.Set) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return WriteXLSX(path, seriesID, set)
	case ".json":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := WriteJSON(f, seriesID, set, true); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("unsupported export format %q (want .xlsx or .json)", filepath.Ext(path))
	}
}
