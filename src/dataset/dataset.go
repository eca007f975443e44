// Package dataset holds the aggregated rows a cartesian chart is drawn from and the
// lookups the overlays need: per-series summary values and the first x category.
package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/iafilius/xcontrol/src/bands"
)

// XAxisKey is the row key holding the x-axis (dimension) value.
const XAxisKey = "x"

// Aggregate field suffixes written by the aggregation pipeline into the summary row.
const (
	FieldCenter    = "CL"
	FieldDeviation = "STDDEV"
)

// MissingX is substituted when no row carries an x value; the chart engine needs
// every data point to have an x coordinate.
const MissingX = "null"

// Row is one aggregated record keyed by column name.
type Row map[string]any

// Dataset is an ordered list of rows.
type Dataset []Row

// AggregateKey builds the composite key under which a series summary field is stored.
func AggregateKey(seriesID, field string) string { return seriesID + ":" + field }

// GetAggregate reads a numeric summary field for a series from row. Absent keys and
// non-numeric content yield bands.None.
func GetAggregate(row Row, seriesID, field string) bands.Value {
	if row == nil {
		return bands.None
	}
	v, ok := row[AggregateKey(seriesID, field)]
	if !ok {
		return bands.None
	}
	return ToValue(v)
}

// Aggregates returns the center and deviation of a series from the summary row (the first row).
func Aggregates(ds Dataset, seriesID string) (center, deviation bands.Value) {
	if len(ds) == 0 {
		return bands.None, bands.None
	}
	row := ds[0]
	return GetAggregate(row, seriesID, FieldCenter), GetAggregate(row, seriesID, FieldDeviation)
}

// ToValue converts a decoded cell into an optional number.
func ToValue(v any) bands.Value {
	switch n := v.(type) {
	case nil:
		return bands.None
	case float64:
		return bands.Some(n)
	case float32:
		return bands.Some(float64(n))
	case int:
		return bands.Some(float64(n))
	case int8:
		return bands.Some(float64(n))
	case int16:
		return bands.Some(float64(n))
	case int32:
		return bands.Some(float64(n))
	case int64:
		return bands.Some(float64(n))
	case uint:
		return bands.Some(float64(n))
	case uint8:
		return bands.Some(float64(n))
	case uint16:
		return bands.Some(float64(n))
	case uint32:
		return bands.Some(float64(n))
	case uint64:
		return bands.Some(float64(n))
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return bands.None
		}
		return bands.Some(f)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return bands.None
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return bands.None
		}
		return bands.Some(f)
	default:
		return bands.None
	}
}

// XValue is the x coordinate of the goal-line anchor point. Missing is set when the
// dataset has no non-null x value.
type XValue struct {
	Raw     any
	Missing bool
}

// Value returns the raw x value, or MissingX for the missing case.
func (x XValue) Value() any {
	if x.Missing {
		return MissingX
	}
	return x.Raw
}

func (x XValue) String() string { return fmt.Sprint(x.Value()) }

// FirstNonNullX scans rows in order and returns the first x value that is not nil.
// Booleans are stringified since the chart engine does not accept them as categories.
func FirstNonNullX(ds Dataset) XValue {
	for _, row := range ds {
		v, ok := row[XAxisKey]
		if !ok || v == nil {
			continue
		}
		if b, isBool := v.(bool); isBool {
			return XValue{Raw: strconv.FormatBool(b)}
		}
		return XValue{Raw: v}
	}
	return XValue{Missing: true}
}

// Series returns the numeric column values of key, NaN where the cell is not numeric.
func (ds Dataset) Series(key string) []float64 {
	out := make([]float64, len(ds))
	for i, row := range ds {
		out[i] = ToValue(row[key]).Or(math.NaN())
	}
	return out
}

// XLabels returns the x values formatted for tick labels.
func (ds Dataset) XLabels() []string {
	out := make([]string, len(ds))
	for i, row := range ds {
		if v, ok := row[XAxisKey]; ok && v != nil {
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

// columnKinds sorts the non-summary columns into numeric series and categorical
// dimensions. A column is a dimension once any non-null cell fails to parse as a number;
// the x column always is.
func (ds Dataset) columnKinds() (series, dims []string) {
	numeric := map[string]bool{}
	for _, row := range ds {
		for k, v := range row {
			if strings.Contains(k, ":") {
				continue
			}
			isNum, seen := numeric[k]
			if !seen {
				isNum = k != XAxisKey
			}
			if v != nil && !ToValue(v).Defined() {
				isNum = false
			}
			numeric[k] = isNum
		}
	}
	for k, isNum := range numeric {
		if isNum {
			series = append(series, k)
		} else {
			dims = append(dims, k)
		}
	}
	sort.Strings(series)
	sort.Strings(dims)
	return series, dims
}

// SeriesKeys lists the plottable columns in sorted order: numeric columns other than the x
// column and the "<series>:<field>" summary keys.
func (ds Dataset) SeriesKeys() []string {
	series, _ := ds.columnKinds()
	return series
}

// DimensionKeys lists the categorical columns, the x column included, in sorted order.
func (ds Dataset) DimensionKeys() []string {
	_, dims := ds.columnKinds()
	return dims
}
