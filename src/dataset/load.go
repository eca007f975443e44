package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/iafilius/xcontrol/src/logging"
)

// ErrEmpty is returned when the input holds no rows.
var ErrEmpty = errors.New("dataset has no rows")

// LoadError reports a row that could not be decoded.
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("dataset line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("dataset %s line %d: %v", e.Path, e.Line, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads a JSONL dataset file: one JSON object per line, the first line being the
// summary row. Blank lines and full-line // comments are skipped.
func Load(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	ds, err := read(f, path)
	if err != nil {
		return nil, err
	}
	logging.Debugf("[dataset] loaded %d rows from %s", len(ds), path)
	return ds, nil
}

// Read parses JSONL rows from r.
func Read(r io.Reader) (Dataset, error) { return read(r, "") }

func read(r io.Reader, path string) (Dataset, error) {
	// bufio.Reader rather than Scanner so long rows are not cut at a token limit.
	reader := bufio.NewReader(r)
	var ds Dataset
	lineNo := 0
	for {
		line, rerr := reader.ReadBytes('\n')
		if len(line) > 0 {
			lineNo++
			trimmed := bytes.TrimSpace(line)
			if len(trimmed) > 0 && !bytes.HasPrefix(trimmed, []byte("//")) {
				row, err := decodeRow(trimmed)
				if err != nil {
					return nil, &LoadError{Path: path, Line: lineNo, Err: err}
				}
				ds = append(ds, row)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, fmt.Errorf("read dataset: %w", rerr)
		}
	}
	if len(ds) == 0 {
		return nil, ErrEmpty
	}
	return ds, nil
}

func decodeRow(b []byte) (Row, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var row Row
	if err := dec.Decode(&row); err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errors.New("row is not a JSON object")
	}
	return row, nil
}
