// Package pointcsv writes sampled coordinate pairs to a CSV sink in
// fixed-size batches, keeping peak memory independent of the total number
// of points.
package pointcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"

	"github.com/paulmach/orb"
)

// Header is the first row of every points file.
var Header = []string{"longitude", "latitude"}

// ErrSinkWrite means the output destination could not be written.
var ErrSinkWrite = errors.New("pointcsv: sink write failed")

// Writer buffers coordinate rows and flushes them to the sink whenever the
// buffer reaches the batch size, plus once more for any remainder.
type Writer struct {
	csv         *csv.Writer
	batch       []orb.Point
	batchSize   int
	wroteHeader bool
}

// NewWriter wraps the sink. batchSize is the number of rows buffered
// between flushes and must be at least 1.
func NewWriter(w io.Writer, batchSize int) (*Writer, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("pointcsv: batch size must be at least 1, got %d", batchSize)
	}
	return &Writer{
		csv:       csv.NewWriter(w),
		batch:     make([]orb.Point, 0, batchSize),
		batchSize: batchSize,
	}, nil
}

// WriteHeader writes the header row. It is written at most once and must
// precede any points.
func (w *Writer) WriteHeader() error {
	if w.wroteHeader {
		return nil
	}
	w.wroteHeader = true

	if err := w.csv.Write(Header); err != nil {
		return fmt.Errorf("%w: %v", ErrSinkWrite, err)
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrSinkWrite, err)
	}
	return nil
}

// WritePoints drains the sequence into the sink, flushing every batchSize
// rows. It returns the number of rows consumed, including any buffered
// rows a failed flush could not deliver.
func (w *Writer) WritePoints(points iter.Seq[orb.Point]) (int64, error) {
	var n int64
	for p := range points {
		w.batch = append(w.batch, p)
		n++
		if len(w.batch) >= w.batchSize {
			if err := w.Flush(); err != nil {
				return n, err
			}
		}
	}
	if err := w.Flush(); err != nil {
		return n, err
	}
	return n, nil
}

// Flush writes all buffered rows to the sink and clears the buffer.
func (w *Writer) Flush() error {
	for _, p := range w.batch {
		record := []string{
			strconv.FormatFloat(p[0], 'f', -1, 64),
			strconv.FormatFloat(p[1], 'f', -1, 64),
		}
		if err := w.csv.Write(record); err != nil {
			return fmt.Errorf("%w: %v", ErrSinkWrite, err)
		}
	}
	w.batch = w.batch[:0]

	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrSinkWrite, err)
	}
	return nil
}
