// Package writer replaces candidate rows in a sheet.
package writer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/internal/domain/rowindex"
)

// RowWriter replaces one sheet row, 1-based, starting at column A.
type RowWriter interface {
	WriteRow(ctx context.Context, row int, cells []model.Cell) error
}

// Outcome reports what a candidate write touched.
type Outcome struct {
	// Rows are the sheet rows written, in order.
	Rows []int
	// Previous is the last matched row as it was before the write.
	Previous model.Row
}

// WriteRows writes cells to every row in order and stops at the first
// failure. The returned rows are those written before it.
func WriteRows(ctx context.Context, w RowWriter, rows []int, cells []model.Cell) ([]int, error) {
	written := make([]int, 0, len(rows))
	for _, row := range rows {
		if err := w.WriteRow(ctx, row, cells); err != nil {
			return written, fmt.Errorf("%w: row %d: %w", ErrWriteFailed, row, err)
		}
		written = append(written, row)
	}
	return written, nil
}

// WriteCandidate writes cells to every row matching id.
func WriteCandidate(ctx context.Context, w RowWriter, rows []model.Row, id model.Identity, cells []model.Cell) (Outcome, error) {
	idx := rowindex.FindMatchingRows(rows, id)
	if len(idx) == 0 {
		return Outcome{}, ErrNotFound
	}
	numbers := make([]int, len(idx))
	for i, j := range idx {
		numbers[i] = rows[j].Number
	}
	out := Outcome{Previous: rows[idx[len(idx)-1]]}
	written, err := WriteRows(ctx, w, numbers, cells)
	out.Rows = written
	return out, err
}

// JoinRows renders row numbers as "3,5".
func JoinRows(rows []int) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ",")
}

func trim(t model.Text) string { return strings.TrimSpace(string(t)) }
