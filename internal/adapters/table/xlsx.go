package table

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/pkg/metrics"
)

// XLSXBook is a local workbook. Every call reopens the file so edits made
// outside the process are picked up.
type XLSXBook struct {
	path string
	mu   sync.Mutex
}

// NewXLSXBook wraps a workbook path.
func NewXLSXBook(path string) *XLSXBook {
	return &XLSXBook{path: path}
}

// Sheet returns the named worksheet, read through lastColumn.
func (b *XLSXBook) Sheet(name, lastColumn string) Sheet {
	return &XLSXSheet{book: b, name: name, lastColumn: lastColumn}
}

// XLSXSheet is a worksheet of a local workbook.
type XLSXSheet struct {
	book       *XLSXBook
	name       string
	lastColumn string
}

// Name returns the worksheet title.
func (s *XLSXSheet) Name() string { return s.name }

// Read returns the worksheet rows, trailing empty cells trimmed.
func (s *XLSXSheet) Read(ctx context.Context) (rows [][]string, err error) {
	start := time.Now()
	defer func() { metrics.RecordTableRead(s.name, time.Since(start), err) }()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, s.name, err)
	}
	s.book.mu.Lock()
	defer s.book.mu.Unlock()

	f, err := excelize.OpenFile(s.book.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, s.name, err)
	}
	defer func() { _ = f.Close() }()

	rows, err = f.GetRows(s.name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, s.name, err)
	}
	return clip(rows, s.lastColumn), nil
}

// WriteRow sets the non-skipped cells of row and saves the workbook.
func (s *XLSXSheet) WriteRow(ctx context.Context, row int, cells []model.Cell) (err error) {
	start := time.Now()
	defer func() { metrics.RecordTableWrite(s.name, time.Since(start), err) }()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s row %d: %w", ErrWrite, s.name, row, err)
	}
	s.book.mu.Lock()
	defer s.book.mu.Unlock()

	f, err := excelize.OpenFile(s.book.path)
	if err != nil {
		return fmt.Errorf("%w: %s row %d: %w", ErrWrite, s.name, row, err)
	}
	defer func() { _ = f.Close() }()

	for i, c := range cells {
		if c.Skip {
			continue
		}
		ref, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("%w: %s row %d: %w", ErrWrite, s.name, row, err)
		}
		if err := f.SetCellValue(s.name, ref, c.Value); err != nil {
			return fmt.Errorf("%w: %s %s: %w", ErrWrite, s.name, ref, err)
		}
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("%w: %s row %d: %w", ErrWrite, s.name, row, err)
	}
	return nil
}
