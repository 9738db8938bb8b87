// Package table reads and writes candidate sheets on Google Sheets or on
// local xlsx workbooks.
package table

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okian/sourceqa/internal/domain/model"
)

// Sentinel errors for table access.
var (
	ErrRead  = errors.New("table read failed")
	ErrWrite = errors.New("table write failed")
)

// Sheet is one named range of rows.
type Sheet interface {
	// Name is the sheet title, used in logs and metrics.
	Name() string
	// Read returns every row from column A through the sheet's last column.
	Read(ctx context.Context) ([][]string, error)
	// WriteRow replaces the 1-based row starting at column A. Skipped cells
	// keep their stored value.
	WriteRow(ctx context.Context, row int, cells []model.Cell) error
}

// Book opens sheets of one spreadsheet or workbook.
type Book interface {
	Sheet(name, lastColumn string) Sheet
}

// rangeRef quotes a sheet title for A1 notation.
func rangeRef(sheet, cells string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + cells
}

// rowRange is A{row}:{last}{row} for a write of width cells.
func rowRange(row, width int) (string, error) {
	last, err := excelize.ColumnNumberToName(width)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("A%d:%s%d", row, last, row), nil
}

// clip truncates rows wider than the sheet's last column.
func clip(rows [][]string, lastColumn string) [][]string {
	width, err := excelize.ColumnNameToNumber(lastColumn)
	if err != nil {
		return rows
	}
	for i, r := range rows {
		if len(r) > width {
			rows[i] = r[:width]
		}
	}
	return rows
}
