package table

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/pkg/metrics"
)

const valueInputUserEntered = "USER_ENTERED"

// NewSheetsService authenticates with a service-account key file.
func NewSheetsService(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*sheets.Service, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	cfg, err := google.JWTConfigFromJSON(b, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	opts = append([]option.ClientOption{option.WithHTTPClient(cfg.Client(ctx))}, opts...)
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return svc, nil
}

// SheetsBook is one Google spreadsheet.
type SheetsBook struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheetsBook wraps a spreadsheet id.
func NewSheetsBook(svc *sheets.Service, spreadsheetID string) *SheetsBook {
	return &SheetsBook{svc: svc, spreadsheetID: spreadsheetID}
}

// Sheet returns the named tab, read through lastColumn.
func (b *SheetsBook) Sheet(name, lastColumn string) Sheet {
	return &SheetsSheet{book: b, name: name, lastColumn: lastColumn}
}

// SheetsSheet is a tab of a Google spreadsheet.
type SheetsSheet struct {
	book       *SheetsBook
	name       string
	lastColumn string
}

// Name returns the tab title.
func (s *SheetsSheet) Name() string { return s.name }

// Read fetches the full A:lastColumn range.
func (s *SheetsSheet) Read(ctx context.Context) (rows [][]string, err error) {
	start := time.Now()
	defer func() { metrics.RecordTableRead(s.name, time.Since(start), err) }()

	resp, err := s.book.svc.Spreadsheets.Values.
		Get(s.book.spreadsheetID, rangeRef(s.name, "A:"+s.lastColumn)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, s.name, err)
	}
	rows = make([][]string, len(resp.Values))
	for i, r := range resp.Values {
		row := make([]string, len(r))
		for j, v := range r {
			if v != nil {
				row[j] = fmt.Sprint(v)
			}
		}
		rows[i] = row
	}
	return rows, nil
}

// WriteRow updates one row as if typed by a user. Skipped cells are sent as
// null, which the API leaves untouched.
func (s *SheetsSheet) WriteRow(ctx context.Context, row int, cells []model.Cell) (err error) {
	start := time.Now()
	defer func() { metrics.RecordTableWrite(s.name, time.Since(start), err) }()

	span, err := rowRange(row, len(cells))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, s.name, err)
	}
	values := make([]any, len(cells))
	for i, c := range cells {
		if !c.Skip {
			values[i] = c.Value
		}
	}
	_, err = s.book.svc.Spreadsheets.Values.
		Update(s.book.spreadsheetID, rangeRef(s.name, span), &sheets.ValueRange{
			MajorDimension: "ROWS",
			Values:         [][]any{values},
		}).
		ValueInputOption(valueInputUserEntered).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: %s row %d: %w", ErrWrite, s.name, row, err)
	}
	return nil
}
