package loadtest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/okian/sourceqa/internal/adapters/table"
	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/pkg/logger"
)

// ErrVerification is returned when the workbook disagrees with the run.
var ErrVerification = errors.New("verification failed")

// verifyWorkbook rereads the people sheet and checks that every successful
// write claimed exactly one generated row for the owner.
func verifyWorkbook(ctx context.Context, config *Config, candidates []model.SourcedCandidate, stats *Stats) error {
	sheet := table.NewXLSXBook(config.SourcingXLSX).Sheet(config.PeopleSheet, model.PeopleLayout().LastColumn)
	grid, err := sheet.Read(ctx)
	if err != nil {
		return err
	}
	rows := model.ParseRows(model.PeopleLayout(), grid, 1)

	generated := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		generated[string(c.Name)] = true
	}
	claimed := 0
	for i := range rows {
		r := &rows[i]
		if !generated[r.Name] {
			continue
		}
		if strings.TrimSpace(r.Owner) == config.Owner {
			claimed++
		}
	}
	stats.RowsClaimed = claimed

	logger.Get().Info(ctx, "workbook verified",
		logger.Int("claimed", claimed),
		logger.Int("successful", stats.Successful))
	if claimed != stats.Successful {
		return fmt.Errorf("%w: %d rows claimed for %d successful writes", ErrVerification, claimed, stats.Successful)
	}
	return nil
}
