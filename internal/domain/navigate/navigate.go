// Package navigate finds the neighbouring candidate links of a sheet row.
package navigate

import (
	"errors"

	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/internal/domain/types"
)

// ErrNoLinks is returned when a candidate has neither a back nor a next link.
var ErrNoLinks = errors.New("both links are empty")

// FindAdjacent walks from target in dir, passing over rows whose reviewed
// marker is empty. Whitespace counts as a marker. It stops at the first row with a marker or at the first
// or last row of the table and returns that row's link URL. It returns ""
// when the walk leaves the table.
func FindAdjacent(rows []model.Row, target int, dir types.Direction) string {
	step := dir.Step()
	last := len(rows) - 1
	i := target + step
	for i > 0 && i < last && rows[i].Reviewed == "" {
		i += step
	}
	if i < 0 || i > last {
		return ""
	}
	return rows[i].LinkURL
}

// Links returns the previous and next links around target.
func Links(rows []model.Row, target int) (back, next string) {
	return FindAdjacent(rows, target, types.Prev), FindAdjacent(rows, target, types.Next)
}
