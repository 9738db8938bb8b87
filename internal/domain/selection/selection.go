// Package selection builds the owner-balanced review path of a QA session.
package selection

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/internal/domain/sampling"
	"github.com/okian/sourceqa/internal/domain/types"
)

// ownerPattern accepts claimed owners: initials made of letters only.
var ownerPattern = regexp.MustCompile(`^[A-Za-z]+$`)

// Filter narrows the QA sheet to the rows a reviewer asked for.
type Filter struct {
	Job       string
	Relevance types.Relevance
	// Count caps the rows drawn per owner.
	Count int
}

// Validate rejects filters that cannot select anything meaningful.
func (f Filter) Validate() error {
	if strings.TrimSpace(f.Job) == "" {
		return fmt.Errorf("%w: job is required", ErrInvalidFilter)
	}
	if f.Count <= 0 {
		return fmt.Errorf("%w: count must be positive", ErrInvalidFilter)
	}
	return nil
}

// Eligible reports whether r is an unreviewed, owned row of the filtered job.
func (f Filter) Eligible(r *model.Row) bool {
	if r.SourcingJob == "" || !strings.EqualFold(r.SourcingJob, f.Job) {
		return false
	}
	if !ownerPattern.MatchString(r.Owner) {
		return false
	}
	// Any non-empty score, even whitespace, marks the row reviewed.
	if r.Reviewed != "" {
		return false
	}
	if marker := f.Relevance.Marker(); marker != "" && !strings.EqualFold(r.Relevant, marker) {
		return false
	}
	return true
}

// BuildPath filters rows, samples at most f.Count rows per owner and
// returns them in sheet order. An owner with fewer eligible rows than
// f.Count contributes all of them, so the path may exceed f.Count.
func BuildPath(rows []model.Row, f Filter, src sampling.Source) ([]model.CandidateRecord, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	var owners []string
	byOwner := make(map[string][]model.Row)
	for i := range rows {
		r := &rows[i]
		if !f.Eligible(r) {
			continue
		}
		if _, ok := byOwner[r.Owner]; !ok {
			owners = append(owners, r.Owner)
		}
		byOwner[r.Owner] = append(byOwner[r.Owner], *r)
	}
	if len(owners) == 0 {
		return nil, ErrNoCandidates
	}

	var picked []model.Row
	for _, owner := range owners {
		picked = append(picked, sampling.Reservoir(byOwner[owner], f.Count, src)...)
	}
	slices.SortFunc(picked, func(a, b model.Row) int { return cmp.Compare(a.Number, b.Number) })

	path := make([]model.CandidateRecord, len(picked))
	for i, r := range picked {
		path[i] = model.RecordFromRow(r)
	}
	return path, nil
}
