package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	repository "github.com/okian/sourceqa/internal/adapters/repository"
	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/internal/domain/review"
	"github.com/okian/sourceqa/internal/domain/rules"
	"github.com/okian/sourceqa/internal/domain/selection"
	"github.com/okian/sourceqa/internal/domain/types"
	"github.com/okian/sourceqa/internal/domain/writer"
	"github.com/okian/sourceqa/pkg/logger"
	"github.com/okian/sourceqa/pkg/metrics"
)

// QAPath samples an owner-balanced review queue for an admin reviewer.
func (s *Service) QAPath(ctx context.Context, q model.QAPathQuery) (model.QAPathResult, error) {
	count, _ := strconv.Atoi(strings.TrimSpace(q.Count))
	filter := selection.Filter{
		Job:       strings.TrimSpace(q.Job),
		Relevance: types.ParseRelevance(q.Relevance),
		Count:     count,
	}
	if err := filter.Validate(); err != nil {
		return model.QAPathResult{}, err
	}

	reviewer := strings.TrimSpace(q.QAOwner)
	user, err := s.store.AdminByEmail(ctx, s.email(reviewer))
	if errors.Is(err, repository.ErrNotFound) {
		return model.QAPathResult{}, fmt.Errorf("%w: %s", types.ErrNotAllowed, reviewer)
	}
	if err != nil {
		return model.QAPathResult{}, fmt.Errorf("%w: %w", ErrStore, err)
	}

	jobs, err := s.store.Jobs(ctx)
	if err != nil {
		return model.QAPathResult{}, fmt.Errorf("%w: %w", ErrStore, err)
	}

	grid, err := s.qa.Read(ctx)
	if err != nil {
		return model.QAPathResult{}, fmt.Errorf("%w: %w", ErrTable, err)
	}
	rows := model.ParseRows(model.QALayout(), grid, s.headerRows)

	path, err := selection.BuildPath(rows, filter, s.random)
	if err != nil {
		return model.QAPathResult{}, err
	}
	metrics.RecordPathBuilt(len(path))
	s.logger.Info(ctx, "qa path built",
		logger.String("reviewer", reviewer),
		logger.String("job", filter.Job),
		logger.Int("size", len(path)),
	)
	return model.QAPathResult{Path: path, Rules: rules.Visible(jobs, reviewer, user.IsAdmin())}, nil
}

// QAUpdate writes a reviewer's corrections to the QA sheet, records the
// review and counts the candidate towards the reviewer's day. It returns
// the confirmation shown to the reviewer.
func (s *Service) QAUpdate(ctx context.Context, u model.QAUpdate) (string, error) { //nolint:gocritic // hugeParam: decoded request value
	index := strings.TrimSpace(string(u.CandidateIndex))
	row, err := strconv.Atoi(index)
	if err != nil || row <= s.headerRows {
		return "", fmt.Errorf("%w: %q", ErrInvalidIndex, index)
	}

	if err := s.qa.WriteRow(ctx, row, writer.QACells(u)); err != nil {
		metrics.RecordWriteFailure("qa")
		return "", fmt.Errorf("%w: %w", ErrTable, err)
	}
	metrics.RecordRowsWritten("qa", 1)

	reviewer := strings.TrimSpace(string(u.QAOwner))
	user, err := s.store.UserByEmail(ctx, s.email(reviewer))
	if errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", types.ErrUnknownUser, s.email(reviewer))
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStore, err)
	}

	now := s.now()
	if _, err := s.store.UpsertReview(ctx, user, review.FromUpdate(u, now)); err != nil {
		return "", fmt.Errorf("%w: %w", ErrStore, err)
	}
	if _, err := s.store.IncreaseReviewed(ctx, user.ID, now, u.UnchangedData.ProfileURL()); err != nil {
		return "", fmt.Errorf("%w: %w", ErrStore, err)
	}

	name := string(u.NewData.Name)
	s.emit(ctx, model.EventCandidateReviewed, types.ModePeople, name, reviewer, []int{row})
	return fmt.Sprintf("The data for the candidate with the name %s has been added on the row: %d", name, row), nil
}
