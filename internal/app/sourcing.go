package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	repository "github.com/okian/sourceqa/internal/adapters/repository"
	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/internal/domain/navigate"
	"github.com/okian/sourceqa/internal/domain/rowindex"
	"github.com/okian/sourceqa/internal/domain/rules"
	"github.com/okian/sourceqa/internal/domain/stats"
	"github.com/okian/sourceqa/internal/domain/types"
	"github.com/okian/sourceqa/internal/domain/writer"
	"github.com/okian/sourceqa/pkg/logger"
	"github.com/okian/sourceqa/pkg/metrics"
)

// Alerts shown to a sourcer who may not proceed.
const (
	AlertNoProjects       = "You don't have any projects : ("
	AlertNotRegistered    = "You are not registered as a sourcer : ("
	AlertNoCompanyScraper = "You don't have permission to source companies : ("
)

// Links resolves the back and next profiles around a candidate together
// with the sourcer's rules, skill pattern and today's stats.
func (s *Service) Links(ctx context.Context, q model.LinksQuery) (model.LinksResult, error) {
	mode, err := types.ParseMode(q.Mode)
	if err != nil {
		return model.LinksResult{}, err
	}
	owner := strings.TrimSpace(q.Owner)
	layout, _ := model.LayoutFor(mode)

	grid, err := s.sheet(mode).Read(ctx)
	if err != nil {
		return model.LinksResult{}, fmt.Errorf("%w: %w", ErrTable, err)
	}

	jobs, err := s.store.Jobs(ctx)
	if err != nil {
		return model.LinksResult{}, fmt.Errorf("%w: %w", ErrStore, err)
	}
	visible := rules.Visible(jobs, owner, false)
	if len(visible) == 0 {
		metrics.RecordLinkLookup(string(mode), "no_projects")
		return alert(AlertNoProjects), nil
	}

	user, err := s.store.UserByEmail(ctx, s.email(owner))
	if errors.Is(err, repository.ErrNotFound) {
		metrics.RecordLinkLookup(string(mode), "not_registered")
		return alert(AlertNotRegistered), nil
	}
	if err != nil {
		return model.LinksResult{}, fmt.Errorf("%w: %w", ErrStore, err)
	}
	day, err := s.store.DailyStat(ctx, user.ID, s.now())
	if err != nil {
		return model.LinksResult{}, fmt.Errorf("%w: %w", ErrStore, err)
	}
	if mode == types.ModeCompany && !user.CompanyScraper {
		metrics.RecordLinkLookup(string(mode), "no_permission")
		return alert(AlertNoCompanyScraper), nil
	}

	rows := model.ParseRows(layout, grid, s.headerRows)
	idx := rowindex.FindMatchingRows(rows, model.Identity{Name: q.Name, URL: q.URL})
	if len(idx) == 0 {
		metrics.RecordLinkLookup(string(mode), "not_found")
		return model.LinksResult{}, writer.ErrNotFound
	}
	anchor := idx[len(idx)-1]

	back, next := navigate.Links(rows, anchor)
	if back == "" && next == "" {
		metrics.RecordLinkLookup(string(mode), "no_links")
		return model.LinksResult{}, navigate.ErrNoLinks
	}

	names, err := s.store.SkillNames(ctx)
	if err != nil {
		return model.LinksResult{}, fmt.Errorf("%w: %w", ErrStore, err)
	}

	res := model.LinksResult{
		Back:   back,
		Next:   next,
		Skills: rules.SkillsPattern(names),
		Rules:  visible,
		Stats:  summary(day),
	}
	if claimed := rows[anchor].Owner; claimed != "" {
		res.Alert = fmt.Sprintf("This is %s's candidate, please choose another one!", claimed)
	}
	metrics.RecordLinkLookup(string(mode), "ok")
	s.logger.Debug(ctx, "links resolved",
		logger.String("mode", string(mode)),
		logger.String("owner", owner),
		logger.Int("row", rows[anchor].Number),
	)
	return res, nil
}

// WriteCandidate writes a sourced candidate to every matching row and, for
// people, updates the sourcer's daily stats.
func (s *Service) WriteCandidate(ctx context.Context, c model.SourcedCandidate) (model.WriteResult, error) { //nolint:gocritic // hugeParam: decoded request value
	mode, err := types.ParseMode(c.Mode)
	if err != nil {
		return model.WriteResult{}, err
	}
	layout, _ := model.LayoutFor(mode)
	cells, err := writer.CellsFor(mode, c)
	if err != nil {
		return model.WriteResult{}, err
	}

	sheet := s.sheet(mode)
	grid, err := sheet.Read(ctx)
	if err != nil {
		return model.WriteResult{}, fmt.Errorf("%w: %w", ErrTable, err)
	}
	rows := model.ParseRows(layout, grid, s.headerRows)

	out, err := writer.WriteCandidate(ctx, sheet, rows, c.Identity(), cells)
	metrics.RecordRowsWritten(string(mode), len(out.Rows))
	if err != nil {
		if errors.Is(err, writer.ErrWriteFailed) {
			metrics.RecordWriteFailure(string(mode))
			s.logger.Error(ctx, "candidate write stopped",
				logger.String("name", string(c.Name)),
				logger.Ints("written", out.Rows),
				logger.Error(err),
			)
		}
		return model.WriteResult{Rows: out.Rows}, err
	}

	owner := c.OwnerTrimmed()
	s.emit(ctx, model.EventCandidateSourced, mode, string(c.Name), owner, out.Rows)

	res := model.WriteResult{
		Message: fmt.Sprintf("The data for the candidate with the name %s has been added on the row(s): %s",
			c.Name, writer.JoinRows(out.Rows)),
		Rows: out.Rows,
	}
	if mode != types.ModePeople {
		return res, nil
	}

	user, err := s.store.UserByEmail(ctx, s.email(owner))
	if errors.Is(err, repository.ErrNotFound) {
		return res, fmt.Errorf("%w: %s", types.ErrUnknownUser, s.email(owner))
	}
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrStore, err)
	}
	day, err := s.store.UpdateDailyStat(ctx, user.ID, s.now(), func(d model.DailyStat) (model.DailyStat, bool) {
		return stats.Record(d, string(c.SourcingJob), string(c.Relevant), string(c.URL), out.Previous.Relevant)
	})
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrStore, err)
	}
	res.Stats = summary(day)
	return res, nil
}

func alert(msg string) model.LinksResult {
	return model.LinksResult{Rules: []model.JobRule{}, Alert: msg}
}

func summary(d model.DailyStat) *model.Summary {
	sum := stats.Aggregate(d.Jobs)
	return &sum
}
