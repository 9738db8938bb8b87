package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	repository "github.com/okian/sourceqa/internal/adapters/repository"
	"github.com/okian/sourceqa/internal/domain/model"
)

const cols = 26

// sheetRow builds a people/QA row. Unset columns stay empty.
func sheetRow(values map[int]string) []string {
	row := make([]string, cols)
	for i, v := range values {
		row[i] = v
	}
	return row
}

type write struct {
	Row   int
	Cells []model.Cell
}

type fakeSheet struct {
	mu      sync.Mutex
	grid    [][]string
	readErr error
	failRow int
	writes  []write
}

func (f *fakeSheet) Read(ctx context.Context) ([][]string, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.grid, nil
}

func (f *fakeSheet) WriteRow(ctx context.Context, row int, cells []model.Cell) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row == f.failRow {
		return errors.New("quota exceeded")
	}
	f.writes = append(f.writes, write{Row: row, Cells: cells})
	return nil
}

func (f *fakeSheet) rows() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.writes))
	for i, w := range f.writes {
		out[i] = w.Row
	}
	return out
}

type reviewed struct {
	UserID uint
	URL    string
}

type fakeStore struct {
	mu       sync.Mutex
	users    map[string]model.User
	jobs     []model.JobRule
	skills   []string
	days     map[uint]model.DailyStat
	reviews  []model.Review
	reviewed []reviewed
	jobsErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: map[string]model.User{
			"ab@scaleup.agency": {ID: 1, Email: "ab@scaleup.agency", Role: model.RoleUser},
			"cd@scaleup.agency": {ID: 3, Email: "cd@scaleup.agency", Role: model.RoleUser, CompanyScraper: true},
			"qa@scaleup.agency": {ID: 2, Email: "qa@scaleup.agency", Role: model.RoleAdmin},
		},
		jobs: []model.JobRule{
			{ID: 1, Title: "Go", Owners: []string{"AB", "CD"}, Skills: []string{"Go"}},
			{ID: 2, Title: "Rust", Owners: []string{"EF"}},
		},
		skills: []string{"Go", ".Net"},
		days:   map[uint]model.DailyStat{},
	}
}

func (s *fakeStore) UserByEmail(ctx context.Context, email string) (model.User, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeStore) AdminByEmail(ctx context.Context, email string) (model.User, error) {
	if u, ok := s.users[email]; ok && u.IsAdmin() {
		return u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeStore) Jobs(ctx context.Context) ([]model.JobRule, error) {
	return s.jobs, s.jobsErr
}

func (s *fakeStore) SkillNames(ctx context.Context) ([]string, error) {
	return s.skills, nil
}

func (s *fakeStore) DailyStat(ctx context.Context, userID uint, day time.Time) (model.DailyStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.days[userID]
	if !ok {
		d = model.DailyStat{UserID: userID, Date: model.Day(day)}
		s.days[userID] = d
	}
	return d, nil
}

func (s *fakeStore) UpdateDailyStat(ctx context.Context, userID uint, day time.Time, fn func(model.DailyStat) (model.DailyStat, bool)) (model.DailyStat, error) {
	d, _ := s.DailyStat(ctx, userID, day)
	s.mu.Lock()
	defer s.mu.Unlock()
	if next, changed := fn(d); changed {
		s.days[userID] = next
		return next, nil
	}
	return d, nil
}

func (s *fakeStore) IncreaseReviewed(ctx context.Context, userID uint, day time.Time, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviewed = append(s.reviewed, reviewed{UserID: userID, URL: url})
	return true, nil
}

func (s *fakeStore) UpsertReview(ctx context.Context, reviewer model.User, rv model.Review) (model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, rv)
	return rv, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []model.CandidateEvent
}

func (p *fakePublisher) Publish(ctx context.Context, e model.CandidateEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) published() []model.CandidateEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.CandidateEvent(nil), p.events...)
}
