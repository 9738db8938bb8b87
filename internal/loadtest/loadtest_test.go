package loadtest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okian/sourceqa/internal/adapters/http/api"
	repository "github.com/okian/sourceqa/internal/adapters/repository"
	"github.com/okian/sourceqa/internal/adapters/table"
	service "github.com/okian/sourceqa/internal/app"
	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/internal/loadtest"
	"github.com/okian/sourceqa/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// memStore is an in-memory user, job and stat store.
type memStore struct {
	mu    sync.Mutex
	users map[string]model.User
	jobs  []model.JobRule
	days  map[uint]model.DailyStat
}

func newMemStore(job string) *memStore {
	return &memStore{
		users: map[string]model.User{
			"lt@scaleup.agency": {ID: 1, Email: "lt@scaleup.agency", Role: model.RoleUser},
			"qa@scaleup.agency": {ID: 2, Email: "qa@scaleup.agency", Role: model.RoleAdmin},
		},
		jobs: []model.JobRule{{ID: 1, Title: job, Owners: []string{"LT"}}},
		days: map[uint]model.DailyStat{},
	}
}

func (s *memStore) UserByEmail(_ context.Context, email string) (model.User, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memStore) AdminByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := s.UserByEmail(ctx, email)
	if err != nil || !u.IsAdmin() {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *memStore) Jobs(context.Context) ([]model.JobRule, error) { return s.jobs, nil }

func (s *memStore) SkillNames(context.Context) ([]string, error) { return []string{"Go"}, nil }

func (s *memStore) DailyStat(_ context.Context, userID uint, day time.Time) (model.DailyStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.days[userID]
	if !ok {
		d = model.DailyStat{UserID: userID, Date: model.Day(day)}
	}
	return d, nil
}

func (s *memStore) UpdateDailyStat(_ context.Context, userID uint, day time.Time, fn func(model.DailyStat) (model.DailyStat, bool)) (model.DailyStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.days[userID]
	if !ok {
		d = model.DailyStat{UserID: userID, Date: model.Day(day)}
	}
	if next, changed := fn(d); changed {
		d = next
	}
	s.days[userID] = d
	return d, nil
}

func (s *memStore) IncreaseReviewed(context.Context, uint, time.Time, string) (bool, error) {
	return true, nil
}

func (s *memStore) UpsertReview(_ context.Context, _ model.User, rv model.Review) (model.Review, error) {
	return rv, nil
}

func TestRun(t *testing.T) {
	Convey("Given a service backed by seeded local workbooks", t, func() {
		dir := t.TempDir()
		defaults := struct{ people, companies, qa string }{"List", "Companies", "List of candidates for QA"}
		cfg := &loadtest.Config{
			Candidates:   12,
			Owner:        "LT",
			Reviewer:     "QA",
			Job:          "Load Test",
			PathSize:     4,
			Workers:      3,
			Timeout:      5 * time.Second,
			Seed:         true,
			SourcingXLSX: filepath.Join(dir, "sourcing.xlsx"),
			QAXLSX:       filepath.Join(dir, "qa.xlsx"),
			PeopleSheet:  defaults.people,
			CompanySheet: defaults.companies,
			QASheet:      defaults.qa,
		}

		sourcing := table.NewXLSXBook(cfg.SourcingXLSX)
		review := table.NewXLSXBook(cfg.QAXLSX)
		store := newMemStore(cfg.Job)
		svc := service.New(
			service.WithStore(store),
			service.WithSheets(
				sourcing.Sheet(cfg.PeopleSheet, model.PeopleLayout().LastColumn),
				sourcing.Sheet(cfg.CompanySheet, model.CompanyLayout().LastColumn),
				review.Sheet(cfg.QASheet, model.QALayout().LastColumn),
			),
		)
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		api.NewServer(svc).Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()
		cfg.BaseURL = srv.URL

		Convey("When the load run completes", func() {
			err := loadtest.Run(context.Background(), cfg)

			Convey("Then every candidate was claimed by the owner", func() {
				So(err, ShouldBeNil)
				grid, rerr := sourcing.Sheet(cfg.PeopleSheet, "AE").Read(context.Background())
				So(rerr, ShouldBeNil)
				owned := 0
				for _, r := range model.ParseRows(model.PeopleLayout(), grid, 1) {
					if r.Owner == "LT" {
						owned++
					}
				}
				So(owned, ShouldEqual, 12)
			})

			Convey("And the owner's day counts every write", func() {
				So(store.days[1].TotalSourced, ShouldEqual, 12)
			})
		})
	})

	Convey("Given no service", t, func() {
		cfg := &loadtest.Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}

		Convey("Then the run stops at the health check", func() {
			So(loadtest.Run(context.Background(), cfg), ShouldNotBeNil)
		})
	})
}
