package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/sourceqa/internal/app"
	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/internal/domain/navigate"
	"github.com/okian/sourceqa/internal/domain/sampling"
	"github.com/okian/sourceqa/internal/domain/selection"
	"github.com/okian/sourceqa/internal/domain/types"
	"github.com/okian/sourceqa/internal/domain/writer"
	"github.com/okian/sourceqa/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var today = time.Date(2026, 10, 16, 14, 30, 0, 0, time.UTC)

// Column positions used by the fixtures.
const (
	cName     = 0
	cOwner    = 1
	cRelevant = 4
	cOldURL   = 5
	cNewURL   = 6
	cQAScore  = 20
	cJob      = 23
	cReviewed = 25
)

func peopleGrid() [][]string {
	return [][]string{
		sheetRow(map[int]string{cName: "Name"}),
		sheetRow(map[int]string{cName: "Ann", cOldURL: "url-ann", cReviewed: "yes"}),
		sheetRow(map[int]string{cName: "Bob", cOldURL: "url-bob"}),
		sheetRow(map[int]string{cName: "Cid", cOldURL: "url-cid", cRelevant: "no"}),
		sheetRow(map[int]string{cName: "Dan", cOwner: "XY", cOldURL: "url-dan", cNewURL: "https://li/dan", cReviewed: "no"}),
		sheetRow(map[int]string{cName: "Zed", cOwner: "AB", cOldURL: "url-zed", cNewURL: "https://li/zed"}),
		sheetRow(map[int]string{cName: "Zed", cOwner: "AB", cOldURL: "url-zed2", cNewURL: "https://li/zed", cReviewed: "yes"}),
	}
}

func qaGrid() [][]string {
	qa := func(owner, relevant, job, score string) []string {
		return sheetRow(map[int]string{cName: "n-" + owner, cOwner: owner, cRelevant: relevant, cJob: job, cQAScore: score})
	}
	return [][]string{
		qa("Owner", "Relevant", "Job", "Score"),
		qa("AB", "yes", "Go", ""),
		qa("AB", "yes", "Go", ""),
		qa("AB", "yes", "Go", ""),
		qa("CD", "no", "go", ""),
		qa("CD", "no", "Go", ""),
		qa("AB", "yes", "Go", "7"),
		qa("EF", "yes", "Rust", ""),
		qa("", "yes", "Go", ""),
		qa("A1", "yes", "Go", ""),
	}
}

type fixture struct {
	store     *fakeStore
	people    *fakeSheet
	companies *fakeSheet
	qa        *fakeSheet
	publisher *fakePublisher
	svc       *service.Service
}

func newFixture() *fixture {
	f := &fixture{
		store:  newFakeStore(),
		people: &fakeSheet{grid: peopleGrid()},
		companies: &fakeSheet{grid: [][]string{
			sheetRow(map[int]string{cName: "Company"}),
			sheetRow(map[int]string{cName: "Acme", cOldURL: "https://li/company/acme"}),
			sheetRow(map[int]string{cName: "Beta", cOldURL: "https://li/company/beta", cReviewed: "yes"}),
		}},
		qa:        &fakeSheet{grid: qaGrid()},
		publisher: &fakePublisher{},
	}
	f.svc = service.New(
		service.WithStore(f.store),
		service.WithSheets(f.people, f.companies, f.qa),
		service.WithPublisher(f.publisher),
		service.WithRandom(sampling.Seeded(42)),
		service.WithClock(func() time.Time { return today }),
	)
	return f
}

func TestLinks(t *testing.T) {
	ctx := context.Background()

	Convey("Given a people sheet and a registered sourcer", t, func() {
		f := newFixture()

		Convey("When the mode is unknown", func() {
			_, err := f.svc.Links(ctx, model.LinksQuery{Name: "Cid", Owner: "AB", Mode: "robots"})
			So(errors.Is(err, types.ErrInvalidMode), ShouldBeTrue)
		})

		Convey("When looking up an unclaimed candidate", func() {
			res, err := f.svc.Links(ctx, model.LinksQuery{Name: "Cid", Owner: " AB ", Mode: "people"})

			Convey("Then the neighbouring marked rows are returned", func() {
				So(err, ShouldBeNil)
				So(res.Back, ShouldEqual, "url-ann")
				So(res.Next, ShouldEqual, "url-dan")
				So(res.Alert, ShouldBeEmpty)
			})

			Convey("And only the sourcer's rules come back enriched", func() {
				So(res.Rules, ShouldHaveLength, 1)
				So(res.Rules[0].Title, ShouldEqual, "Go")
				So(res.Rules[0].SkillsRegex, ShouldNotBeEmpty)
				So(res.Skills, ShouldContainSubstring, `(\.net\b)`)
			})

			Convey("And today's empty stats are reported", func() {
				So(res.Stats, ShouldResemble, &model.Summary{})
			})
		})

		Convey("When the candidate is claimed by someone else", func() {
			res, err := f.svc.Links(ctx, model.LinksQuery{Name: "Dan", Owner: "AB", URL: "https://li/dan", Mode: "people"})

			Convey("Then links are returned with an ownership alert", func() {
				So(err, ShouldBeNil)
				So(res.Back, ShouldEqual, "url-ann")
				So(res.Next, ShouldEqual, "url-zed2")
				So(res.Alert, ShouldEqual, "This is XY's candidate, please choose another one!")
			})
		})

		Convey("When the candidate's profile URL matches several rows", func() {
			f.people.grid = append(peopleGrid(),
				sheetRow(map[int]string{cName: "Eve", cOldURL: "url-eve", cReviewed: "yes"}),
			)
			res, err := f.svc.Links(ctx, model.LinksQuery{Name: "Zed", Owner: "AB", URL: "https://li/zed", Mode: "people"})

			Convey("Then links are resolved around the last matching row", func() {
				So(err, ShouldBeNil)
				So(res.Back, ShouldEqual, "url-dan")
				So(res.Next, ShouldEqual, "url-eve")
				So(res.Alert, ShouldEqual, "This is AB's candidate, please choose another one!")
			})
		})

		Convey("When the candidate is not in the sheet", func() {
			_, err := f.svc.Links(ctx, model.LinksQuery{Name: "Nobody", Owner: "AB", Mode: "people"})
			So(errors.Is(err, writer.ErrNotFound), ShouldBeTrue)
		})

		Convey("When the sheet has a single candidate", func() {
			f.people.grid = peopleGrid()[:2]
			f.people.grid[1][cReviewed] = ""
			_, err := f.svc.Links(ctx, model.LinksQuery{Name: "Ann", Owner: "AB", Mode: "people"})
			So(errors.Is(err, navigate.ErrNoLinks), ShouldBeTrue)
		})

		Convey("When the sourcer owns no jobs", func() {
			res, err := f.svc.Links(ctx, model.LinksQuery{Name: "Cid", Owner: "ZZ", Mode: "people"})
			So(err, ShouldBeNil)
			So(res.Alert, ShouldEqual, service.AlertNoProjects)
			So(res.Rules, ShouldBeEmpty)
		})

		Convey("When the owner has jobs but no account", func() {
			f.store.jobs[0].Owners = append(f.store.jobs[0].Owners, "GH")
			res, err := f.svc.Links(ctx, model.LinksQuery{Name: "Cid", Owner: "GH", Mode: "people"})
			So(err, ShouldBeNil)
			So(res.Alert, ShouldEqual, service.AlertNotRegistered)
		})

		Convey("When a sourcer without the company permission browses companies", func() {
			res, err := f.svc.Links(ctx, model.LinksQuery{Name: "Acme", Owner: "AB", Mode: "company"})
			So(err, ShouldBeNil)
			So(res.Alert, ShouldEqual, service.AlertNoCompanyScraper)
		})

		Convey("When a company scraper browses companies", func() {
			res, err := f.svc.Links(ctx, model.LinksQuery{Name: "Acme", Owner: "CD", Mode: "company"})
			So(err, ShouldBeNil)
			So(res.Next, ShouldEqual, "https://li/company/beta")
		})

		Convey("When the sheet cannot be read", func() {
			f.people.readErr = errors.New("503")
			_, err := f.svc.Links(ctx, model.LinksQuery{Name: "Cid", Owner: "AB", Mode: "people"})
			So(errors.Is(err, service.ErrTable), ShouldBeTrue)
		})
	})
}

func TestWriteCandidate(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		f := newFixture()
		So(f.svc.Start(ctx), ShouldBeNil)
		defer f.svc.Stop()

		Convey("When a sourcer submits an unclaimed people candidate", func() {
			res, err := f.svc.WriteCandidate(ctx, model.SourcedCandidate{
				Mode: "people", Name: "Cid", Owner: "AB ", URL: "https://li/cid",
				Relevant: "yes", SourcingJob: "Go", Skills: "Go, SQL",
			})

			Convey("Then the row is written with the trimmed owner", func() {
				So(err, ShouldBeNil)
				So(f.people.rows(), ShouldResemble, []int{4})
				So(f.people.writes[0].Cells[1], ShouldResemble, model.Set("AB"))
				So(res.Message, ShouldEqual, "The data for the candidate with the name Cid has been added on the row(s): 4")
			})

			Convey("And the sourcer's stats count the candidate", func() {
				So(res.Stats, ShouldResemble, &model.Summary{Total: 1, Relevant: 1})
				So(f.store.days[1].URLs, ShouldResemble, []string{"https://li/cid"})
			})

			Convey("And a sourced event is relayed", func() {
				f.svc.Stop()
				events := f.publisher.published()
				So(events, ShouldHaveLength, 1)
				So(events[0].Kind, ShouldEqual, model.EventCandidateSourced)
				So(events[0].Rows, ShouldResemble, []int{4})
				So(events[0].ID, ShouldNotBeEmpty)
			})
		})

		Convey("When a candidate has duplicate rows", func() {
			res, err := f.svc.WriteCandidate(ctx, model.SourcedCandidate{
				Mode: "people", Name: "Zed", Owner: "AB", URL: "https://li/zed", Relevant: "no", SourcingJob: "Go",
			})

			Convey("Then every duplicate is written", func() {
				So(err, ShouldBeNil)
				So(res.Rows, ShouldResemble, []int{6, 7})
				So(res.Message, ShouldEndWith, "row(s): 6,7")
			})
		})

		Convey("When a duplicate row fails to write", func() {
			f.people.failRow = 7
			res, err := f.svc.WriteCandidate(ctx, model.SourcedCandidate{
				Mode: "people", Name: "Zed", Owner: "AB", URL: "https://li/zed", Relevant: "no", SourcingJob: "Go",
			})

			Convey("Then the write stops and reports what was written", func() {
				So(errors.Is(err, writer.ErrWriteFailed), ShouldBeTrue)
				So(res.Rows, ShouldResemble, []int{6})
				So(f.store.days, ShouldBeEmpty)
			})
		})

		Convey("When the candidate cannot be found", func() {
			_, err := f.svc.WriteCandidate(ctx, model.SourcedCandidate{Mode: "people", Name: "Nobody", Owner: "AB"})
			So(errors.Is(err, writer.ErrNotFound), ShouldBeTrue)
			So(f.people.rows(), ShouldBeEmpty)
		})

		Convey("When a company is submitted", func() {
			res, err := f.svc.WriteCandidate(ctx, model.SourcedCandidate{
				Mode: "company", Name: "Acme", Owner: "CD", URL: "https://li/company/acme", Industry: "Software",
			})

			Convey("Then the company row is written without stats", func() {
				So(err, ShouldBeNil)
				So(f.companies.rows(), ShouldResemble, []int{2})
				So(res.Stats, ShouldBeNil)
			})
		})

		Convey("When the mode is unknown", func() {
			_, err := f.svc.WriteCandidate(ctx, model.SourcedCandidate{Mode: "", Name: "Cid"})
			So(errors.Is(err, types.ErrInvalidMode), ShouldBeTrue)
		})
	})
}

func TestQAPath(t *testing.T) {
	ctx := context.Background()

	Convey("Given a QA sheet and an admin reviewer", t, func() {
		f := newFixture()
		query := model.QAPathQuery{QAOwner: "QA", Job: "Go", Count: "2"}

		Convey("When sampling two candidates per owner", func() {
			res, err := f.svc.QAPath(ctx, query)

			Convey("Then each owner contributes at most two unreviewed rows in sheet order", func() {
				So(err, ShouldBeNil)
				So(res.Path, ShouldHaveLength, 4)
				owners := map[string]int{}
				last := 0
				for _, c := range res.Path {
					owners[string(c.Owner)]++
					So(c.Index, ShouldBeGreaterThan, last)
					So(c.Index, ShouldBeLessThanOrEqualTo, 6)
					last = c.Index
				}
				So(owners, ShouldResemble, map[string]int{"AB": 2, "CD": 2})
			})

			Convey("And the admin sees every rule", func() {
				So(res.Rules, ShouldHaveLength, 2)
			})
		})

		Convey("When filtering by relevance", func() {
			query.Relevance = "unrelevant"
			res, err := f.svc.QAPath(ctx, query)
			So(err, ShouldBeNil)
			So(res.Path, ShouldHaveLength, 2)
			So(string(res.Path[0].Owner), ShouldEqual, "CD")
		})

		Convey("When nothing matches", func() {
			query.Job = "Python"
			_, err := f.svc.QAPath(ctx, query)
			So(errors.Is(err, selection.ErrNoCandidates), ShouldBeTrue)
		})

		Convey("When the filter is malformed", func() {
			query.Count = "many"
			_, err := f.svc.QAPath(ctx, query)
			So(errors.Is(err, selection.ErrInvalidFilter), ShouldBeTrue)
		})

		Convey("When the reviewer is not an admin", func() {
			query.QAOwner = "AB"
			_, err := f.svc.QAPath(ctx, query)
			So(errors.Is(err, types.ErrNotAllowed), ShouldBeTrue)
		})
	})
}

func TestQAUpdate(t *testing.T) {
	ctx := context.Background()

	Convey("Given a reviewer correction", t, func() {
		f := newFixture()
		u := model.QAUpdate{
			CandidateIndex: "5",
			NewData: model.QAEdit{
				Name: "Ann", Owner: " AB", Relevant: "yes", URL: "https://li/ann-new",
				Experience: "3.5", Skills: "Go, SQL", SourcingJob: "Go",
			},
			UnchangedData: model.CandidateRecord{
				Index: 5, Name: "Ann", Owner: "AB", Relevant: "no",
				ProfileURLOld: "https://li/ann-old", ProfileURLNew: "https://li/ann",
			},
			QAOwner:   "QA",
			QAScore:   "8",
			QAComment: "fixed relevance",
		}

		Convey("When it is submitted", func() {
			msg, err := f.svc.QAUpdate(ctx, u)

			Convey("Then the QA row is rewritten with the score and comment", func() {
				So(err, ShouldBeNil)
				So(msg, ShouldEqual, "The data for the candidate with the name Ann has been added on the row: 5")
				So(f.qa.rows(), ShouldResemble, []int{5})
				cells := f.qa.writes[0].Cells
				So(cells[1], ShouldResemble, model.Set("AB"))
				So(cells[20], ShouldResemble, model.Set("8"))
				So(cells[21], ShouldResemble, model.Set("fixed relevance"))
			})

			Convey("And a review with both snapshots is stored", func() {
				So(f.store.reviews, ShouldHaveLength, 1)
				rv := f.store.reviews[0]
				So(rv.Date, ShouldEqual, model.Day(today))
				So(rv.Before.Relevant, ShouldEqual, "no")
				So(rv.After.Relevant, ShouldEqual, "yes")
				So(rv.After.Seniority, ShouldEqual, "Medior")
			})

			Convey("And the reviewer's day counts the stored profile", func() {
				So(f.store.reviewed, ShouldResemble, []reviewed{{UserID: 2, URL: "https://li/ann"}})
			})
		})

		Convey("When the index is not a data row", func() {
			u.CandidateIndex = "1"
			_, err := f.svc.QAUpdate(ctx, u)
			So(errors.Is(err, service.ErrInvalidIndex), ShouldBeTrue)
			So(f.qa.rows(), ShouldBeEmpty)
		})

		Convey("When the reviewer has no account", func() {
			u.QAOwner = "ZZ"
			_, err := f.svc.QAUpdate(ctx, u)
			So(errors.Is(err, types.ErrUnknownUser), ShouldBeTrue)
		})

		Convey("When the sheet rejects the write", func() {
			f.qa.failRow = 5
			_, err := f.svc.QAUpdate(ctx, u)
			So(errors.Is(err, service.ErrTable), ShouldBeTrue)
			So(f.store.reviews, ShouldBeEmpty)
		})
	})
}

func TestLifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		f := newFixture()

		Convey("Then it reports not started", func() {
			So(f.svc.Stats()["started"], ShouldBeFalse)
		})

		Convey("When started twice and stopped twice", func() {
			So(f.svc.Start(context.Background()), ShouldBeNil)
			So(f.svc.Start(context.Background()), ShouldBeNil)
			So(f.svc.Stats()["started"], ShouldBeTrue)
			So(f.svc.Stats()["queue_length"], ShouldEqual, 0)
			f.svc.Stop()
			f.svc.Stop()

			So(f.svc.Stats()["started"], ShouldBeFalse)
		})
	})

	Convey("Given a service with several relays", t, func() {
		pub := &fakePublisher{}
		svc := service.New(
			service.WithStore(newFakeStore()),
			service.WithPublisher(pub),
			service.WithRelayCount(3),
			service.WithPublishRetries(0),
			service.WithClock(func() time.Time { return today }),
		)

		Convey("Then the relay settings are reported", func() {
			So(svc.Stats()["relays"], ShouldEqual, 3)
			So(svc.Stats()["retries"], ShouldEqual, 0)
		})

		Convey("When it is started and stopped", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			svc.Stop()
			So(svc.Stats()["started"], ShouldBeFalse)
			So(pub.published(), ShouldBeEmpty)
		})
	})
}
