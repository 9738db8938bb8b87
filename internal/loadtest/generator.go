package loadtest

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/pkg/logger"
)

var skillPool = []string{"Go", "Kubernetes", "PostgreSQL", "gRPC", "Kafka", "Terraform", "React", ".Net"}

// randomInt returns a uniform value in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// generateCandidates creates n people submissions with unique names and
// profile URLs.
func generateCandidates(ctx context.Context, config *Config, stats *Stats) []model.SourcedCandidate {
	logger.Get().Info(ctx, "generating candidates", logger.Int("candidates", config.Candidates))

	out := make([]model.SourcedCandidate, config.Candidates)
	for i := range out {
		out[i] = generateSingleCandidate(config)
	}
	stats.Generated = len(out)
	return out
}

// generateSingleCandidate creates one people submission.
func generateSingleCandidate(config *Config) model.SourcedCandidate {
	id := uuid.NewString()[:8]
	relevant := "no"
	if randomInt(3) > 0 {
		relevant = "yes"
	}
	skills := make([]string, 0, 3)
	for _, i := range []int{randomInt(len(skillPool)), randomInt(len(skillPool))} {
		skills = append(skills, skillPool[i])
	}
	return model.SourcedCandidate{
		Mode:            "people",
		Name:            model.Text("Candidate " + id),
		Owner:           model.Text(config.Owner),
		URL:             model.Text("https://www.linkedin.com/in/candidate-" + id),
		Status:          "Sourced",
		Relevant:        model.Text(relevant),
		Connections:     model.Text(fmt.Sprint(50 + randomInt(450))),
		CurrentPosition: "Software Engineer",
		University:      model.University{University: "TU Delft", GraduationYear: model.Text(fmt.Sprint(2005 + randomInt(18)))},
		CurrentCompany:  "Acme",
		YearInCurrent:   model.Text(fmt.Sprint(1 + randomInt(6))),
		Experience:      model.Text(fmt.Sprint(1 + randomInt(12))),
		CurrentType:     "Full-time",
		Skills:          model.Skills(strings.Join(skills, ", ")),
		SourcingJob:     model.Text(config.Job),
	}
}

// SeedWorkbooks writes a sourcing workbook holding the candidates unclaimed
// and a QA workbook holding them as owned, unreviewed rows of the job.
func SeedWorkbooks(ctx context.Context, config *Config, candidates []model.SourcedCandidate) error {
	sourcing := excelize.NewFile()
	defer func() { _ = sourcing.Close() }()
	if err := sourcing.SetSheetName("Sheet1", config.PeopleSheet); err != nil {
		return fmt.Errorf("rename people sheet: %w", err)
	}
	if _, err := sourcing.NewSheet(config.CompanySheet); err != nil {
		return fmt.Errorf("create company sheet: %w", err)
	}
	for col, title := range map[int]string{colName: "Name", colOwner: "Owner", colURLOld: "Profile", colURLNew: "Profile (new)"} {
		if err := setCell(sourcing, config.PeopleSheet, col, 1, title); err != nil {
			return err
		}
	}

	qa := excelize.NewFile()
	defer func() { _ = qa.Close() }()
	if err := qa.SetSheetName("Sheet1", config.QASheet); err != nil {
		return fmt.Errorf("rename qa sheet: %w", err)
	}
	for col, title := range map[int]string{colName: "Name", colOwner: "Owner", colRelevant: "Relevant", colSourcing: "Job"} {
		if err := setCell(qa, config.QASheet, col, 1, title); err != nil {
			return err
		}
	}

	for i, c := range candidates {
		row := i + 2
		for col, v := range map[int]string{
			colName:   string(c.Name),
			colURLOld: string(c.URL),
			colURLNew: string(c.URL),
		} {
			if err := setCell(sourcing, config.PeopleSheet, col, row, v); err != nil {
				return err
			}
		}
		for col, v := range map[int]string{
			colName:     string(c.Name),
			colOwner:    config.Owner,
			colRelevant: string(c.Relevant),
			colURLOld:   string(c.URL),
			colURLNew:   string(c.URL),
			colSourcing: config.Job,
		} {
			if err := setCell(qa, config.QASheet, col, row, v); err != nil {
				return err
			}
		}
	}

	if err := saveAs(sourcing, config.SourcingXLSX); err != nil {
		return err
	}
	if err := saveAs(qa, config.QAXLSX); err != nil {
		return err
	}
	logger.Get().Info(ctx, "seeded workbooks",
		logger.String("sourcing", config.SourcingXLSX),
		logger.String("qa", config.QAXLSX),
		logger.Int("rows", len(candidates)))
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v string) error {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell %d,%d: %w", col, row, err)
	}
	if err := f.SetCellValue(sheet, ref, v); err != nil {
		return fmt.Errorf("set %s!%s: %w", sheet, ref, err)
	}
	return nil
}

func saveAs(f *excelize.File, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, workbookPerms); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
