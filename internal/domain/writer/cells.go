package writer

import (
	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/internal/domain/types"
)

func set(t model.Text) model.Cell { return model.Set(string(t)) }

// PeopleCells maps a sourced profile onto the people sheet, columns A..Y.
// Columns the extension does not own are kept.
func PeopleCells(c model.SourcedCandidate) []model.Cell {
	return []model.Cell{
		set(c.Name),                      // A name
		model.Set(c.OwnerTrimmed()),      // B owner
		set(c.Status),                    // C status
		model.Keep(),                     // D transferred
		set(c.Relevant),                  // E relevant
		model.Keep(),                     // F profile old
		set(c.URL),                       // G profile new
		set(c.Connections),               // H
		set(c.CurrentPosition),           // I
		model.Keep(),                     // J country
		set(c.University.University),     // K
		set(c.University.GraduationYear), // L
		set(c.CurrentCompany),            // M
		set(c.YearInCurrent),             // N
		set(c.Experience),                // O
		model.Keep(),                     // P seniority
		set(c.CurrentType),               // Q
		model.Set(string(c.Skills)),      // R
		set(c.ReachoutTopic),             // S
		set(c.ReachoutComment),           // T
		model.Keep(),                     // U qa score
		model.Keep(),                     // V qa comment
		model.Keep(),                     // W
		set(c.SourcingJob),               // X
		model.Set(string(c.AllSkills)),   // Y
	}
}

// CompanyCells maps a sourced company page onto the company sheet, columns
// A..T. The company URL in F is the row identity and is kept.
func CompanyCells(c model.SourcedCandidate) []model.Cell {
	return []model.Cell{
		set(c.Name),
		model.Set(c.OwnerTrimmed()),
		set(c.Followers),
		set(c.Description),
		set(c.Website),
		model.Keep(),
		set(c.Industry),
		set(c.CompanySize),
		set(c.TotalHeadcount),
		set(c.MedianTenure),
		set(c.HQ),
		set(c.Specialities),
		set(c.Post1Text),
		set(c.Post2Text),
		set(c.Post3Text),
		set(c.Job1Title),
		set(c.Job1URL),
		set(c.Job2Title),
		set(c.Job2URL),
		set(c.Date),
	}
}

// CellsFor picks the mapping of mode.
func CellsFor(mode types.Mode, c model.SourcedCandidate) ([]model.Cell, error) {
	switch mode {
	case types.ModePeople:
		return PeopleCells(c), nil
	case types.ModeCompany:
		return CompanyCells(c), nil
	default:
		return nil, types.ErrInvalidMode
	}
}

// QACells maps a reviewer's correction onto the QA sheet, columns A..X.
func QACells(u model.QAUpdate) []model.Cell {
	d := u.NewData
	return []model.Cell{
		set(d.Name),
		model.Set(trim(d.Owner)),
		set(d.Status),
		model.Keep(),
		set(d.Relevant),
		model.Keep(),
		set(d.URL),
		set(d.Connections),
		set(d.CurrentPosition),
		model.Keep(),
		set(d.University),
		set(d.GradYear),
		set(d.CurrentCompany),
		set(d.YearInCurrent),
		set(d.Experience),
		model.Keep(),
		set(d.CurrentType),
		model.Set(string(d.Skills)),
		set(d.ReachoutTopic),
		set(d.ReachoutComment),
		set(u.QAScore),
		set(u.QAComment),
		model.Keep(),
		set(d.SourcingJob),
	}
}
