// Package review turns a QA correction into before/after snapshots.
package review

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/okian/sourceqa/internal/domain/model"
)

// Seniority levels derived from total experience in years.
const (
	Junior = "Junior"
	Medior = "Medior"
	Senior = "Senior"
)

var leadingNumber = regexp.MustCompile(`^\s*[-+]?(\d+(\.\d*)?|\.\d+)`)

// Seniority maps years of experience to a level: below 2 is Junior, below 5
// is Medior, anything else Senior. Only the leading number of experience is
// read, so "3.5 yrs" is Medior. It returns "" when there is no number.
func Seniority(experience string) string {
	m := leadingNumber.FindString(experience)
	if m == "" {
		return ""
	}
	years, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil {
		return ""
	}
	switch {
	case years < 2:
		return Junior
	case years < 5:
		return Medior
	default:
		return Senior
	}
}

// Before snapshots the row as the reviewer received it.
func Before(old model.CandidateRecord) model.Snapshot {
	return model.Snapshot{
		Kind:            model.SnapshotOld,
		RowNum:          old.Index,
		Name:            string(old.Name),
		Owner:           string(old.Owner),
		Status:          string(old.Status),
		Transferred:     string(old.Transferred),
		Relevant:        string(old.Relevant),
		ProfileURLOld:   string(old.ProfileURLOld),
		ProfileURLNew:   string(old.ProfileURLNew),
		Connections:     string(old.Connections),
		CurrentRole:     string(old.CurrentRole),
		Country:         string(old.Country),
		University:      string(old.University),
		GradYear:        string(old.GradYear),
		CurrentCompany:  string(old.CurrentCompany),
		YearsInCompany:  string(old.YearsInCompany),
		TotalExperience: string(old.TotalExperience),
		Seniority:       Seniority(string(old.TotalExperience)),
		JobType:         string(old.JobType),
		Skills:          string(old.Skills),
		ReachoutTopic:   string(old.ReachoutTopic),
		ReachoutComment: string(old.ReachoutComment),
		QAScore:         string(old.QAScore),
		QAComment:       string(old.QAComment),
	}
}

// After snapshots the corrected row. Fields the reviewer cannot edit are
// carried over from old.
func After(u model.QAUpdate) model.Snapshot {
	old, d := u.UnchangedData, u.NewData
	urlNew := string(d.URL)
	if urlNew == "" {
		urlNew = string(old.ProfileURLNew)
	}
	return model.Snapshot{
		Kind:            model.SnapshotNew,
		RowNum:          old.Index,
		Name:            string(d.Name),
		Owner:           string(d.Owner),
		Status:          string(d.Status),
		Transferred:     string(old.Transferred),
		Relevant:        string(d.Relevant),
		ProfileURLOld:   string(old.ProfileURLOld),
		ProfileURLNew:   urlNew,
		Connections:     string(d.Connections),
		CurrentRole:     string(d.CurrentPosition),
		Country:         string(old.Country),
		University:      string(d.University),
		GradYear:        string(d.GradYear),
		CurrentCompany:  string(d.CurrentCompany),
		YearsInCompany:  string(d.YearInCurrent),
		TotalExperience: string(d.Experience),
		Seniority:       Seniority(string(d.Experience)),
		JobType:         string(d.CurrentType),
		Skills:          string(d.Skills),
		ReachoutTopic:   string(d.ReachoutTopic),
		ReachoutComment: string(d.ReachoutComment),
		QAScore:         string(u.QAScore),
		QAComment:       string(u.QAComment),
	}
}

// FromUpdate builds the review record of a QA submission made at now.
func FromUpdate(u model.QAUpdate, now time.Time) model.Review {
	return model.Review{
		QAOwner: string(u.QAOwner),
		Comment: string(u.QAComment),
		Score:   string(u.QAScore),
		Date:    model.Day(now),
		Before:  Before(u.UnchangedData),
		After:   After(u),
	}
}
