package model

import "time"

// Snapshot kinds of a review.
const (
	SnapshotOld = "old"
	SnapshotNew = "new"
)

// Snapshot is a candidate's field set before or after a QA correction.
type Snapshot struct {
	Kind            string
	RowNum          int
	Name            string
	Owner           string
	Status          string
	Transferred     string
	Relevant        string
	ProfileURLOld   string
	ProfileURLNew   string
	Connections     string
	CurrentRole     string
	Country         string
	University      string
	GradYear        string
	CurrentCompany  string
	YearsInCompany  string
	TotalExperience string
	Seniority       string
	JobType         string
	Skills          string
	ReachoutTopic   string
	ReachoutComment string
	QAScore         string
	QAComment       string
}

// Review is a reviewer's verdict on one candidate for one day.
type Review struct {
	ID      uint
	QAOwner string
	Comment string
	Score   string
	Date    time.Time
	Before  Snapshot
	After   Snapshot
}

// ProfileURL identifies the reviewed candidate: the corrected URL when
// present, otherwise the stored one.
func (r Review) ProfileURL() string {
	switch {
	case r.After.ProfileURLNew != "":
		return r.After.ProfileURLNew
	case r.Before.ProfileURLNew != "":
		return r.Before.ProfileURLNew
	default:
		return r.Before.ProfileURLOld
	}
}
