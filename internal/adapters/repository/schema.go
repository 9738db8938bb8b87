package repository

import (
	"time"

	"github.com/okian/sourceqa/internal/domain/model"
)

type userRow struct {
	ID             uint   `gorm:"primaryKey"`
	Email          string `gorm:"size:191;uniqueIndex"`
	Name           string `gorm:"size:191"`
	Role           string `gorm:"size:32;index"`
	CompanyScraper bool
	CreatedAt      time.Time
}

func (userRow) TableName() string { return "ext_users" }

type jobRow struct {
	ID             uint   `gorm:"primaryKey"`
	Title          string `gorm:"size:191;uniqueIndex"`
	MinConnections int
	Universities   []string      `gorm:"serializer:json;type:text"`
	RelevantRoles  []string      `gorm:"serializer:json;type:text"`
	Skills         []string      `gorm:"serializer:json;type:text"`
	GradYear       string        `gorm:"size:32"`
	Experience     string        `gorm:"size:32"`
	RelevantDoc    string        `gorm:"type:text"`
	Owners         []jobOwnerRow `gorm:"foreignKey:JobID"`
	CreatedAt      time.Time
}

func (jobRow) TableName() string { return "jobs" }

type jobOwnerRow struct {
	ID    uint   `gorm:"primaryKey"`
	JobID uint   `gorm:"index"`
	Owner string `gorm:"size:32;index"`
}

func (jobOwnerRow) TableName() string { return "job_owners" }

type skillRow struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:191;uniqueIndex"`
}

func (skillRow) TableName() string { return "all_skills" }

type dailyStatRow struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"uniqueIndex:idx_daily_user_date"`
	Date         time.Time `gorm:"uniqueIndex:idx_daily_user_date"`
	TotalSourced int
	Stats        []sourcedStatRow      `gorm:"foreignKey:DailyStatID"`
	Candidates   []sourcedCandidateRow `gorm:"foreignKey:DailyStatID"`
}

func (dailyStatRow) TableName() string { return "daily_stats" }

type sourcedStatRow struct {
	ID          uint   `gorm:"primaryKey"`
	DailyStatID uint   `gorm:"index"`
	Job         string `gorm:"size:191"`
	Relevant    int
	Unrelevant  int
}

func (sourcedStatRow) TableName() string { return "sourced_stats" }

type sourcedCandidateRow struct {
	ID           uint   `gorm:"primaryKey"`
	DailyStatID  uint   `gorm:"index"`
	CandidateURL string `gorm:"size:512"`
}

func (sourcedCandidateRow) TableName() string { return "sourced_candidates" }

type dailyQAStatRow struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"uniqueIndex:idx_daily_qa_user_date"`
	Date          time.Time `gorm:"uniqueIndex:idx_daily_qa_user_date"`
	TotalReviewed int
	Candidates    []reviewedCandidateRow `gorm:"foreignKey:DailyQAStatID"`
}

func (dailyQAStatRow) TableName() string { return "daily_qa_stats" }

type reviewedCandidateRow struct {
	ID            uint   `gorm:"primaryKey"`
	DailyQAStatID uint   `gorm:"index"`
	CandidateURL  string `gorm:"size:512"`
}

func (reviewedCandidateRow) TableName() string { return "reviewed_candidates" }

type reviewRow struct {
	ID         uint                 `gorm:"primaryKey"`
	QAOwnerID  uint                 `gorm:"index"`
	Comment    string               `gorm:"type:text"`
	Score      string               `gorm:"size:32"`
	Date       time.Time            `gorm:"index"`
	Candidates []reviewCandidateRow `gorm:"foreignKey:ReviewID"`
}

func (reviewRow) TableName() string { return "reviews" }

type reviewCandidateRow struct {
	ID              uint   `gorm:"primaryKey"`
	ReviewID        uint   `gorm:"index"`
	DataType        string `gorm:"size:8"`
	RowNum          int
	Name            string `gorm:"size:191"`
	Owner           string `gorm:"size:32"`
	Status          string `gorm:"size:191"`
	Transferred     string `gorm:"size:191"`
	Relevant        string `gorm:"size:8"`
	ProfileURLOld   string `gorm:"column:li_profile_old;size:512"`
	ProfileURLNew   string `gorm:"column:li_profile_new;size:512;index"`
	Connections     string `gorm:"size:32"`
	CurrentRole     string `gorm:"size:191"`
	Country         string `gorm:"size:191"`
	University      string `gorm:"size:191"`
	GradYear        string `gorm:"size:32"`
	CurrentCompany  string `gorm:"size:191"`
	YearsInCompany  string `gorm:"size:32"`
	TotalExperience string `gorm:"size:32"`
	Seniority       string `gorm:"size:32"`
	JobType         string `gorm:"size:191"`
	Skills          string `gorm:"type:text"`
	ReachoutTopic   string `gorm:"type:text"`
	ReachoutComment string `gorm:"type:text"`
	QAScore         string `gorm:"size:32"`
	QAComment       string `gorm:"type:text"`
}

func (reviewCandidateRow) TableName() string { return "review_candidates" }

func tables() []any {
	return []any{
		&userRow{}, &jobRow{}, &jobOwnerRow{}, &skillRow{},
		&dailyStatRow{}, &sourcedStatRow{}, &sourcedCandidateRow{},
		&dailyQAStatRow{}, &reviewedCandidateRow{},
		&reviewRow{}, &reviewCandidateRow{},
	}
}

func (r userRow) toModel() model.User {
	return model.User{
		ID:             r.ID,
		Email:          r.Email,
		Name:           r.Name,
		Role:           r.Role,
		CompanyScraper: r.CompanyScraper,
	}
}

func (r jobRow) toModel() model.JobRule {
	owners := make([]string, 0, len(r.Owners))
	for _, o := range r.Owners {
		owners = append(owners, o.Owner)
	}
	return model.JobRule{
		ID:             r.ID,
		Title:          r.Title,
		Owners:         owners,
		MinConnections: r.MinConnections,
		Universities:   r.Universities,
		RelevantRoles:  r.RelevantRoles,
		Skills:         r.Skills,
		GradYear:       r.GradYear,
		Experience:     r.Experience,
		RelevantDoc:    r.RelevantDoc,
	}
}

func (r dailyStatRow) toModel() model.DailyStat {
	d := model.DailyStat{
		ID:           r.ID,
		UserID:       r.UserID,
		Date:         r.Date,
		TotalSourced: r.TotalSourced,
		Jobs:         make([]model.JobStat, 0, len(r.Stats)),
		URLs:         make([]string, 0, len(r.Candidates)),
	}
	for _, s := range r.Stats {
		d.Jobs = append(d.Jobs, model.JobStat{Job: s.Job, Relevant: s.Relevant, Unrelevant: s.Unrelevant})
	}
	for _, c := range r.Candidates {
		d.URLs = append(d.URLs, c.CandidateURL)
	}
	return d
}

func snapshotRow(s model.Snapshot) reviewCandidateRow {
	return reviewCandidateRow{
		DataType:        s.Kind,
		RowNum:          s.RowNum,
		Name:            s.Name,
		Owner:           s.Owner,
		Status:          s.Status,
		Transferred:     s.Transferred,
		Relevant:        s.Relevant,
		ProfileURLOld:   s.ProfileURLOld,
		ProfileURLNew:   s.ProfileURLNew,
		Connections:     s.Connections,
		CurrentRole:     s.CurrentRole,
		Country:         s.Country,
		University:      s.University,
		GradYear:        s.GradYear,
		CurrentCompany:  s.CurrentCompany,
		YearsInCompany:  s.YearsInCompany,
		TotalExperience: s.TotalExperience,
		Seniority:       s.Seniority,
		JobType:         s.JobType,
		Skills:          s.Skills,
		ReachoutTopic:   s.ReachoutTopic,
		ReachoutComment: s.ReachoutComment,
		QAScore:         s.QAScore,
		QAComment:       s.QAComment,
	}
}

func (r reviewCandidateRow) toModel() model.Snapshot {
	return model.Snapshot{
		Kind:            r.DataType,
		RowNum:          r.RowNum,
		Name:            r.Name,
		Owner:           r.Owner,
		Status:          r.Status,
		Transferred:     r.Transferred,
		Relevant:        r.Relevant,
		ProfileURLOld:   r.ProfileURLOld,
		ProfileURLNew:   r.ProfileURLNew,
		Connections:     r.Connections,
		CurrentRole:     r.CurrentRole,
		Country:         r.Country,
		University:      r.University,
		GradYear:        r.GradYear,
		CurrentCompany:  r.CurrentCompany,
		YearsInCompany:  r.YearsInCompany,
		TotalExperience: r.TotalExperience,
		Seniority:       r.Seniority,
		JobType:         r.JobType,
		Skills:          r.Skills,
		ReachoutTopic:   r.ReachoutTopic,
		ReachoutComment: r.ReachoutComment,
		QAScore:         r.QAScore,
		QAComment:       r.QAComment,
	}
}

func (r reviewRow) toModel(qaOwner string) model.Review {
	rv := model.Review{
		ID:      r.ID,
		QAOwner: qaOwner,
		Comment: r.Comment,
		Score:   r.Score,
		Date:    r.Date,
	}
	for _, c := range r.Candidates {
		switch c.DataType {
		case model.SnapshotOld:
			rv.Before = c.toModel()
		case model.SnapshotNew:
			rv.After = c.toModel()
		}
	}
	return rv
}
