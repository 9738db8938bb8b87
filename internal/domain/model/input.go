package model

import "strings"

// Identity locates a candidate in a sourcing sheet.
type Identity struct {
	Name string
	// URL is the caller's profile URL, possibly query-string encoded.
	URL string
}

// University is the scraped education block of a people profile.
type University struct {
	University     Text `json:"university"`
	GraduationYear Text `json:"graduationYear"`
}

// SourcedCandidate is the full field set the sourcing extension submits.
// People and company fields share one payload; Mode picks the mapping.
type SourcedCandidate struct {
	Mode  string `json:"mode"`
	Name  Text   `json:"name"`
	Owner Text   `json:"owner"`
	URL   Text   `json:"url"`

	Status          Text       `json:"status"`
	Relevant        Text       `json:"relevant"`
	Connections     Text       `json:"connections"`
	CurrentPosition Text       `json:"currentPosition"`
	University      University `json:"university"`
	CurrentCompany  Text       `json:"currentCompany"`
	YearInCurrent   Text       `json:"yearInCurrent"`
	Experience      Text       `json:"experience"`
	CurrentType     Text       `json:"currentType"`
	Skills          Skills     `json:"skills"`
	ReachoutTopic   Text       `json:"reachoutTopic"`
	ReachoutComment Text       `json:"reachoutComment"`
	SourcingJob     Text       `json:"sourcingJob"`
	AllSkills       Skills     `json:"allSkills"`

	Followers      Text `json:"followers"`
	Description    Text `json:"description"`
	Website        Text `json:"website"`
	Industry       Text `json:"industry"`
	CompanySize    Text `json:"companySize"`
	TotalHeadcount Text `json:"totalHeadcount"`
	MedianTenure   Text `json:"medianTenure"`
	HQ             Text `json:"hq"`
	Specialities   Text `json:"specialities"`
	Post1Text      Text `json:"post1Text"`
	Post2Text      Text `json:"post2Text"`
	Post3Text      Text `json:"post3Text"`
	Job1Title      Text `json:"job1Title"`
	Job1URL        Text `json:"job1URL"`
	Job2Title      Text `json:"job2Title"`
	Job2URL        Text `json:"job2URL"`
	Date           Text `json:"date"`
}

// Identity returns the row lookup key of the candidate.
func (c SourcedCandidate) Identity() Identity {
	return Identity{Name: string(c.Name), URL: string(c.URL)}
}

// OwnerTrimmed is the owner as stored in the sheet.
func (c SourcedCandidate) OwnerTrimmed() string {
	return strings.TrimSpace(string(c.Owner))
}

// QAEdit is the corrected candidate data a QA reviewer submits.
type QAEdit struct {
	Name            Text   `json:"name"`
	Owner           Text   `json:"owner"`
	Status          Text   `json:"status"`
	Relevant        Text   `json:"relevant"`
	URL             Text   `json:"url"`
	Connections     Text   `json:"connections"`
	CurrentPosition Text   `json:"currentPosition"`
	University      Text   `json:"university"`
	GradYear        Text   `json:"gradYear"`
	CurrentCompany  Text   `json:"currentCompany"`
	YearInCurrent   Text   `json:"yearInCurrent"`
	Experience      Text   `json:"experience"`
	CurrentType     Text   `json:"currentType"`
	Skills          Skills `json:"skills"`
	ReachoutTopic   Text   `json:"reachoutTopic"`
	ReachoutComment Text   `json:"reachoutComment"`
	SourcingJob     Text   `json:"sourcingJob"`
}

// QAUpdate is one QA reviewer submission for a single QA sheet row.
type QAUpdate struct {
	CandidateIndex Text            `json:"candidateIndex"`
	NewData        QAEdit          `json:"candidateNewData"`
	UnchangedData  CandidateRecord `json:"candidateUnchangedData"`
	QAOwner        Text            `json:"qaOwner"`
	QAScore        Text            `json:"qaScore"`
	QAComment      Text            `json:"qaComment"`
}
