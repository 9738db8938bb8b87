package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Text is a string cell value that also accepts JSON numbers and booleans,
// since the extensions send scraped values without a stable type.
type Text string

// UnmarshalJSON decodes strings, numbers, booleans and null into Text.
func (t *Text) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*t = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		*t = Text(strconv.FormatFloat(x, 'f', -1, 64))
	case bool:
		*t = Text(strconv.FormatBool(x))
	default:
		*t = Text(raw)
	}
	return nil
}

// String returns the plain value.
func (t Text) String() string { return string(t) }

// Skills is a comma-joined skill list. It decodes either a string or an
// array of strings, joining arrays with ", ".
type Skills string

// UnmarshalJSON decodes a string or a string array into Skills.
func (s *Skills) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var list []Text
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		parts := make([]string, len(list))
		for i, v := range list {
			parts[i] = string(v)
		}
		*s = Skills(strings.Join(parts, ", "))
		return nil
	}
	var t Text
	if err := t.UnmarshalJSON(b); err != nil {
		return err
	}
	*s = Skills(t)
	return nil
}

// CandidateRecord is the named-field transport form of a QA row.
type CandidateRecord struct {
	Index           int    `json:"index"`
	Name            Text   `json:"name"`
	Owner           Text   `json:"owner"`
	Status          Text   `json:"status"`
	Transferred     Text   `json:"transfered"`
	Relevant        Text   `json:"relevant"`
	ProfileURLOld   Text   `json:"LIprofileOld"`
	ProfileURLNew   Text   `json:"LIprofileNew"`
	Connections     Text   `json:"connections"`
	CurrentRole     Text   `json:"currentRole"`
	Country         Text   `json:"country"`
	University      Text   `json:"university"`
	GradYear        Text   `json:"yearOfGrad"`
	CurrentCompany  Text   `json:"currentCompany"`
	YearsInCompany  Text   `json:"yrsInCurrentComp"`
	TotalExperience Text   `json:"totalExp"`
	Seniority       Text   `json:"seniority"`
	JobType         Text   `json:"jobType"`
	Skills          Skills `json:"skills"`
	ReachoutTopic   Text   `json:"reachoutTopic"`
	ReachoutComment Text   `json:"reachoutComment"`
	QAScore         Text   `json:"qaScore"`
	QAComment       Text   `json:"qaComment"`
}

// RecordFromRow converts a parsed row into its transport form.
func RecordFromRow(r Row) CandidateRecord {
	return CandidateRecord{
		Index:           r.Number,
		Name:            Text(r.Name),
		Owner:           Text(r.Owner),
		Status:          Text(r.Status),
		Transferred:     Text(r.Transferred),
		Relevant:        Text(r.Relevant),
		ProfileURLOld:   Text(r.ProfileURLOld),
		ProfileURLNew:   Text(r.ProfileURLNew),
		Connections:     Text(r.Connections),
		CurrentRole:     Text(r.CurrentRole),
		Country:         Text(r.Country),
		University:      Text(r.University),
		GradYear:        Text(r.GradYear),
		CurrentCompany:  Text(r.CurrentCompany),
		YearsInCompany:  Text(r.YearsInCompany),
		TotalExperience: Text(r.TotalExperience),
		Seniority:       Text(r.Seniority),
		JobType:         Text(r.JobType),
		Skills:          Skills(r.Skills),
		ReachoutTopic:   Text(r.ReachoutTopic),
		ReachoutComment: Text(r.ReachoutComment),
		QAScore:         Text(r.QAScore),
		QAComment:       Text(r.QAComment),
	}
}

// ProfileURL returns the new profile URL, falling back to the old one.
func (c CandidateRecord) ProfileURL() string {
	if c.ProfileURLNew != "" {
		return string(c.ProfileURLNew)
	}
	return string(c.ProfileURLOld)
}
