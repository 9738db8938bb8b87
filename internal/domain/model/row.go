// Package model contains domain models passed between layers.
package model

import (
	"github.com/okian/sourceqa/internal/domain/types"
)

// Field names a semantic cell of a candidate row.
type Field int

// Semantic fields of a candidate row.
const (
	FieldName Field = iota
	FieldOwner
	FieldStatus
	FieldTransferred
	FieldRelevant
	FieldProfileURLOld
	FieldProfileURLNew
	FieldConnections
	FieldCurrentRole
	FieldCountry
	FieldUniversity
	FieldGradYear
	FieldCurrentCompany
	FieldYearsInCompany
	FieldTotalExperience
	FieldSeniority
	FieldJobType
	FieldSkills
	FieldReachoutTopic
	FieldReachoutComment
	FieldQAScore
	FieldQAComment
	FieldSourcingJob
	FieldAllSkills
	FieldReviewed
)

// Layout is the positional column contract of one sheet. Columns are
// 0-based (A = 0). Fields missing from Columns read as "".
type Layout struct {
	Mode types.Mode
	// LastColumn bounds full-range reads, e.g. "AE".
	LastColumn string
	Columns    map[Field]int
	// IdentityURL is the column compared against the caller's profile URL.
	IdentityURL int
	// LinkURL is the column returned by link navigation.
	LinkURL int
}

// Column positions shared by the people and QA sheets.
const (
	colName            = 0  // A
	colOwner           = 1  // B
	colStatus          = 2  // C
	colTransferred     = 3  // D
	colRelevant        = 4  // E
	colProfileURLOld   = 5  // F
	colProfileURLNew   = 6  // G
	colConnections     = 7  // H
	colCurrentRole     = 8  // I
	colCountry         = 9  // J
	colUniversity      = 10 // K
	colGradYear        = 11 // L
	colCurrentCompany  = 12 // M
	colYearsInCompany  = 13 // N
	colTotalExperience = 14 // O
	colSeniority       = 15 // P
	colJobType         = 16 // Q
	colSkills          = 17 // R
	colReachoutTopic   = 18 // S
	colReachoutComment = 19 // T
	colQAScore         = 20 // U
	colQAComment       = 21 // V
	colSourcingJob     = 23 // X
	colAllSkills       = 24 // Y
	colReviewed        = 25 // Z
)

// Company sheet columns that carry semantic meaning for the core.
const (
	colCompanyURL = 5 // F
)

func candidateColumns() map[Field]int {
	return map[Field]int{
		FieldName:            colName,
		FieldOwner:           colOwner,
		FieldStatus:          colStatus,
		FieldTransferred:     colTransferred,
		FieldRelevant:        colRelevant,
		FieldProfileURLOld:   colProfileURLOld,
		FieldProfileURLNew:   colProfileURLNew,
		FieldConnections:     colConnections,
		FieldCurrentRole:     colCurrentRole,
		FieldCountry:         colCountry,
		FieldUniversity:      colUniversity,
		FieldGradYear:        colGradYear,
		FieldCurrentCompany:  colCurrentCompany,
		FieldYearsInCompany:  colYearsInCompany,
		FieldTotalExperience: colTotalExperience,
		FieldSeniority:       colSeniority,
		FieldJobType:         colJobType,
		FieldSkills:          colSkills,
		FieldReachoutTopic:   colReachoutTopic,
		FieldReachoutComment: colReachoutComment,
		FieldQAScore:         colQAScore,
		FieldQAComment:       colQAComment,
		FieldSourcingJob:     colSourcingJob,
		FieldAllSkills:       colAllSkills,
		FieldReviewed:        colReviewed,
	}
}

// PeopleLayout is the sourcing "people" sheet.
func PeopleLayout() Layout {
	return Layout{
		Mode:        types.ModePeople,
		LastColumn:  "AE",
		Columns:     candidateColumns(),
		IdentityURL: colProfileURLNew,
		LinkURL:     colProfileURLOld,
	}
}

// QALayout is the QA review sheet. It shares the people columns but is read
// over a narrower range, and a row counts as reviewed once it has a QA score.
func QALayout() Layout {
	l := PeopleLayout()
	l.LastColumn = "AA"
	l.Columns[FieldReviewed] = colQAScore
	return l
}

// CompanyLayout is the sourcing "company" sheet. Only the columns the core
// reasons about are mapped; the rest are written positionally.
func CompanyLayout() Layout {
	return Layout{
		Mode:       types.ModeCompany,
		LastColumn: "AE",
		Columns: map[Field]int{
			FieldName:          colName,
			FieldOwner:         colOwner,
			FieldProfileURLOld: colCompanyURL,
			FieldReviewed:      colReviewed,
		},
		IdentityURL: colCompanyURL,
		LinkURL:     colCompanyURL,
	}
}

// LayoutFor returns the sourcing layout of a mode.
func LayoutFor(mode types.Mode) (Layout, error) {
	switch mode {
	case types.ModePeople:
		return PeopleLayout(), nil
	case types.ModeCompany:
		return CompanyLayout(), nil
	default:
		return Layout{}, types.ErrInvalidMode
	}
}

// Row is one candidate row of a sheet snapshot.
type Row struct {
	// Number is the 1-based sheet row, stable across filtering.
	Number int
	Cells  []string

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
	SourcingJob     string
	AllSkills       string
	Reviewed        string

	IdentityURL string
	LinkURL     string
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

// Parse builds a typed row from raw cells.
func (l Layout) Parse(number int, cells []string) Row {
	get := func(f Field) string {
		i, ok := l.Columns[f]
		if !ok {
			return ""
		}
		return cell(cells, i)
	}
	return Row{
		Number:          number,
		Cells:           cells,
		Name:            get(FieldName),
		Owner:           get(FieldOwner),
		Status:          get(FieldStatus),
		Transferred:     get(FieldTransferred),
		Relevant:        get(FieldRelevant),
		ProfileURLOld:   get(FieldProfileURLOld),
		ProfileURLNew:   get(FieldProfileURLNew),
		Connections:     get(FieldConnections),
		CurrentRole:     get(FieldCurrentRole),
		Country:         get(FieldCountry),
		University:      get(FieldUniversity),
		GradYear:        get(FieldGradYear),
		CurrentCompany:  get(FieldCurrentCompany),
		YearsInCompany:  get(FieldYearsInCompany),
		TotalExperience: get(FieldTotalExperience),
		Seniority:       get(FieldSeniority),
		JobType:         get(FieldJobType),
		Skills:          get(FieldSkills),
		ReachoutTopic:   get(FieldReachoutTopic),
		ReachoutComment: get(FieldReachoutComment),
		QAScore:         get(FieldQAScore),
		QAComment:       get(FieldQAComment),
		SourcingJob:     get(FieldSourcingJob),
		AllSkills:       get(FieldAllSkills),
		Reviewed:        get(FieldReviewed),
		IdentityURL:     cell(cells, l.IdentityURL),
		LinkURL:         cell(cells, l.LinkURL),
	}
}

// ParseRows converts a full-range grid into rows, skipping headerRows
// leading rows. Row numbers keep counting the skipped rows.
func ParseRows(l Layout, grid [][]string, headerRows int) []Row {
	if headerRows < 0 {
		headerRows = 0
	}
	rows := make([]Row, 0, len(grid))
	for i, cells := range grid {
		if i < headerRows {
			continue
		}
		rows = append(rows, l.Parse(i+1, cells))
	}
	return rows
}

// Cell is one value of a full-row write. Skip leaves the stored cell as is.
type Cell struct {
	Value string
	Skip  bool
}

// Set returns a cell that overwrites the stored value.
func Set(v string) Cell { return Cell{Value: v} }

// Keep returns a cell that leaves the stored value untouched.
func Keep() Cell { return Cell{Skip: true} }
