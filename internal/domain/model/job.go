package model

import (
	"strings"
	"time"
)

// Roles known to the user store.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is a sourcer or reviewer resolved by email.
type User struct {
	ID             uint
	Email          string
	Name           string
	Role           string
	CompanyScraper bool
}

// IsAdmin reports whether the user may run QA sessions.
func (u User) IsAdmin() bool {
	return strings.EqualFold(u.Role, RoleAdmin)
}

// EmailFor derives the account email of an owner's initials.
func EmailFor(owner, domain string) string {
	return strings.ToLower(strings.TrimSpace(owner)) + "@" + domain
}

// JobRule is a sourcing job with its allow-lists and the regexes derived
// from them for the extension scraper.
type JobRule struct {
	ID             uint     `json:"id"`
	Title          string   `json:"title"`
	Owners         []string `json:"owners"`
	MinConnections int      `json:"minConnections"`
	Universities   []string `json:"universities"`
	RelevantRoles  []string `json:"relevantRoles"`
	Skills         []string `json:"skills"`
	GradYear       string   `json:"gradYear"`
	Experience     string   `json:"experience"`
	RelevantDoc    string   `json:"relevantDoc"`

	UniversitiesRegex  string `json:"universitiesRegex"`
	RelevantRolesRegex string `json:"relevantRolesRegex"`
	SkillsRegex        string `json:"skillsRegex"`
}

// OwnedBy reports whether owner is listed on the job.
func (j JobRule) OwnedBy(owner string) bool {
	for _, o := range j.Owners {
		if o == owner {
			return true
		}
	}
	return false
}

// JobStat holds one job's counters of a daily sourcing stat.
type JobStat struct {
	Job        string `json:"job"`
	Relevant   int    `json:"relevant"`
	Unrelevant int    `json:"unrelevant"`
}

// Summary is the reduction of a day's job counters.
type Summary struct {
	Total      int `json:"total"`
	Relevant   int `json:"relevant"`
	Unrelevant int `json:"unrelevant"`
}

// DailyStat is a sourcer's stat for one UTC day.
type DailyStat struct {
	ID           uint
	UserID       uint
	Date         time.Time
	TotalSourced int
	Jobs         []JobStat
	URLs         []string
}

// Counted reports whether url was already sourced that day.
func (d DailyStat) Counted(url string) bool {
	for _, u := range d.URLs {
		if u == url {
			return true
		}
	}
	return false
}

// Day truncates t to UTC midnight, the key of every daily record.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
