// Package rules derives the scraper regexes of sourcing jobs.
package rules

import (
	"regexp"
	"strings"

	"github.com/okian/sourceqa/internal/domain/model"
)

var whitespace = regexp.MustCompile(`\s+`)

const regexMeta = `.*+?^${}()|[]\/`

// ArrayToRegex joins items into an alternation. Each item is trimmed and its
// whitespace runs become \s+. Items are wrapped as (item), or as
// (\Witem\W) when nonWordBounded is set. Items are not escaped.
func ArrayToRegex(items []string, nonWordBounded bool) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		item = whitespace.ReplaceAllLiteralString(strings.TrimSpace(item), `\s+`)
		if nonWordBounded {
			parts = append(parts, `(\W`+item+`\W)`)
		} else {
			parts = append(parts, "("+item+")")
		}
	}
	return strings.Join(parts, "|")
}

// Enrich fills the regex fields of a job from its allow-lists.
func Enrich(job model.JobRule) model.JobRule {
	job.UniversitiesRegex = ArrayToRegex(job.Universities, false)
	job.RelevantRolesRegex = ArrayToRegex(job.RelevantRoles, false)
	job.SkillsRegex = ArrayToRegex(job.Skills, true)
	return job
}

// Visible returns the enriched jobs owner may source. Admins see every job.
func Visible(jobs []model.JobRule, owner string, admin bool) []model.JobRule {
	out := make([]model.JobRule, 0, len(jobs))
	for _, j := range jobs {
		if admin || j.OwnedBy(owner) {
			out = append(out, Enrich(j))
		}
	}
	return out
}

// SkillsPattern builds one case-folded pattern that matches any known skill
// as a whole word. Names whose escaped form starts with an escaped dot, such
// as ".Net", only need a trailing word boundary.
func SkillsPattern(names []string) string {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		esc := whitespace.ReplaceAllLiteralString(escape(strings.ToLower(name)), `\s+`)
		if strings.Index(esc, ".") == 1 {
			parts = append(parts, "("+esc+`\b)`)
		} else {
			parts = append(parts, `(\b`+esc+`\b)`)
		}
	}
	return "(?:" + strings.Join(parts, "|") + ")"
}

func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(regexMeta, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
