// Package stats reduces and updates the daily sourcing counters.
package stats

import (
	"slices"
	"strings"

	"github.com/okian/sourceqa/internal/domain/model"
)

const (
	relevantYes = "yes"
	relevantNo  = "no"
)

// Aggregate sums the per-job counters. A nil or empty input yields zeros.
func Aggregate(jobs []model.JobStat) model.Summary {
	var s model.Summary
	for _, j := range jobs {
		s.Relevant += j.Relevant
		s.Unrelevant += j.Unrelevant
	}
	s.Total = s.Relevant + s.Unrelevant
	return s
}

// Open starts a job's counters with its first sourced candidate. Only an
// explicit "yes" or "no" is counted; any other relevancy leaves both at zero.
func Open(job, relevant string) model.JobStat {
	j := model.JobStat{Job: job}
	switch strings.ToLower(strings.TrimSpace(relevant)) {
	case relevantYes:
		j.Relevant = 1
	case relevantNo:
		j.Unrelevant = 1
	}
	return j
}

// Tally counts one newly sourced candidate on an existing job counter.
// Anything but "yes" counts as unrelevant.
func Tally(j *model.JobStat, relevant string) {
	if isRelevant(relevant) {
		j.Relevant++
		return
	}
	j.Unrelevant++
}

// Reclassify moves one candidate between the counters when its relevancy
// changed from previous. Counters never drop below zero.
func Reclassify(j *model.JobStat, relevant, previous string) bool {
	if strings.EqualFold(relevant, previous) {
		return false
	}
	if isRelevant(relevant) {
		j.Relevant++
		if j.Unrelevant > 0 {
			j.Unrelevant--
		}
		return true
	}
	j.Unrelevant++
	if j.Relevant > 0 {
		j.Relevant--
	}
	return true
}

// Record applies one sourced candidate to a day's stat and reports whether
// anything changed. A URL not yet counted that day bumps the total, joins
// the day's URL list and is tallied under job (opening the job's counters
// when it is new that day); a URL already counted only
// reclassifies job when relevancy differs from previous.
func Record(day model.DailyStat, job, relevant, url, previous string) (model.DailyStat, bool) {
	out := day
	out.Jobs = slices.Clone(day.Jobs)
	out.URLs = slices.Clone(day.URLs)

	i := slices.IndexFunc(out.Jobs, func(j model.JobStat) bool { return j.Job == job })

	if !day.Counted(url) {
		out.TotalSourced++
		out.URLs = append(out.URLs, url)
		if i < 0 {
			out.Jobs = append(out.Jobs, Open(job, relevant))
			return out, true
		}
		Tally(&out.Jobs[i], relevant)
		return out, true
	}

	if i < 0 {
		return day, false
	}
	if !Reclassify(&out.Jobs[i], relevant, previous) {
		return day, false
	}
	return out, true
}

func isRelevant(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), relevantYes)
}
