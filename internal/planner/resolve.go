package planner

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/noah-isme/atp-planner-api/internal/models"
)

// MatchRule names the lookup rule that matched a subject.
type MatchRule string

const (
	MatchExact           MatchRule = "EXACT"
	MatchCaseInsensitive MatchRule = "CASE_INSENSITIVE"
	MatchFuzzy           MatchRule = "FUZZY"
)

// Resolution is a successful target lookup.
type Resolution struct {
	SubjectKey string    `json:"subject_key"`
	ClassName  string    `json:"class_name"`
	Target     int       `json:"target"`
	Rule       MatchRule `json:"rule"`
}

// ResolveSubject maps a free-text subject name onto a table row: exact key
// first, then a case-insensitive match, then a substring match in either
// direction. Table order breaks ties.
func ResolveSubject(table models.TargetHourTable, subject string) (models.SubjectTargets, MatchRule, bool) {
	if row, ok := table.Lookup(subject); ok {
		return row, MatchExact, true
	}

	needle := fold(strings.TrimSpace(subject))
	if needle == "" {
		return models.SubjectTargets{}, "", false
	}
	for _, row := range table {
		if fold(row.Subject) == needle {
			return row, MatchCaseInsensitive, true
		}
	}
	for _, row := range table {
		key := fold(row.Subject)
		if strings.Contains(needle, key) || strings.Contains(key, needle) {
			return row, MatchFuzzy, true
		}
	}
	return models.SubjectTargets{}, "", false
}

// ResolveTarget returns the annual target for subject and class. A subject
// without an entry for the class is a miss; callers supply the fallback.
func ResolveTarget(table models.TargetHourTable, subject, className string) (Resolution, bool) {
	row, rule, ok := ResolveSubject(table, subject)
	if !ok {
		return Resolution{}, false
	}
	target, ok := row.Classes[className]
	if !ok {
		return Resolution{}, false
	}
	return Resolution{SubjectKey: row.Subject, ClassName: className, Target: target, Rule: rule}, true
}

func fold(s string) string {
	return cases.Fold().String(s)
}
