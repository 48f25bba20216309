package models

import "strings"

// SubjectTargets holds the annual JP target per class for one subject.
type SubjectTargets struct {
	Subject string         `json:"subject" yaml:"subject"`
	Classes map[string]int `json:"classes" yaml:"classes"`
}

// TargetHourTable is the ordered standards table. Order matters: it breaks
// ties between fuzzy matches.
type TargetHourTable []SubjectTargets

// Subjects returns the table keys in order.
func (t TargetHourTable) Subjects() []string {
	out := make([]string, len(t))
	for i, row := range t {
		out[i] = row.Subject
	}
	return out
}

// Lookup returns the exact row for subject.
func (t TargetHourTable) Lookup(subject string) (SubjectTargets, bool) {
	for _, row := range t {
		if row.Subject == subject {
			return row, true
		}
	}
	return SubjectTargets{}, false
}

// StandardRow is the flattened (subject, class, target) view used by storage.
type StandardRow struct {
	Subject  string `db:"subject"`
	Class    string `db:"class_name"`
	Hours    int    `db:"hours"`
	Position int    `db:"position"`
}

// BuildTargetHourTable groups rows into an ordered table, keeping the first
// appearance order of each subject.
func BuildTargetHourTable(rows []StandardRow) TargetHourTable {
	table := TargetHourTable{}
	index := map[string]int{}
	for _, row := range rows {
		pos, ok := index[row.Subject]
		if !ok {
			pos = len(table)
			index[row.Subject] = pos
			table = append(table, SubjectTargets{Subject: row.Subject, Classes: map[string]int{}})
		}
		table[pos].Classes[row.Class] = row.Hours
	}
	return table
}

// Phase groups the two classes of a curriculum phase (fase).
type Phase struct {
	ID      string   `json:"id" db:"id" yaml:"id"`
	Name    string   `json:"name" db:"name" yaml:"name"`
	Classes []string `json:"classes" yaml:"classes"`
}

// HasClass reports whether className belongs to the phase.
func (p Phase) HasClass(className string) bool {
	for _, c := range p.Classes {
		if c == className {
			return true
		}
	}
	return false
}

// PaperSize is a supported document page size in millimetres.
type PaperSize struct {
	Name     string  `json:"name"`
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
}

// Supported paper sizes.
var (
	PaperA4     = PaperSize{Name: "A4", WidthMM: 210, HeightMM: 297}
	PaperLetter = PaperSize{Name: "Letter", WidthMM: 215.9, HeightMM: 279.4}
	PaperF4     = PaperSize{Name: "F4", WidthMM: 210, HeightMM: 330}
)

// PaperSizes lists every supported size.
var PaperSizes = []PaperSize{PaperA4, PaperLetter, PaperF4}

// PaperSizeByName resolves a size name case-insensitively.
func PaperSizeByName(name string) (PaperSize, bool) {
	for _, size := range PaperSizes {
		if strings.EqualFold(size.Name, strings.TrimSpace(name)) {
			return size, true
		}
	}
	return PaperSize{}, false
}
