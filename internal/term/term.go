// Package term is the single place where academic terms are parsed, printed
// and ordered. Labels look like "Fall 2026"; store keys look like "fa26" or
// "offerings_fa26".
package term

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Season is an academic season. The numeric order is the in-year order.
type Season int

const (
	Spring Season = iota
	Summer
	Fall
)

// DocumentPrefix prefixes offerings document ids in the store.
const DocumentPrefix = "offerings_"

var (
	ErrInvalidLabel = errors.New("term label must look like \"Fall 2026\"")
	ErrInvalidKey   = errors.New("term key must look like \"fa26\"")
)

var labelPattern = regexp.MustCompile(`(Spring|Summer|Fall)\s+(\d{4})`)

var seasonNames = [...]string{"Spring", "Summer", "Fall"}
var seasonKeys = [...]string{"sp", "su", "fa"}

func (s Season) String() string {
	if s < Spring || s > Fall {
		return fmt.Sprintf("Season(%d)", int(s))
	}
	return seasonNames[s]
}

// Key returns the two-letter store prefix of the season.
func (s Season) Key() string {
	if s < Spring || s > Fall {
		return ""
	}
	return seasonKeys[s]
}

// ParseSeason accepts either the full name ("Fall") or the key ("fa").
func ParseSeason(raw string) (Season, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	for i := range seasonNames {
		if v == strings.ToLower(seasonNames[i]) || v == seasonKeys[i] {
			return Season(i), nil
		}
	}
	return 0, fmt.Errorf("unknown season %q", raw)
}

// Term is one academic offering period.
type Term struct {
	Season Season
	Year   int
}

// New builds a term.
func New(season Season, year int) Term {
	return Term{Season: season, Year: year}
}

// ParseLabel finds the first "{Season} {yyyy}" occurrence in raw.
func ParseLabel(raw string) (Term, error) {
	m := labelPattern.FindStringSubmatch(raw)
	if m == nil {
		return Term{}, ErrInvalidLabel
	}
	season, err := ParseSeason(m[1])
	if err != nil {
		return Term{}, ErrInvalidLabel
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return Term{}, ErrInvalidLabel
	}
	return Term{Season: season, Year: year}, nil
}

// ParseKey parses "fa26" and "offerings_fa26". Two-digit years are 20yy.
func ParseKey(raw string) (Term, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.TrimPrefix(v, DocumentPrefix)
	if len(v) != 4 {
		return Term{}, ErrInvalidKey
	}
	season, err := ParseSeason(v[:2])
	if err != nil {
		return Term{}, ErrInvalidKey
	}
	yy, err := strconv.Atoi(v[2:])
	if err != nil || yy < 0 {
		return Term{}, ErrInvalidKey
	}
	return Term{Season: season, Year: 2000 + yy}, nil
}

// Parse accepts either a label or a key.
func Parse(raw string) (Term, error) {
	if t, err := ParseLabel(raw); err == nil {
		return t, nil
	}
	if t, err := ParseKey(raw); err == nil {
		return t, nil
	}
	return Term{}, fmt.Errorf("parse term %q: %w", raw, ErrInvalidLabel)
}

// FromDate maps a calendar date to the term it falls in: August onwards is
// Fall, May through July is Summer, the rest is Spring.
func FromDate(t time.Time) Term {
	month := t.Month()
	switch {
	case month >= time.August:
		return Term{Season: Fall, Year: t.Year()}
	case month >= time.May:
		return Term{Season: Summer, Year: t.Year()}
	default:
		return Term{Season: Spring, Year: t.Year()}
	}
}

// IsZero reports whether t is the zero Term.
func (t Term) IsZero() bool {
	return t.Year == 0 && t.Season == Spring
}

// Label returns "Fall 2026".
func (t Term) Label() string {
	return fmt.Sprintf("%s %d", t.Season, t.Year)
}

func (t Term) String() string {
	return t.Label()
}

// Key returns "fa26".
func (t Term) Key() string {
	return fmt.Sprintf("%s%02d", t.Season.Key(), t.Year%100)
}

// DocumentID returns the offerings document id, "offerings_fa26".
func (t Term) DocumentID() string {
	return DocumentPrefix + t.Key()
}

// Next returns the following term in Spring -> Summer -> Fall -> Spring order.
func (t Term) Next() Term {
	if t.Season == Fall {
		return Term{Season: Spring, Year: t.Year + 1}
	}
	return Term{Season: t.Season + 1, Year: t.Year}
}

// Compare returns -1, 0 or 1 ordering by year then season.
func (t Term) Compare(o Term) int {
	switch {
	case t.Year < o.Year:
		return -1
	case t.Year > o.Year:
		return 1
	case t.Season < o.Season:
		return -1
	case t.Season > o.Season:
		return 1
	}
	return 0
}

func (t Term) Before(o Term) bool { return t.Compare(o) < 0 }
func (t Term) After(o Term) bool  { return t.Compare(o) > 0 }

// MarshalText encodes the term as its label.
func (t Term) MarshalText() ([]byte, error) {
	return []byte(t.Label()), nil
}

// UnmarshalText accepts a label or a key.
func (t *Term) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// GraduationOptions lists the next n Spring and Fall terms starting with the
// term that contains now.
func GraduationOptions(now time.Time, n int) []Term {
	out := make([]Term, 0, n)
	t := FromDate(now)
	for len(out) < n {
		if t.Season != Summer {
			out = append(out, t)
		}
		t = t.Next()
	}
	return out
}

// Labels converts terms to their labels.
func Labels(terms []Term) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.Label()
	}
	return out
}
