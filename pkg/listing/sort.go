// Package listing implements the aggregation, ordering and pagination layer
// between the upstream folder listing capability and the HTTP responses.
package listing

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/climbe/ri-backend/pkg/drive"
)

// SortStrategy is a total order over file records. Strategies sort in place,
// are stable, and never fail: records whose names don't carry the expected
// pattern sort after those that do, keeping their relative order.
type SortStrategy int

const (
	// SortQuarterDesc orders by the fiscal quarter code in the file name
	// (e.g. "1T24", "3T2023"), most recent first. The zero value: quarter
	// ordering is the predominant category behavior.
	SortQuarterDesc SortStrategy = iota

	// SortTitleDateDesc orders by the first dd/mm/yyyy date embedded in the
	// file name, most recent first.
	SortTitleDateDesc

	// SortAlphaAsc orders by name ascending with pt-BR collation,
	// case-insensitive and numeric-aware ("item2" before "item10").
	SortAlphaAsc

	// SortNone preserves the order received from upstream.
	SortNone
)

// ParseSortStrategy maps a configuration name to a strategy.
func ParseSortStrategy(s string) (SortStrategy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quarter":
		return SortQuarterDesc, true
	case "titledate":
		return SortTitleDateDesc, true
	case "alphabetical":
		return SortAlphaAsc, true
	case "none":
		return SortNone, true
	}
	return SortNone, false
}

// String returns the configuration name of the strategy.
func (s SortStrategy) String() string {
	switch s {
	case SortQuarterDesc:
		return "quarter"
	case SortTitleDateDesc:
		return "titleDate"
	case SortAlphaAsc:
		return "alphabetical"
	case SortNone:
		return "none"
	}
	return "unknown"
}

// Apply sorts files in place according to the strategy.
func (s SortStrategy) Apply(files []drive.File) {
	switch s {
	case SortQuarterDesc:
		sortByQuarter(files)
	case SortTitleDateDesc:
		sortByTitleDate(files)
	case SortAlphaAsc:
		sortAlphabetical(files)
	case SortNone:
	}
}

var quarterRe = regexp.MustCompile(`(?i)(\d)T(\d{2,4})`)

// parseQuarter extracts a <quarter>T<year> code from a file name.
// Two-digit years expand into the 2000s.
func parseQuarter(name string) (year, quarter int, ok bool) {
	m := quarterRe.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}
	quarter, _ = strconv.Atoi(m[1])
	year, _ = strconv.Atoi(m[2])
	if year < 100 {
		year += 2000
	}
	return year, quarter, true
}

func sortByQuarter(files []drive.File) {
	sort.SliceStable(files, func(i, j int) bool {
		yi, qi, oki := parseQuarter(files[i].Name)
		yj, qj, okj := parseQuarter(files[j].Name)
		if oki != okj {
			return oki
		}
		if !oki {
			return false
		}
		if yi != yj {
			return yi > yj
		}
		return qi > qj
	})
}

var titleDateRe = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})`)

// parseTitleDate extracts the first dd/mm/yyyy date from a file name.
// Out-of-range components (e.g. 31/02) are treated as no match, so an
// unparseable date degrades to "sorts last" instead of breaking the order.
func parseTitleDate(name string) (time.Time, bool) {
	m := titleDateRe.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func sortByTitleDate(files []drive.File) {
	sort.SliceStable(files, func(i, j int) bool {
		di, oki := parseTitleDate(files[i].Name)
		dj, okj := parseTitleDate(files[j].Name)
		if oki != okj {
			return oki
		}
		if !oki {
			return false
		}
		return di.After(dj)
	})
}

func sortAlphabetical(files []drive.File) {
	// Collators carry internal buffers and are not safe for concurrent use,
	// so each sort gets its own.
	c := collate.New(language.BrazilianPortuguese, collate.IgnoreCase, collate.Numeric)
	sort.SliceStable(files, func(i, j int) bool {
		return c.CompareString(strings.TrimSpace(files[i].Name), strings.TrimSpace(files[j].Name)) < 0
	})
}
