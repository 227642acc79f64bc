// Package report renders the end-of-run summaries: scored domains grouped
// by score with roots and subdomains listed separately.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/DavidOteria/OcculusINT/internal/fqdn"
	"github.com/DavidOteria/OcculusINT/internal/shared/constants"
)

// DefaultMinScore hides the long tail of uninteresting domains from the
// grouped report.
const DefaultMinScore = 50

// Entry is one scored domain feeding the report.
type Entry struct {
	Domain string
	Score  int
}

// EntriesFromRows converts CSV rows into entries. Rows with a missing
// domain or an unparseable score are skipped.
func EntriesFromRows(rows []map[string]string, domainKey, scoreKey string) []Entry {
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		domain := row[domainKey]
		if domain == "" {
			continue
		}
		score, err := strconv.Atoi(row[scoreKey])
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Domain: domain, Score: score})
	}
	return entries
}

// WriteGrouped renders entries scoring at least minScore, grouped by score
// in descending order. Within a group, root domains come before
// subdomains.
func WriteGrouped(w io.Writer, entries []Entry, minScore int) error {
	byScore := make(map[int][]string)
	for _, e := range entries {
		if e.Score >= minScore {
			byScore[e.Score] = append(byScore[e.Score], e.Domain)
		}
	}

	scores := make([]int, 0, len(byScore))
	for s := range byScore {
		scores = append(scores, s)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(scores)))

	for _, score := range scores {
		if _, err := fmt.Fprintf(w, "score %d:\n", score); err != nil {
			return err
		}
		var roots, subs []string
		for _, d := range byScore[score] {
			if fqdn.IsSubdomain(d) {
				subs = append(subs, d)
			} else {
				roots = append(roots, d)
			}
		}
		if err := writeSection(w, "Root domains", roots); err != nil {
			return err
		}
		if err := writeSection(w, "Subdomains", subs); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// SaveGrouped writes the grouped report to a file.
func SaveGrouped(path string, entries []Entry, minScore int) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, constants.DefaultFilePerm)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteGrouped(f, entries, minScore)
}

func writeSection(w io.Writer, title string, domains []string) error {
	if len(domains) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "  == %s ==\n", title); err != nil {
		return err
	}
	for _, d := range domains {
		if _, err := fmt.Fprintf(w, "    - %s\n", d); err != nil {
			return err
		}
	}
	return nil
}
