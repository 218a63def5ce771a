package output

import (
	"strings"

	"github.com/callscope/callscope/results"
)

// TableVocab is one command's table vocabulary: the handful of line
// generators that differ between commands. ModuleTable composes them into
// the shared layout, so every grouped command renders structurally alike.
type TableVocab[E any] struct {
	// Header returns the title line.
	Header func() string
	// Empty returns the message shown when there are no results.
	Empty func() string
	// Summary renders the line after the header, given the total entry
	// count and the group count.
	Summary func(total, moduleCount int) string
	// ModuleHeader renders one group's heading. Entries are passed for
	// vocabularies that aggregate over them.
	ModuleHeader func(name, file string, entries []E) string
	// Entry renders one entry line. ModuleTable indents it two spaces.
	Entry func(entry E, name, file string) string
	// EntryDetails renders optional detail lines under an entry, indented
	// four spaces. May be nil.
	EntryDetails func(entry E, name, file string) []string

	// NoBlankAfterSummary suppresses the blank line between the summary and
	// the first group.
	NoBlankAfterSummary bool
	// BlankBeforeModule inserts a blank line before each group heading.
	BlankBeforeModule bool
}

// ModuleTable renders grouped entries through one vocabulary: header, blank
// line, then either the empty message or the summary followed by each group
// with its entries and details.
func ModuleTable[E any](vocab TableVocab[E], groups []results.ModuleGroup[E], total int) string {
	var lines []string

	lines = append(lines, vocab.Header())
	lines = append(lines, "")

	if len(groups) == 0 {
		lines = append(lines, vocab.Empty())
		return strings.Join(lines, "\n")
	}

	lines = append(lines, vocab.Summary(total, len(groups)))
	if !vocab.NoBlankAfterSummary {
		lines = append(lines, "")
	}

	for _, group := range groups {
		if vocab.BlankBeforeModule {
			lines = append(lines, "")
		}

		lines = append(lines, vocab.ModuleHeader(group.Name, group.File, group.Entries))

		for _, entry := range group.Entries {
			lines = append(lines, "  "+vocab.Entry(entry, group.Name, group.File))

			if vocab.EntryDetails == nil {
				continue
			}
			for _, detail := range vocab.EntryDetails(entry, group.Name, group.File) {
				lines = append(lines, "    "+detail)
			}
		}
	}

	return strings.Join(lines, "\n")
}
