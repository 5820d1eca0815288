package symbols

import (
	"time"

	"github.com/dustin/go-humanize"
)

// SkipReason explains why a tree entry was not indexed.
type SkipReason string

const (
	SkipNotBlob      SkipReason = "not_blob"
	SkipExcluded     SkipReason = "excluded"
	SkipTooLarge     SkipReason = "too_large"
	SkipUnsupported  SkipReason = "unsupported_language"
	SkipNotText      SkipReason = "not_text"
	SkipUnreadable   SkipReason = "unreadable"
	SkipSymbolize    SkipReason = "symbolize_failed"
	SkipDuplicate    SkipReason = "duplicate_content"
	SkipMalformedSym SkipReason = "malformed_symbol"
)

// Stats describes one index build.
type Stats struct {
	Entries      int
	FilesIndexed int
	Occurrences  int
	Definitions  int
	Bytes        int64
	Skipped      map[SkipReason]int
	Duration     time.Duration
}

func newStats() Stats {
	return Stats{Skipped: make(map[SkipReason]int)}
}

// SkippedTotal returns the number of skipped files. Malformed symbols are
// counted per occurrence and are not included.
func (s Stats) SkippedTotal() int {
	total := 0
	for reason, n := range s.Skipped {
		if reason == SkipMalformedSym {
			continue
		}
		total += n
	}
	return total
}

// HumanBytes returns the indexed byte count in human readable form.
func (s Stats) HumanBytes() string {
	return humanize.Bytes(uint64(max(s.Bytes, 0)))
}
