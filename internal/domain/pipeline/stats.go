package pipeline

import (
	"fmt"
	"sync"

	"github.com/ledgerlens/statement-pipeline/internal/domain/statement/normalizer"
)

// FileState is the per-file position in the import state machine.
type FileState string

const (
	StatePending    FileState = "PENDING"
	StateHashed     FileState = "HASHED"
	StateDuplicate  FileState = "DUPLICATE"
	StateAcquired   FileState = "ACQUIRED"
	StateParsed     FileState = "PARSED"
	StateNormalized FileState = "NORMALIZED"
	StateEmitted    FileState = "EMITTED"
	StateRejected   FileState = "REJECTED"
)

// FileResult is the terminal outcome for one input file.
type FileResult struct {
	Path     string
	State    FileState
	Parser   string
	Checksum string
	Rows     int
	Rejected int
	Err      error
}

// RunStats aggregates one pipeline run. Safe for concurrent workers.
type RunStats struct {
	mu sync.Mutex

	FilesSeen     int
	Duplicates    int
	FilesEmitted  int
	FilesRejected int
	RowsImported  int
	RowsSkipped   int
	Transfers     int

	Rejections *normalizer.RejectionStats
	Files      []FileResult
}

// NewRunStats returns empty run statistics.
func NewRunStats() *RunStats {
	return &RunStats{Rejections: normalizer.NewRejectionStats()}
}

func (s *RunStats) recordFile(r FileResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.FilesSeen++
	s.Files = append(s.Files, r)

	switch r.State {
	case StateDuplicate:
		s.Duplicates++
	case StateEmitted:
		s.FilesEmitted++
		s.RowsImported += r.Rows
	case StateRejected:
		s.FilesRejected++
	}
}

func (s *RunStats) addSkipped(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RowsSkipped += n
}

func (s *RunStats) addTransfers(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Transfers += n
}

// Summary renders the one-line operator summary.
func (s *RunStats) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fmt.Sprintf(
		"files=%d duplicates=%d emitted=%d rejected=%d rows_imported=%d rows_skipped=%d transfers=%d; rejections: %s",
		s.FilesSeen, s.Duplicates, s.FilesEmitted, s.FilesRejected,
		s.RowsImported, s.RowsSkipped, s.Transfers, s.Rejections.Summary())
}
