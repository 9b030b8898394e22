package models

import "fmt"

// RunSummary accumulates the outcome of one batch run. Per-file and
// per-language failures are recorded here instead of unwinding the batch.
type RunSummary struct {
	FilesProcessed   int
	SubtitlesWritten int
	SubtitlesSkipped int
	Errors           int
}

// String renders the summary for the final report line.
func (s RunSummary) String() string {
	return fmt.Sprintf("processed %d file(s): %d written, %d skipped, %d error(s)",
		s.FilesProcessed, s.SubtitlesWritten, s.SubtitlesSkipped, s.Errors)
}
