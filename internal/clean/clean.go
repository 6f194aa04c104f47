package clean

import (
	"os"

	"devsweep/internal/scan"
)

// Failure pairs a candidate with the error that prevented its removal.
type Failure struct {
	Candidate scan.Candidate
	Err       error
}

// Result reports the outcome of a cleanup run.
type Result struct {
	Deleted []scan.Candidate
	Failed  []Failure
}

// TotalFreed returns the bytes reclaimed by the deleted candidates.
func (r Result) TotalFreed() int64 {
	return scan.TotalSize(r.Deleted)
}

// Remove deletes the given candidates one by one. A failed deletion is
// recorded and never blocks the remaining candidates. Under dryRun
// nothing is touched and every candidate is reported as deleted, so
// callers can render the same summary either way.
func Remove(candidates []scan.Candidate, dryRun bool) Result {
	var res Result
	for _, c := range candidates {
		if dryRun {
			res.Deleted = append(res.Deleted, c)
			continue
		}
		if err := os.RemoveAll(c.Path); err != nil {
			res.Failed = append(res.Failed, Failure{Candidate: c, Err: err})
			continue
		}
		res.Deleted = append(res.Deleted, c)
	}
	return res
}
