package ingest

// RowOutcome records why one row was skipped or failed. Reasons are short
// strings; raw row contents are never copied into the report, so it is safe
// to surface to a UI without leaking arbitrary upstream payloads.
type RowOutcome struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Report summarizes one ingestion run. Created fresh per run and immutable
// once returned.
type Report struct {
	Accepted int `json:"accepted"`
	// Skipped counts rows rejected by the normalizer (or the optional
	// duplicate check) before any write attempt.
	Skipped int `json:"skipped"`
	// Failed counts rows that normalized cleanly but whose store write
	// rejected.
	Failed int `json:"failed"`

	SkippedRows []RowOutcome `json:"skipped_rows,omitempty"`
	FailedRows  []RowOutcome `json:"failed_rows,omitempty"`

	// ParseFailure is set when the row source terminated with a parse error.
	// Counts above cover the rows delivered before the failure.
	ParseFailure string `json:"parse_failure,omitempty"`
}

// Total returns the number of rows the run saw.
func (r *Report) Total() int {
	return r.Accepted + r.Skipped + r.Failed
}

func (r *Report) skip(index int, reason string) {
	r.Skipped++
	r.SkippedRows = append(r.SkippedRows, RowOutcome{Index: index, Reason: reason})
}

func (r *Report) fail(index int, reason string) {
	r.Failed++
	r.FailedRows = append(r.FailedRows, RowOutcome{Index: index, Reason: reason})
}
