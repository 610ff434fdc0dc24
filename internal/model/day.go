package model

// DayFlags is the persisted per-date lifecycle state. Closed and Sent are
// orthogonal: a day can be sent without being closed and vice versa.
type DayFlags struct {
	Date   string
	Closed bool
	Sent   bool
}

// DayGroup is a view over all reports sharing one date for one technician,
// recomputed from the report set plus the flag store.
type DayGroup struct {
	Date        string
	ReportCount int
	Closed      bool
	Sent        bool
}

// GeneratedFile is an immutable document artifact handed to the caller.
// The service holds no reference to it after return.
type GeneratedFile struct {
	FileName string
	Content  []byte
}
