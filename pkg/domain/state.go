package domain

// Record is the logging state owned by the controller.
// Path and PreviousPath are nil when absent.
type Record struct {
	Path         *string
	PreviousPath *string
	Active       bool

	// CallCount counts every start, stop and status invocation. It never resets.
	CallCount uint64
}

// NewRecord returns the startup record: no path, no previous path, inactive, zero calls.
func NewRecord() *Record {
	return &Record{}
}

// Snapshot returns the externally visible part of the record.
// Strings are immutable, so sharing the pointed-to values is safe as long as the
// record only ever reassigns its pointers.
func (r *Record) Snapshot() Snapshot {
	return Snapshot{
		Path:         r.Path,
		PreviousPath: r.PreviousPath,
		Active:       r.Active,
	}
}

// Clone returns a copy of the record.
func (r *Record) Clone() Record {
	return *r
}

// Snapshot is the state as seen by callers after an operation.
type Snapshot struct {
	Path         *string `json:"path"`
	PreviousPath *string `json:"previousPath"`
	Active       bool    `json:"active"`
}

// PathValue returns the current path or "" when absent.
func (s Snapshot) PathValue() string {
	return deref(s.Path)
}

// PreviousPathValue returns the previous path or "" when absent.
func (s Snapshot) PreviousPathValue() string {
	return deref(s.PreviousPath)
}

// Result is the outcome of a controller operation.
// Success is false when the request was redundant; it never signals a fault.
type Result struct {
	Snapshot
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
