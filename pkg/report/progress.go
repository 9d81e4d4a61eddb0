// pkg/report/progress.go
package report

// ProgressCallback is called for various progress events
type ProgressCallback func(event ProgressEvent)

// ProgressEvent contains progress information
type ProgressEvent struct {
	Type      EventType
	EntryName string
	Current   int64
	Total     int64 // 0 when the entry count is not known up front (RAR)
	Message   string
}

// EventType indicates the type of progress event
type EventType int

const (
	EventStart EventType = iota
	EventEntry
	EventWarning
	EventComplete
)

func (r *Report) emit(cb ProgressCallback, ev ProgressEvent) {
	if cb != nil {
		cb(ev)
	}
}

// warn records a warning on the report and forwards it to the callback
func (r *Report) warn(cb ProgressCallback, msg string) {
	r.Warnings = append(r.Warnings, msg)
	r.emit(cb, ProgressEvent{Type: EventWarning, Message: msg})
}
