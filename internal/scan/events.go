package scan

// Status captures progress state for one document.
type Status string

const (
	// StatusQueued indicates the document is waiting to be scanned.
	StatusQueued Status = "queued"
	// StatusWorking indicates the document is being scanned.
	StatusWorking Status = "working"
	// StatusDone indicates the document scan finished.
	StatusDone Status = "done"
	// StatusError indicates the document scan failed.
	StatusError Status = "error"
)

// Event reports scan progress for a document.
type Event struct {
	Document string
	Status   Status
	Found    int
	Err      error
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}
