package ports

// Progress message types.
const (
	ProgressStarted   = "started"
	ProgressUpdate    = "progress"
	ProgressCompleted = "completed"
	ProgressCancelled = "cancelled"
	ProgressError     = "error"
)

// Progress is one advisory update pushed while a simulation runs.
type Progress struct {
	Type        string  `json:"type"`
	Progress    float64 `json:"progress"`
	CurrentTime string  `json:"currentTime,omitempty"`
	Message     string  `json:"message,omitempty"`
	Completed   int     `json:"completed"`
	Rejected    int     `json:"rejected"`
	Pending     int     `json:"pending"`
}

// ProgressSink receives progress updates. Implementations must not block
// for long; the simulation loop waits for each call.
type ProgressSink interface {
	Publish(p Progress)
}

// ProgressFunc adapts a plain function to ProgressSink.
type ProgressFunc func(p Progress)

func (f ProgressFunc) Publish(p Progress) { f(p) }

// CancellationCheck is polled once per simulated second.
type CancellationCheck func() bool

// Fanout forwards every update to each non-nil sink in order.
func Fanout(sinks ...ProgressSink) ProgressSink {
	live := make([]ProgressSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	return ProgressFunc(func(p Progress) {
		for _, s := range live {
			s.Publish(p)
		}
	})
}
