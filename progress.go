package stemcompare

import "github.com/tphakala/go-stem-compare/internal/fanout"

// Phase names the stage a progress event belongs to.
type Phase int

const (
	// PhaseDecode reports stem decoding. Progress counts decoded samples.
	PhaseDecode Phase = iota

	// PhaseSpectrogram reports STFT computation. Progress is a percentage.
	PhaseSpectrogram
)

func (p Phase) String() string {
	if p == PhaseSpectrogram {
		return "spectrogram"
	}
	return "decode"
}

// WorkerState is the lifecycle state of one worker.
type WorkerState = fanout.State

const (
	WorkerPending      = fanout.StatePending
	WorkerRunning      = fanout.StateRunning
	WorkerDone         = fanout.StateDone
	WorkerFailed       = fanout.StateFailed
	WorkerUnresponsive = fanout.StateUnresponsive
)

// WorkerStatus is a snapshot of one worker.
type WorkerStatus struct {
	Label    string
	State    WorkerState
	Progress int64
	Err      error
}

// ProgressEvent is a snapshot of every worker of a phase, in input order.
type ProgressEvent struct {
	Phase   Phase
	Source  string
	Workers []WorkerStatus
}

// Finished reports whether every worker has reached a terminal state.
func (e ProgressEvent) Finished() bool {
	for _, w := range e.Workers {
		if !w.State.Terminal() {
			return false
		}
	}
	return true
}

func newProgressEvent(phase Phase, source string, labels []string, statuses []fanout.Status) ProgressEvent {
	workers := make([]WorkerStatus, len(statuses))
	for i, s := range statuses {
		label := ""
		if s.Index < len(labels) {
			label = labels[s.Index]
		}
		workers[i] = WorkerStatus{
			Label:    label,
			State:    s.State,
			Progress: s.Progress,
			Err:      s.Err,
		}
	}
	return ProgressEvent{Phase: phase, Source: source, Workers: workers}
}
