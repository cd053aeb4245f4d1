// Package replay captures the dial states of a running simulator and
// exports them in the playback schema the patrol site's TDC page reads.
package replay

import (
	"fmt"
	"math"
	"sync"

	"github.com/jmknapp/cobia-patrols/internal/analog"
)

// Frame is one captured step of machine time.
type Frame struct {
	Time   float64        `json:"time"`
	States []analog.State `json:"states"`
}

// Recorder steps a machine and buffers a frame after every step.
type Recorder struct {
	machine *analog.Mark3

	mu     sync.Mutex
	frames []Frame
}

// NewRecorder wraps a machine. The recorder never resets it; callers dial
// inputs in before running.
func NewRecorder(machine *analog.Mark3) *Recorder {
	return &Recorder{machine: machine}
}

// Run advances the machine for the given duration of machine time,
// capturing a frame after every step.
func (r *Recorder) Run(seconds, dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("step must be positive, got %v", dt)
	}
	if seconds <= 0 {
		return fmt.Errorf("duration must be positive, got %v", seconds)
	}

	steps := int(math.Round(seconds / dt))
	if steps < 1 {
		steps = 1
	}

	for i := 0; i < steps; i++ {
		if err := r.machine.Step(dt); err != nil {
			return err
		}
		r.mu.Lock()
		r.frames = append(r.frames, Frame{
			Time:   r.machine.Elapsed(),
			States: r.machine.Snapshot(),
		})
		r.mu.Unlock()
	}
	return nil
}

// Drain returns the buffered frames and empties the buffer.
func (r *Recorder) Drain() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := r.frames
	r.frames = nil
	return frames
}
