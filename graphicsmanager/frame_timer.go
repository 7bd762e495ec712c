package graphicsmanager

import "time"

// FrameTimer tracks CPU frame time and total elapsed time for the frame loop, supplementing §4.12 the way
// the original engine's frame timer supports update_shader_params' frame.time_seconds field. Pausable via
// Stop/Start so a debugger break or a loading screen doesn't inflate TotalTime.
type FrameTimer struct {
	baseTime, prevTime, stopTime time.Time
	pausedTime                   time.Duration
	deltaTime                    time.Duration
	stopped                      bool
}

// NewFrameTimer constructs a FrameTimer already running, with base/prev time set to now.
func NewFrameTimer() *FrameTimer {
	t := &FrameTimer{}
	t.Reset()
	return t
}

// Reset re-bases the timer at the current instant, zeroing delta and paused time.
func (t *FrameTimer) Reset() {
	now := time.Now()
	t.stopped = false
	t.baseTime = now
	t.prevTime = now
	t.deltaTime = 0
	t.pausedTime = 0
}

// Tick advances the timer by one frame, recomputing DeltaTime from the last Tick/Reset call. A no-op (zero
// delta) while stopped.
func (t *FrameTimer) Tick() {
	if t.stopped {
		return
	}
	now := time.Now()
	t.deltaTime = now.Sub(t.prevTime)
	t.prevTime = now
}

// Start resumes a stopped timer, folding the paused duration into the pausedTime total so TotalTime doesn't jump.
func (t *FrameTimer) Start() {
	if !t.stopped {
		return
	}
	now := time.Now()
	t.pausedTime += now.Sub(t.stopTime)
	t.deltaTime = 0
	t.prevTime = now
	t.stopped = false
}

// Stop pauses the timer; TotalTime stops advancing until Start is called.
func (t *FrameTimer) Stop() {
	if t.stopped {
		return
	}
	t.stopTime = time.Now()
	t.deltaTime = 0
	t.stopped = true
}

// DeltaTime returns the duration of the most recent frame.
func (t *FrameTimer) DeltaTime() time.Duration {
	return t.deltaTime
}

// TotalTime returns the elapsed time since Reset, excluding any paused intervals.
func (t *FrameTimer) TotalTime() time.Duration {
	if t.stopped {
		return t.stopTime.Sub(t.baseTime) - t.pausedTime
	}
	return t.prevTime.Sub(t.baseTime) - t.pausedTime
}
