package preview

import "sync"

// Scheduler queues work for a later frame.
type Scheduler interface {
	Schedule(task func())
}

// FrameScheduler collects tasks and runs them when the host calls RunFrame,
// typically once per painted frame. Tasks scheduled while a frame is running
// wait for the next frame, so a self-rescheduling tick runs at most once per
// frame.
type FrameScheduler struct {
	mu      sync.Mutex
	pending []func()
}

var _ Scheduler = (*FrameScheduler)(nil)

func (s *FrameScheduler) Schedule(task func()) {
	if task == nil {
		return
	}
	s.mu.Lock()
	s.pending = append(s.pending, task)
	s.mu.Unlock()
}

// RunFrame runs every task queued before the call and returns how many ran.
func (s *FrameScheduler) RunFrame() int {
	s.mu.Lock()
	tasks := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, task := range tasks {
		task()
	}
	return len(tasks)
}

// Pending reports how many tasks are waiting for the next frame.
func (s *FrameScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Drain runs frames until nothing is pending or maxFrames have run, and
// returns the number of frames used. Headless callers use it to drive a
// wave to completion.
func (s *FrameScheduler) Drain(maxFrames int) int {
	frames := 0
	for frames < maxFrames && s.Pending() > 0 {
		s.RunFrame()
		frames++
	}
	return frames
}
