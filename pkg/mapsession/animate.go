package mapsession

import (
	"context"
	"math"
	"sync"
	"time"
)

// A Clock lets tests drive animations manually
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type TaskID int

type animationTask struct {
	start    time.Time
	duration time.Duration

	// Loop tasks restart at progress 0 when their duration elapses and run
	// until cancelled
	loop bool

	easing func(float64) float64

	step func(progress float64)
}

// Animator schedules time-based animation tasks - a start timestamp, a
// duration, an easing curve - stepped from a single frame loop. Multiple
// independent tasks may be live at once; each owns only the overlay handle
// it animates
type Animator struct {
	mutex sync.Mutex

	clock  Clock
	nextID TaskID
	tasks  map[TaskID]*animationTask
}

func NewAnimator(clock Clock) *Animator {
	if clock == nil {
		clock = systemClock{}
	}

	return &Animator{
		clock: clock,
		tasks: map[TaskID]*animationTask{},
	}
}

// Animate runs step with eased progress from 0 to 1 over the duration,
// finishing with exactly 1
func (a *Animator) Animate(duration time.Duration, easing func(float64) float64, step func(progress float64)) TaskID {
	return a.add(&animationTask{
		start:    a.clock.Now(),
		duration: duration,
		easing:   easing,
		step:     step,
	})
}

// Loop runs step with linear cycle progress in [0, 1) forever, wrapping
// every period, until cancelled
func (a *Animator) Loop(period time.Duration, step func(progress float64)) TaskID {
	return a.add(&animationTask{
		start:    a.clock.Now(),
		duration: period,
		loop:     true,
		step:     step,
	})
}

func (a *Animator) add(task *animationTask) TaskID {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.nextID++
	id := a.nextID
	a.tasks[id] = task

	return id
}

// Cancel is idempotent; cancelling only prevents future frames
func (a *Animator) Cancel(id TaskID) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	delete(a.tasks, id)
}

// Step advances every live task to now. Finished tasks emit their final
// frame and are dropped
func (a *Animator) Step(now time.Time) {
	a.mutex.Lock()

	type frame struct {
		step     func(float64)
		progress float64
	}

	var frames []frame

	for id, task := range a.tasks {
		elapsed := now.Sub(task.start)

		if task.loop {
			cycle := math.Mod(elapsed.Seconds()/task.duration.Seconds(), 1)
			if cycle < 0 {
				cycle = 0
			}
			frames = append(frames, frame{task.step, cycle})
			continue
		}

		progress := elapsed.Seconds() / task.duration.Seconds()
		if progress >= 1 {
			progress = 1
			delete(a.tasks, id)
		} else if progress < 0 {
			progress = 0
		}

		if task.easing != nil {
			progress = task.easing(progress)
		}

		frames = append(frames, frame{task.step, progress})
	}

	a.mutex.Unlock()

	// Steps run outside the lock - they call back into the renderer
	for _, f := range frames {
		f.step(f.progress)
	}
}

// Run drives the frame loop until the context is cancelled
func (a *Animator) Run(ctx context.Context, frameInterval time.Duration) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			a.Step(now)
		}
	}
}

// EaseInOut is the quadratic ease-in-out curve used for marker motion
func EaseInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}

	return 1 - math.Pow(-2*t+2, 2)/2
}
