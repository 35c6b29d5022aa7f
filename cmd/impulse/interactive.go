package main

import (
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/impulse"
	"github.com/jakecoffman/impulse/internal/scenario"
	"github.com/jakecoffman/impulse/internal/termview"
	"github.com/pkg/errors"
)

// maxFrameTime bounds the simulated time per frame so a stall does not
// trigger a burst of steps. maxStepsPerFrame bounds the steps themselves for
// ticks much shorter than a frame.
const (
	maxFrameTime     = 0.2
	maxStepsPerFrame = 16
)

// stepper runs fixed steps for the wall clock time handed to advance.
type stepper struct {
	tick        float64
	accumulator float64
}

func (s *stepper) advance(dt float64, step func() error) (int, error) {
	if dt > maxFrameTime {
		dt = maxFrameTime
	}
	var steps int
	for s.accumulator += dt; s.accumulator >= s.tick; s.accumulator -= s.tick {
		if steps == maxStepsPerFrame {
			// fall behind the wall clock rather than stall the frame
			s.accumulator = 0
			break
		}
		if err := step(); err != nil {
			return steps, err
		}
		steps++
	}
	return steps, nil
}

type viewer struct {
	cfg    settings
	screen tcell.Screen
	view   *termview.View

	scenario scenario.Scenario
	world    *impulse.World
	paused   bool
}

func (v *viewer) reset() error {
	s, w, err := load(v.cfg)
	if err != nil {
		return err
	}
	v.scenario, v.world = s, w
	v.view.Fit(w)
	return nil
}

func (v *viewer) step() error {
	if err := v.scenario.Update(v.world); err != nil {
		return err
	}
	return v.world.Step(v.cfg.Run.Dt)
}

func (v *viewer) draw() {
	v.screen.Clear()
	v.view.Render(v.world)
	status := v.scenario.Name() + "  q quit  space pause  r reset  . step"
	if v.paused {
		status += "  [paused]"
	}
	for i, r := range status {
		v.screen.SetContent(i, 0, r, nil, tcell.StyleDefault.Reverse(true))
	}
	v.screen.Show()
}

// handle reacts to a key and reports whether the viewer should quit.
func (v *viewer) handle(ev *tcell.EventKey) (bool, error) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true, nil
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true, nil
		case ' ':
			v.paused = !v.paused
		case 'r':
			return false, v.reset()
		case '.':
			if v.paused {
				return false, v.step()
			}
		}
	}
	return false, nil
}

func interactive(cfg settings, log *slog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "open terminal")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "init terminal")
	}
	defer screen.Fini()

	v := &viewer{cfg: cfg, screen: screen, view: termview.New(screen)}
	if err := v.reset(); err != nil {
		return err
	}

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	st := stepper{tick: cfg.Run.Dt}
	last := time.Now()
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				done, err := v.handle(ev)
				if err != nil {
					return err
				}
				if done {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
				v.view.Fit(v.world)
			}
		case now := <-ticker.C:
			frame := now.Sub(last).Seconds()
			last = now
			if !v.paused {
				steps, err := st.advance(frame, v.step)
				if err != nil {
					return err
				}
				log.Debug("frame", "steps", steps, "bodies", v.world.BodyCount())
			}
		}
		v.draw()
	}
}
