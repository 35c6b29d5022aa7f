package main

import (
	"log/slog"
	"time"

	"github.com/jakecoffman/impulse"
	"github.com/pkg/errors"
)

// headless steps the scenario for the configured number of steps and logs the final
// pose of every body.
func headless(cfg settings, log *slog.Logger) error {
	s, w, err := load(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	for i := 0; i < cfg.Run.Steps; i++ {
		if err := s.Update(w); err != nil {
			return errors.Wrapf(err, "update step %d", i)
		}
		if err := w.Step(cfg.Run.Dt); err != nil {
			return errors.Wrapf(err, "step %d", i)
		}
	}
	log.Info("finished",
		"scenario", s.Name(),
		"steps", cfg.Run.Steps,
		"simulated", time.Duration(float64(cfg.Run.Steps)*cfg.Run.Dt*float64(time.Second)),
		"elapsed", time.Since(start),
	)

	w.EachBody(func(ref impulse.BodyRef, body *impulse.Body) {
		log.Info("body",
			"ref", ref,
			"shape", body.Shape(),
			"position", body.Position(),
			"angle", body.Angle(),
			"velocity", body.Velocity(),
		)
	})
	return nil
}
