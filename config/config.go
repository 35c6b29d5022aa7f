// Package config loads world and run settings from YAML.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/jakecoffman/impulse"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	World World `yaml:"world"`
	Run   Run   `yaml:"run"`
}

// World holds the simulation settings applied to an impulse.World.
type World struct {
	Gravity       [2]float64 `yaml:"gravity"`
	Iterations    int        `yaml:"iterations"`
	CollisionSlop float64    `yaml:"collision_slop"`
	CollisionBias float64    `yaml:"collision_bias"`
	ErrorBias     float64    `yaml:"error_bias"`
	WarmStart     bool       `yaml:"warm_start"`
}

// Run holds the settings of the command line driver.
type Run struct {
	Dt       float64 `yaml:"dt"`
	Steps    int     `yaml:"steps"`
	Scenario string  `yaml:"scenario"`
}

func Default() Config {
	return Config{
		World: World{
			Iterations:    impulse.DefaultIterations,
			CollisionSlop: impulse.DefaultCollisionSlop,
			CollisionBias: impulse.DefaultCollisionBias,
			ErrorBias:     impulse.DefaultErrorBias,
			WarmStart:     true,
		},
		Run: Run{
			Dt:       1.0 / 60.0,
			Steps:    600,
			Scenario: "resting",
		},
	}
}

// Load reads the file at path on top of the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes a YAML document on top of the defaults. Keys that do not map to a
// field are rejected. An empty document yields the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decode")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) Validate() error {
	if err := cfg.World.Validate(); err != nil {
		return err
	}
	return cfg.Run.Validate()
}

func (w World) Validate() error {
	switch {
	case !finite(w.Gravity[0]) || !finite(w.Gravity[1]):
		return errors.Wrapf(ErrInvalid, "world.gravity %v", w.Gravity)
	case w.Iterations < 1:
		return errors.Wrapf(ErrInvalid, "world.iterations %d must be at least 1", w.Iterations)
	case !(w.CollisionSlop >= 0) || !finite(w.CollisionSlop):
		return errors.Wrapf(ErrInvalid, "world.collision_slop %v", w.CollisionSlop)
	case !(w.CollisionBias >= 0 && w.CollisionBias <= 1):
		return errors.Wrapf(ErrInvalid, "world.collision_bias %v not in [0, 1]", w.CollisionBias)
	case !(w.ErrorBias >= 0 && w.ErrorBias <= 1):
		return errors.Wrapf(ErrInvalid, "world.error_bias %v not in [0, 1]", w.ErrorBias)
	}
	return nil
}

func (r Run) Validate() error {
	switch {
	case !(r.Dt > 0) || !finite(r.Dt):
		return errors.Wrapf(ErrInvalid, "run.dt %v must be positive", r.Dt)
	case r.Steps < 0:
		return errors.Wrapf(ErrInvalid, "run.steps %d", r.Steps)
	}
	return nil
}

// Apply copies the settings onto w.
func (w World) Apply(world *impulse.World) error {
	if err := world.SetGravity(impulse.Vector{X: w.Gravity[0], Y: w.Gravity[1]}); err != nil {
		return err
	}
	if err := world.SetSolverIterations(w.Iterations); err != nil {
		return err
	}
	if err := world.SetCollisionSlop(w.CollisionSlop); err != nil {
		return err
	}
	if err := world.SetCollisionBias(w.CollisionBias); err != nil {
		return err
	}
	if err := world.SetErrorBias(w.ErrorBias); err != nil {
		return err
	}
	world.SetWarmStart(w.WarmStart)
	return nil
}

// Marshal renders cfg as YAML.
func (cfg Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, errors.Wrap(err, "encode config")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encode config")
	}
	return buf.Bytes(), nil
}

func finite(f float64) bool {
	return impulse.Vector{X: f}.IsFinite()
}
