package qmag

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"sigs.k8s.io/yaml"
)

// DefaultMaxQubits bounds the register width the evaluator accepts unless
// configured otherwise. 24 qubits already means 16M basis states.
const DefaultMaxQubits = 24

type Config struct {
	Workers           int
	SchedulingTimeout time.Duration
	MaxQubits         int
}

func NewConfig() *Config {
	return &Config{
		Workers:           runtime.GOMAXPROCS(0),
		SchedulingTimeout: 10 * time.Second,
		MaxQubits:         DefaultMaxQubits,
	}
}

/*
LoadConfig reads a YAML or JSON config file on top of the defaults, so a
file only needs the keys it changes. The scheduling timeout is either a
nanosecond count or a duration string such as "30s".
*/
func LoadConfig(path string) (*Config, error) {
	config := NewConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file struct {
		Workers           *int      `json:"workers"`
		SchedulingTimeout *duration `json:"schedulingTimeout"`
		MaxQubits         *int      `json:"maxQubits"`
	}
	if err := yaml.UnmarshalStrict(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}

	if file.Workers != nil {
		config.Workers = *file.Workers
	}
	if file.MaxQubits != nil {
		config.MaxQubits = *file.MaxQubits
	}
	if file.SchedulingTimeout != nil {
		config.SchedulingTimeout = time.Duration(*file.SchedulingTimeout)
	}

	return config, config.Validate()
}

// Validate rejects settings the pool or evaluator cannot run with.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidArgument, c.Workers)
	}
	if c.MaxQubits < 1 || c.MaxQubits > MaxQubits {
		return fmt.Errorf("%w: maxQubits must be within [1, %d], got %d",
			ErrInvalidArgument, MaxQubits, c.MaxQubits)
	}
	if c.SchedulingTimeout < 0 {
		return fmt.Errorf("%w: negative scheduling timeout %v", ErrInvalidArgument, c.SchedulingTimeout)
	}
	return nil
}

func (c *Config) qubitLimit() int {
	if c.MaxQubits > 0 && c.MaxQubits <= MaxQubits {
		return c.MaxQubits
	}
	return DefaultMaxQubits
}

func (c *Config) schedulingTimeout() time.Duration {
	if c != nil && c.SchedulingTimeout > 0 {
		return c.SchedulingTimeout
	}
	return 5 * time.Second
}

type duration time.Duration

func (d *duration) UnmarshalJSON(raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}

	switch t := v.(type) {
	case float64:
		*d = duration(t)
	case string:
		parsed, err := time.ParseDuration(t)
		if err != nil {
			return err
		}
		*d = duration(parsed)
	default:
		return fmt.Errorf("invalid duration %s", raw)
	}
	return nil
}
