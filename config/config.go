package config

import (
	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/kevinxiao27/lww-graph/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

const (
	ClockHybrid  = "hybrid"
	ClockCounter = "counter"
)

// Config holds everything parsed from the TOML config file.
type Config struct {
	Server  Server
	Replica Replica
	Log     Log
}

// Server is the listening side of a replica process.
type Server struct {
	ListenAddr string
}

// Replica identifies this process among its peers and picks the clock
// that stamps its operations.
type Replica struct {
	ID    string
	Clock string
}

type Log struct {
	Level       string
	Development bool
}

func Default() *Config {
	return &Config{
		Server:  Server{ListenAddr: ":8080"},
		Replica: Replica{Clock: ClockHybrid},
		Log:     Log{Level: "info"},
	}
}

// LoadConfig reads the file at path on top of the defaults. A missing
// replica ID is generated.
func LoadConfig(path string) (*Config, error) {
	conf := Default()
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return nil, errors.Wrapf(err, "failed to decode config file %s", path)
	}

	if err := conf.Complete(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file %s", path)
	}
	return conf, nil
}

// Complete fills the replica ID when empty and validates the rest.
func (c *Config) Complete() error {
	if c.Replica.ID == "" {
		c.Replica.ID = uuid.NewString()
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return errors.New("server listen address is empty")
	}
	if _, err := uuid.Parse(c.Replica.ID); err != nil {
		return errors.Wrapf(err, "replica id %q is not a uuid", c.Replica.ID)
	}
	switch c.Replica.Clock {
	case ClockHybrid, ClockCounter:
	default:
		return errors.Errorf("unknown clock %q", c.Replica.Clock)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	return nil
}

// NewClock returns a fresh clock of the configured kind.
func (r Replica) NewClock() clock.Clock {
	if r.Clock == ClockCounter {
		return clock.NewCounter()
	}
	return clock.NewHybrid()
}
