package config

import (
	"time"

	"go-gametree/pkg/treestore"

	"github.com/pkg/errors"
)

type StoreConfig struct {
	Path    string `hcl:"path,optional"`
	Timeout string `hcl:"timeout,optional"`
	NoSync  bool   `hcl:"no_sync,optional"`
}

func NewStoreConfig() *StoreConfig {
	return &StoreConfig{
		Path:    "gametree.db",
		Timeout: "10s",
	}
}

func (c *StoreConfig) applyDefaults() {
	def := NewStoreConfig()
	if c.Path == "" {
		c.Path = def.Path
	}
	if c.Timeout == "" {
		c.Timeout = def.Timeout
	}
}

func (c *StoreConfig) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid store timeout %q", c.Timeout)
	}
	return d, nil
}

func (c *StoreConfig) Options(readOnly bool) (*treestore.Options, error) {
	timeout, err := c.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	return &treestore.Options{
		Timeout:  timeout,
		NoSync:   c.NoSync,
		ReadOnly: readOnly,
	}, nil
}
