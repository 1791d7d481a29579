package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
)

type AppConfig struct {
	Allocator *AllocatorConfig `hcl:"allocator,block"`
	Tree      *TreeConfig      `hcl:"tree,block"`
	Store     *StoreConfig     `hcl:"store,block"`
	Log       *LogConfig       `hcl:"log,block"`
}

func New() *AppConfig {
	return &AppConfig{
		Allocator: NewAllocatorConfig(),
		Tree:      NewTreeConfig(),
		Store:     NewStoreConfig(),
		Log:       NewLogConfig(),
	}
}

// Load reads an HCL config file. Every block and attribute is optional;
// missing ones keep the values of New. An empty path returns New().
func Load(path string) (*AppConfig, error) {
	if path == "" {
		return New(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.Errorf("failed to parse %s: %s", path, diags.Error())
	}

	cfg := &AppConfig{}
	if diags := gohcl.DecodeBody(file.Body, nil, cfg); diags.HasErrors() {
		return nil, errors.Errorf("failed to decode %s: %s", path, diags.Error())
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Allocator == nil {
		c.Allocator = NewAllocatorConfig()
	} else {
		c.Allocator.applyDefaults()
	}
	if c.Tree == nil {
		c.Tree = NewTreeConfig()
	}
	if c.Store == nil {
		c.Store = NewStoreConfig()
	} else {
		c.Store.applyDefaults()
	}
	if c.Log == nil {
		c.Log = NewLogConfig()
	} else {
		c.Log.applyDefaults()
	}
}

func (c *AppConfig) Validate() error {
	if c.Allocator.ChunkSize <= 0 {
		return fmt.Errorf("invalid allocator chunk_size: %d", c.Allocator.ChunkSize)
	}
	if c.Tree.RecordSize < 0 {
		return fmt.Errorf("invalid tree record_size: %d", c.Tree.RecordSize)
	}
	if _, err := c.Store.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}
