package config

import "go-gametree/pkg/allocator"

type AllocatorConfig struct {
	Diagnostics bool `hcl:"diagnostics,optional"`
	OffHeap     bool `hcl:"off_heap,optional"`
	ChunkSize   int  `hcl:"chunk_size,optional"`
}

func NewAllocatorConfig() *AllocatorConfig {
	return &AllocatorConfig{
		ChunkSize: allocator.DefaultChunkSize,
	}
}

func (c *AllocatorConfig) applyDefaults() {
	if c.ChunkSize == 0 {
		c.ChunkSize = allocator.DefaultChunkSize
	}
}

func (c *AllocatorConfig) Options() *allocator.Options {
	return &allocator.Options{
		Diagnostics: c.Diagnostics,
		OffHeap:     c.OffHeap,
		ChunkSize:   c.ChunkSize,
	}
}
