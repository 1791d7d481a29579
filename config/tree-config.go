package config

type TreeConfig struct {
	// RecordSize is used when a command is not given one, 0 means unset.
	RecordSize int  `hcl:"record_size,optional"`
	FDA        bool `hcl:"fda,optional"`
	Writable   bool `hcl:"writable,optional"`
}

func NewTreeConfig() *TreeConfig {
	return &TreeConfig{}
}
