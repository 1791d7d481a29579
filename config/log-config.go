package config

type LogConfig struct {
	Level string `hcl:"level,optional"`
}

func NewLogConfig() *LogConfig {
	return &LogConfig{
		Level: "info",
	}
}

func (c *LogConfig) applyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}
