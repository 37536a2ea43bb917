package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Server          string           `json:"server"`
	Transport       string           `json:"transport"`
	TransportConfig interface{}      `json:"transport_config"`
	Timeout         int64            `json:"timeout"`
	Thread          int              `json:"thread"`
	Retry           int              `json:"retry"`
	LogInfo         logger.LogConfig `json:"log_info"`
}

func Parse(f string) (*Config, error) {
	raw, err := os.ReadFile(f)
	if err != nil {
		return nil, fmt.Errorf("read file:%w", err)
	}
	c := &Config{
		Transport: "http",
		Timeout:   600,
		Thread:    4,
		Retry:     3,
		LogInfo: logger.LogConfig{
			Level:   "info",
			Console: true,
		},
	}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("decode json failed, err:%w", err)
	}
	if len(c.Server) == 0 {
		return nil, fmt.Errorf("no server found in config")
	}
	return c, nil
}
