package internal

import (
	"fmt"

	"github.com/spf13/viper"
)

type PageDBConfig struct {
	AppName string `mapstructure:"app_name"`

	Storage struct {
		Workdir string `mapstructure:"workdir"`
	} `mapstructure:"storage"`

	Buffer struct {
		Capacity int `mapstructure:"capacity"`
	} `mapstructure:"buffer"`

	Debug bool `mapstructure:"debug"`
}

func LoadConfig(path string) (*PageDBConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg PageDBConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
