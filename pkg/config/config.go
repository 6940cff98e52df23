package config

// Package config provides a reusable loader for Synnergy configuration files
// and environment variables. It is versioned so that applications can depend
// on a stable API contract.
//
// Version: v0.1.0

import (
	"fmt"

	"github.com/spf13/viper"

	"synnergy-network/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config represents the unified configuration for a swap coordinator node.
// It mirrors the structure of the YAML files Load reads from cmd/config or
// config.
type Config struct {
	Network struct {
		RemoteRPCEndpoint string `mapstructure:"remote_rpc_endpoint" json:"remote_rpc_endpoint"`
		LocalRPCEndpoint  string `mapstructure:"local_rpc_endpoint" json:"local_rpc_endpoint"`
		APIListenAddr     string `mapstructure:"api_listen_addr" json:"api_listen_addr"`
	} `mapstructure:"network" json:"network"`

	Swap struct {
		DefaultProofMode     string `mapstructure:"default_proof_mode" json:"default_proof_mode"`
		SignatureDeadlineSec int64  `mapstructure:"signature_deadline_sec" json:"signature_deadline_sec"`
		RemoteRPCTimeoutSec  int64  `mapstructure:"remote_rpc_timeout_sec" json:"remote_rpc_timeout_sec"`
	} `mapstructure:"swap" json:"swap"`

	Storage struct {
		DraftStoreDir string `mapstructure:"draft_store_dir" json:"draft_store_dir"`
	} `mapstructure:"storage" json:"storage"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment specific
// overrides. The resulting configuration is stored in AppConfig and returned.
//
// The function uses the provided environment name to merge additional config
// files. If env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.AutomaticEnv() // picks up matching process environment variables

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the SYNN_ENV environment variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("SYNN_ENV", ""))
}
