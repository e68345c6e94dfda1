// Package config loads HushNode's node configuration. It is the concrete
// implementation behind the "configuration loader" external collaborator
// named in spec §1/§6 for this repo's own binary and test harness.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Hushnetwork-social/hush-server-node-sub007/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// CircuitKey identifies one Groth16 verifying key to load at startup for
// the anonymous reaction subsystem's ReactionVote proofs (spec §4.G.2
// "registry of verifying keys keyed by circuit_version"). State is one of
// "current", "supported", or "vulnerable".
type CircuitKey struct {
	Version string `mapstructure:"version" json:"version"`
	Path    string `mapstructure:"path" json:"path"`
	State   string `mapstructure:"state" json:"state"`
}

// BlockchainSettings mirrors spec §6's blockchain_settings block.
type BlockchainSettings struct {
	MaxEmptyBlocksBeforePause int           `mapstructure:"max_empty_blocks_before_pause" json:"max_empty_blocks_before_pause"`
	TickerInterval            time.Duration `mapstructure:"ticker_interval" json:"ticker_interval"`
	MaxBlockSize              int           `mapstructure:"max_block_size" json:"max_block_size"`
	BlockReward               string        `mapstructure:"block_reward" json:"block_reward"`
	RewardToken               string        `mapstructure:"reward_token" json:"reward_token"`
	MerkleDepth               int           `mapstructure:"merkle_depth" json:"merkle_depth"`
	MerkleGraceWindow         int           `mapstructure:"merkle_grace_window" json:"merkle_grace_window"`
	CircuitKeys               []CircuitKey  `mapstructure:"circuit_keys" json:"circuit_keys"`
}

// Config is the unified configuration for a HushNode process.
type Config struct {
	Network struct {
		NativeRPCPort int `mapstructure:"native_rpc_port" json:"native_rpc_port"`
		WebPort       int `mapstructure:"web_port" json:"web_port"`
		MetricsPort   int `mapstructure:"metrics_port" json:"metrics_port"`
	} `mapstructure:"network" json:"network"`

	Storage struct {
		ConnectionString string `mapstructure:"connection_string" json:"connection_string"`
	} `mapstructure:"storage" json:"storage"`

	Cache struct {
		ConnectionString string `mapstructure:"connection_string" json:"connection_string"`
	} `mapstructure:"cache" json:"cache"`

	Producer struct {
		CredentialFile string `mapstructure:"credential_file" json:"credential_file"`
	} `mapstructure:"producer" json:"producer"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
	} `mapstructure:"logging" json:"logging"`

	BlockchainSettings BlockchainSettings `mapstructure:"blockchain_settings" json:"blockchain_settings"`
}

// Default returns a Config populated with the spec's documented defaults
// (3s ticker, 100 empty blocks before pause, merkle depth 20, grace 3).
func Default() Config {
	var c Config
	c.Network.NativeRPCPort = 9090
	c.Network.WebPort = 8090
	c.Network.MetricsPort = 2112
	c.Storage.ConnectionString = "hushnode.db"
	c.Cache.ConnectionString = "memory"
	c.Logging.Level = "info"
	c.BlockchainSettings = BlockchainSettings{
		MaxEmptyBlocksBeforePause: 100,
		TickerInterval:            3 * time.Second,
		MaxBlockSize:              500,
		BlockReward:               "1.000000000",
		RewardToken:               "HUSH",
		MerkleDepth:               20,
		MerkleGraceWindow:         3,
	}
	return c
}

// AppConfig holds the configuration loaded via Load.
var AppConfig = Default()

// Load reads a YAML configuration file plus an optional .env overlay (for
// secrets such as the credential file path) and merges environment-specific
// overrides identified by env. If path is empty, only defaults plus
// environment variables are used.
func Load(path, env string) (*Config, error) {
	cfg := Default()

	_ = godotenv.Load() // optional local .env; absence is not an error

	v := viper.New()
	v.SetEnvPrefix("HUSHNODE")
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, utils.WrapKind(utils.ErrStorageUnavailable, err, "load config")
		}
		if env != "" {
			v.SetConfigName(env)
			if err := v.MergeInConfig(); err != nil {
				return nil, utils.WrapKind(utils.ErrStorageUnavailable, err, fmt.Sprintf("merge %s config", env))
			}
		}
		if err := v.Unmarshal(&cfg); err != nil {
			return nil, utils.Wrap(err, "unmarshal config")
		}
	}

	AppConfig = cfg
	return &cfg, nil
}
