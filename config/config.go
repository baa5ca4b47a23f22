package config

import (
	"encoding/json"
	"github.com/idena-network/idena-oracle/common"
	"github.com/idena-network/idena-oracle/common/fixedpoint"
	"github.com/idena-network/idena-oracle/core/oracle"
	"github.com/idena-network/idena-oracle/log"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"
	"io/ioutil"
	"os"
	"time"
)

type Config struct {
	DataDir     string
	Verbosity   int
	Time        int64
	Database    *DatabaseConfig
	VotingPower *VotingPowerConfig
	Oracle      *OracleConfig
}

type DatabaseConfig struct {
	Cache   int
	Handles int
}

type VotingPowerConfig struct {
	CacheTTL string

	// Powers in token base units. Used by the built-in static oracle.
	Powers map[common.Address]uint64
}

// OracleConfig holds the protocol parameters used by init-config.
type OracleConfig struct {
	VotingLength          int64
	RevealLength          int64
	RequiredVotesFraction string
	DefaultRequiredVotes  uint64
	MinimumProposalStake  uint64
	VoteStakeRate         uint32
	ProtocolFeeRate       uint32
	Decimals              uint8
	RevealCapacity        uint16
}

func (c *VotingPowerConfig) TTL() time.Duration {
	ttl, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		log.Warn("invalid voting power cache ttl, using default", "ttl", c.CacheTTL)
		ttl, _ = time.ParseDuration(DefaultPowerCacheTTL)
	}
	return ttl
}

// ToOracleConfig builds the protocol parameters of mint.
func (c *OracleConfig) ToOracleConfig(mint, authority common.Address) (*oracle.Config, error) {
	fraction, err := fixedpoint.ParseQ16(c.RequiredVotesFraction)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid required votes fraction %q", c.RequiredVotesFraction)
	}
	cfg := &oracle.Config{
		TokenMint:             mint,
		ProtocolAuthority:     authority,
		VotingLength:          c.VotingLength,
		RevealLength:          c.RevealLength,
		RequiredVotesFraction: fraction,
		DefaultRequiredVotes:  c.DefaultRequiredVotes,
		MinimumProposalStake:  c.MinimumProposalStake,
		VoteStakeRate:         c.VoteStakeRate,
		ProtocolFeeRate:       c.ProtocolFeeRate,
		Decimals:              c.Decimals,
		RevealCapacity:        c.RevealCapacity,
	}
	return cfg, cfg.Validate()
}

func MakeConfig(ctx *cli.Context) (*Config, error) {
	cfg := getDefaultConfig()

	if file := ctx.String(CfgFileFlag.Name); file != "" {
		if err := loadConfig(file, cfg); err != nil {
			return nil, err
		}
	}

	applyFlags(ctx, cfg)

	return cfg, nil
}

func getDefaultConfig() *Config {
	defaults := oracle.DefaultConfig(common.Address{}, common.Address{})
	return &Config{
		DataDir:   DefaultDataDir,
		Verbosity: DefaultVerbosity,
		Database: &DatabaseConfig{
			Cache:   DefaultDbCache,
			Handles: DefaultDbHandles,
		},
		VotingPower: &VotingPowerConfig{
			CacheTTL: DefaultPowerCacheTTL,
			Powers:   make(map[common.Address]uint64),
		},
		Oracle: &OracleConfig{
			VotingLength:          defaults.VotingLength,
			RevealLength:          defaults.RevealLength,
			RequiredVotesFraction: defaults.RequiredVotesFraction.String(),
			DefaultRequiredVotes:  defaults.DefaultRequiredVotes,
			MinimumProposalStake:  defaults.MinimumProposalStake,
			VoteStakeRate:         defaults.VoteStakeRate,
			ProtocolFeeRate:       defaults.ProtocolFeeRate,
			Decimals:              defaults.Decimals,
			RevealCapacity:        defaults.RevealCapacity,
		},
	}
}

func applyFlags(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet(DataDirFlag.Name) {
		cfg.DataDir = ctx.String(DataDirFlag.Name)
	}
	if ctx.IsSet(VerbosityFlag.Name) {
		cfg.Verbosity = ctx.Int(VerbosityFlag.Name)
	}
	if ctx.IsSet(TimeFlag.Name) {
		cfg.Time = ctx.Int64(TimeFlag.Name)
	}

	applyDatabaseFlags(ctx, cfg)
	applyVotingPowerFlags(ctx, cfg)
	applyOracleFlags(ctx, cfg)
}

func applyDatabaseFlags(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet(DbCacheFlag.Name) {
		cfg.Database.Cache = ctx.Int(DbCacheFlag.Name)
	}
	if ctx.IsSet(DbHandlesFlag.Name) {
		cfg.Database.Handles = ctx.Int(DbHandlesFlag.Name)
	}
}

func applyVotingPowerFlags(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet(PowerCacheTTLFlag.Name) {
		cfg.VotingPower.CacheTTL = ctx.Duration(PowerCacheTTLFlag.Name).String()
	}
}

func applyOracleFlags(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet(VotingLengthFlag.Name) {
		cfg.Oracle.VotingLength = ctx.Int64(VotingLengthFlag.Name)
	}
	if ctx.IsSet(RevealLengthFlag.Name) {
		cfg.Oracle.RevealLength = ctx.Int64(RevealLengthFlag.Name)
	}
	if ctx.IsSet(DecimalsFlag.Name) {
		cfg.Oracle.Decimals = uint8(ctx.Int(DecimalsFlag.Name))
	}
}

func loadConfig(configPath string, conf *Config) error {
	if _, err := os.Stat(configPath); err != nil {
		return errors.Errorf("Config file cannot be found, path: %v", configPath)
	}

	if jsonFile, err := os.Open(configPath); err != nil {
		return errors.Errorf("Config file cannot be opened, path: %v", configPath)
	} else {
		defer jsonFile.Close()
		byteValue, _ := ioutil.ReadAll(jsonFile)
		err := json.Unmarshal(byteValue, &conf)
		if err != nil {
			return errors.Errorf("Cannot parse JSON config, path: %v", configPath)
		}
		return nil
	}
}
