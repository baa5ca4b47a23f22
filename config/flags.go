package config

import "gopkg.in/urfave/cli.v1"

const (
	DefaultDataDir       = "datadir"
	DefaultVerbosity     = 3
	DefaultDbCache       = 16
	DefaultDbHandles     = 16
	DefaultPowerCacheTTL = "1m"
)

var (
	CfgFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "JSON configuration file",
	}
	DataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "datadir for oracle state",
	}
	VerbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Log verbosity",
		Value: DefaultVerbosity,
	}
	TimeFlag = cli.Int64Flag{
		Name:  "time",
		Usage: "Unix time to use instead of the system clock",
	}
	DbCacheFlag = cli.IntFlag{
		Name:  "dbcache",
		Usage: "Database cache size (MB)",
	}
	DbHandlesFlag = cli.IntFlag{
		Name:  "dbhandles",
		Usage: "Database open files limit",
	}
	PowerCacheTTLFlag = cli.DurationFlag{
		Name:  "powercachettl",
		Usage: "How long voting power lookups are cached",
	}
	VotingLengthFlag = cli.Int64Flag{
		Name:  "votinglength",
		Usage: "Default voting window for new configs (seconds)",
	}
	RevealLengthFlag = cli.Int64Flag{
		Name:  "reveallength",
		Usage: "Default reveal window for new configs (seconds)",
	}
	DecimalsFlag = cli.IntFlag{
		Name:  "decimals",
		Usage: "Default token decimals for new configs",
	}
)
