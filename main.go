package main

import (
	"github.com/idena-network/idena-oracle/config"
	"github.com/idena-network/idena-oracle/log"
	"github.com/idena-network/idena-oracle/node"
	"gopkg.in/urfave/cli.v1"
	"os"
)

const AppVersion = "0.1.0"

func main() {
	app := cli.NewApp()
	app.Name = "idena-oracle"
	app.Usage = "commit-reveal oracle resolution"
	app.Version = AppVersion

	app.Flags = []cli.Flag{
		config.CfgFileFlag,
		config.DataDirFlag,
		config.VerbosityFlag,
		config.TimeFlag,
		config.DbCacheFlag,
		config.DbHandlesFlag,
		config.PowerCacheTTLFlag,
		config.VotingLengthFlag,
		config.RevealLengthFlag,
		config.DecimalsFlag,
	}
	app.Commands = commands

	err := app.Run(os.Args)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

// withNode starts a node over the datadir, runs fn and stops the node.
func withNode(ctx *cli.Context, fn func(n *node.Node) error) error {
	cfg, err := config.MakeConfig(ctx)
	if err != nil {
		return err
	}
	log.SetVerbosity(log.Lvl(cfg.Verbosity))

	n, err := node.NewNode(cfg)
	if err != nil {
		return err
	}
	if err := n.Start(); err != nil {
		n.Stop()
		return err
	}
	fnErr := fn(n)
	if err := n.Stop(); err != nil {
		log.Error("failed to stop node", "err", err)
	}
	return fnErr
}
