package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"github.com/google/tink/go/subtle/random"
	"github.com/idena-network/idena-oracle/common"
	"github.com/idena-network/idena-oracle/common/fixedpoint"
	"github.com/idena-network/idena-oracle/core/engine"
	"github.com/idena-network/idena-oracle/core/oracle"
	"github.com/idena-network/idena-oracle/database"
	"github.com/idena-network/idena-oracle/node"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"
	"strings"
)

const hashDescription = `The commitment is keccak256 of the vote in its exact decimal form followed by
   the salt. Votes are stored as Q32.32 numbers, so a value such as 0.1 that is not a
   multiple of 2^-32 is rejected rather than hashed as its truncated expansion.`

var (
	mintFlag = cli.StringFlag{
		Name:  "mint",
		Usage: "Token mint address",
	}
	fromFlag = cli.StringFlag{
		Name:  "from",
		Usage: "Sender address",
	}
	toFlag = cli.StringFlag{
		Name:  "to",
		Usage: "Recipient address",
	}
	nameFlag = cli.StringFlag{
		Name:  "name",
		Usage: "Proposal name",
	}
	descriptionFlag = cli.StringFlag{
		Name:  "description",
		Usage: "Proposal description",
	}
	amountFlag = cli.Uint64Flag{
		Name:  "amount",
		Usage: "Amount in token base units",
	}
	voteFlag = cli.StringFlag{
		Name:  "vote",
		Usage: "Vote value, a decimal that is an exact multiple of 2^-32 (e.g. 1.5, -0.25)",
	}
	saltFlag = cli.StringFlag{
		Name:  "salt",
		Usage: "Commitment salt",
	}
	hashFlag = cli.StringFlag{
		Name:  "hash",
		Usage: "Vote commitment (hex)",
	}
	fieldFlag = cli.StringFlag{
		Name:  "field",
		Usage: "Config field name",
	}
	valueFlag = cli.Uint64Flag{
		Name:  "value",
		Usage: "New raw field value",
	}
	outFlag = cli.StringFlag{
		Name:  "out",
		Usage: "Backup directory",
	}
	fromSeqFlag = cli.Uint64Flag{
		Name:  "seq",
		Usage: "First journal entry to show",
	}
)

var commands = []cli.Command{
	{
		Name:   "init-config",
		Usage:  "create protocol parameters of a token mint",
		Flags:  []cli.Flag{mintFlag, fromFlag},
		Action: initConfig,
	},
	{
		Name:   "update-config",
		Usage:  "change one protocol parameter",
		Flags:  []cli.Flag{mintFlag, fromFlag, fieldFlag, valueFlag},
		Action: updateConfig,
	},
	{
		Name:   "propose",
		Usage:  "open a new question",
		Flags:  []cli.Flag{mintFlag, fromFlag, nameFlag, descriptionFlag, amountFlag},
		Action: propose,
	},
	{
		Name:   "salt",
		Usage:  "generate a random salt",
		Action: salt,
	},
	{
		Name:        "hash",
		Usage:       "compute a vote commitment",
		Description: hashDescription,
		Flags:       []cli.Flag{voteFlag, saltFlag},
		Action:      hash,
	},
	{
		Name:   "commit",
		Usage:  "commit a secret vote",
		Flags:  []cli.Flag{fromFlag, nameFlag, hashFlag},
		Action: commit,
	},
	{
		Name:   "update",
		Usage:  "replace a committed vote",
		Flags:  []cli.Flag{fromFlag, nameFlag, hashFlag},
		Action: update,
	},
	{
		Name:   "cancel",
		Usage:  "withdraw a committed vote",
		Flags:  []cli.Flag{fromFlag, nameFlag},
		Action: cancel,
	},
	{
		Name:   "reveal",
		Usage:  "open a committed vote",
		Flags:  []cli.Flag{fromFlag, nameFlag, voteFlag, saltFlag},
		Action: reveal,
	},
	{
		Name:   "finalize",
		Usage:  "compute consensus and precision after the reveal window",
		Flags:  []cli.Flag{nameFlag},
		Action: finalize,
	},
	{
		Name:   "collect-proposer",
		Usage:  "collect the proposer reward",
		Flags:  []cli.Flag{fromFlag, nameFlag},
		Action: collectProposer,
	},
	{
		Name:   "collect-vote",
		Usage:  "collect a vote reward or refund",
		Flags:  []cli.Flag{fromFlag, nameFlag},
		Action: collectVote,
	},
	{
		Name:   "collect-fees",
		Usage:  "collect accrued protocol fees",
		Flags:  []cli.Flag{fromFlag, nameFlag},
		Action: collectFees,
	},
	{
		Name:   "show",
		Usage:  "print a proposal, its phase and ballots",
		Flags:  []cli.Flag{nameFlag},
		Action: show,
	},
	{
		Name:   "list",
		Usage:  "print all proposals",
		Action: list,
	},
	{
		Name:   "balance",
		Usage:  "print a token balance",
		Flags:  []cli.Flag{mintFlag, toFlag},
		Action: balance,
	},
	{
		Name:   "mint",
		Usage:  "credit tokens",
		Flags:  []cli.Flag{mintFlag, toFlag, amountFlag},
		Action: mint,
	},
	{
		Name:   "journal",
		Usage:  "print recorded token movements",
		Flags:  []cli.Flag{fromSeqFlag},
		Action: journal,
	},
	{
		Name:   "backup",
		Usage:  "copy the database into another directory",
		Flags:  []cli.Flag{outFlag},
		Action: backup,
	},
}

func requireAddress(ctx *cli.Context, flag cli.StringFlag) (common.Address, error) {
	s := ctx.String(flag.Name)
	if s == "" {
		return common.Address{}, errors.Errorf("--%v is required", flag.Name)
	}
	var addr common.Address
	if err := addr.UnmarshalText([]byte(s)); err != nil {
		return common.Address{}, errors.Wrapf(err, "invalid --%v", flag.Name)
	}
	return addr, nil
}

func requireString(ctx *cli.Context, flag cli.StringFlag) (string, error) {
	s := ctx.String(flag.Name)
	if s == "" {
		return "", errors.Errorf("--%v is required", flag.Name)
	}
	return s, nil
}

func parseHash(ctx *cli.Context) ([]byte, error) {
	s, err := requireString(ctx, hashFlag)
	if err != nil {
		return nil, err
	}
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func initConfig(ctx *cli.Context) error {
	mint, err := requireAddress(ctx, mintFlag)
	if err != nil {
		return err
	}
	authority, err := requireAddress(ctx, fromFlag)
	if err != nil {
		return err
	}
	return withNode(ctx.Parent(), func(n *node.Node) error {
		params, err := n.Config().Oracle.ToOracleConfig(mint, authority)
		if err != nil {
			return err
		}
		cfg, err := n.Engine().InitConfig(context.Background(), authority, *params)
		if err != nil {
			return err
		}
		return printJSON(cfg)
	})
}

func updateConfig(ctx *cli.Context) error {
	mint, err := requireAddress(ctx, mintFlag)
	if err != nil {
		return err
	}
	caller, err := requireAddress(ctx, fromFlag)
	if err != nil {
		return err
	}
	fieldName, err := requireString(ctx, fieldFlag)
	if err != nil {
		return err
	}
	field, err := oracle.ParseConfigField(fieldName)
	if err != nil {
		return err
	}
	return withNode(ctx.Parent(), func(n *node.Node) error {
		change, err := n.Engine().UpdateConfig(context.Background(), caller, mint, engine.ConfigUpdate{
			Field: field,
			Value: ctx.Uint64(valueFlag.Name),
		})
		if err != nil {
			return err
		}
		fmt.Printf("%v: %d -> %d\n", change.Field, change.Before, change.After)
		return nil
	})
}

func propose(ctx *cli.Context) error {
	mint, err := requireAddress(ctx, mintFlag)
	if err != nil {
		return err
	}
	proposer, err := requireAddress(ctx, fromFlag)
	if err != nil {
		return err
	}
	return withNode(ctx.Parent(), func(n *node.Node) error {
		p, err := n.Engine().Propose(context.Background(), proposer, engine.ProposeArgs{
			TokenMint:   mint,
			Name:        ctx.String(nameFlag.Name),
			Description: ctx.String(descriptionFlag.Name),
			Stake:       ctx.Uint64(amountFlag.Name),
		})
		if err != nil {
			return err
		}
		return printJSON(p)
	})
}

func salt(ctx *cli.Context) error {
	fmt.Println(hex.EncodeToString(random.GetRandomBytes(16)))
	return nil
}

func parseVote(ctx *cli.Context) (fixedpoint.Q32, error) {
	s, err := requireString(ctx, voteFlag)
	if err != nil {
		return 0, err
	}
	return fixedpoint.ParseExactQ32(s)
}

func hash(ctx *cli.Context) error {
	vote, err := parseVote(ctx)
	if err != nil {
		return err
	}
	s, err := requireString(ctx, saltFlag)
	if err != nil {
		return err
	}
	fmt.Println(oracle.VoteHash(vote, s).Hex())
	return nil
}

func commit(ctx *cli.Context) error {
	voter, err := requireAddress(ctx, fromFlag)
	if err != nil {
		return err
	}
	h, err := parseHash(ctx)
	if err != nil {
		return err
	}
	return withNode(ctx.Parent(), func(n *node.Node) error {
		v, err := n.Engine().CommitVote(context.Background(), voter, ctx.String(nameFlag.Name), h)
		if err != nil {
			return err
		}
		return printJSON(v)
	})
}

func update(ctx *cli.Context) error {
	voter, err := requireAddress(ctx, fromFlag)
	if err != nil {
		return err
	}
	h, err := parseHash(ctx)
	if err != nil {
		return err
	}
	return withNode(ctx.Parent(), func(n *node.Node) error {
		return n.Engine().UpdateVote(context.Background(), voter, ctx.String(nameFlag.Name), h)
	})
}

func cancel(ctx *cli.Context) error {
	voter, err := requireAddress(ctx, fromFlag)
	if err != nil {
		return err
	}
	return withNode(ctx.Parent(), func(n *node.Node) error {
		refund, err := n.Engine().CancelVote(context.Background(), voter, ctx.String(nameFlag.Name))
		if err != nil {
			return err
		}
		fmt.Printf("refunded %d\n", refund)
		return nil
	})
}

func reveal(ctx *cli.Context) error {
	voter, err := requireAddress(ctx, fromFlag)
	if err != nil {
		return err
	}
	vote, err := parseVote(ctx)
	if err != nil {
		return err
	}
	return withNode(ctx.Parent(), func(n *node.Node) error {
		return n.Engine().RevealVote(context.Background(), voter, ctx.String(nameFlag.Name), vote, ctx.String(saltFlag.Name))
	})
}

func finalize(ctx *cli.Context) error {
	return withNode(ctx.Parent(), func(n *node.Node) error {
		p, err := n.Engine().FinalizeVoteResults(context.Background(), ctx.String(nameFlag.Name))
		if err != nil {
			return err
		}
		fmt.Printf("consensus %v, scale parameter %v\n", p.Consensus, p.ScaleParameter)
		return nil
	})
}

func collect(ctx *cli.Context, fn func(e *engine.Engine, caller common.Address, name string) (uint64, error)) error {
	caller, err := requireAddress(ctx, fromFlag)
	if err != nil {
		return err
	}
	return withNode(ctx.Parent(), func(n *node.Node) error {
		amount, err := fn(n.Engine(), caller, ctx.String(nameFlag.Name))
		if err != nil {
			return err
		}
		fmt.Printf("paid %d\n", amount)
		return nil
	})
}

func collectProposer(ctx *cli.Context) error {
	return collect(ctx, func(e *engine.Engine, caller common.Address, name string) (uint64, error) {
		return e.CollectProposerReward(context.Background(), caller, name)
	})
}

func collectVote(ctx *cli.Context) error {
	return collect(ctx, func(e *engine.Engine, caller common.Address, name string) (uint64, error) {
		return e.CollectVoteReward(context.Background(), caller, name)
	})
}

func collectFees(ctx *cli.Context) error {
	return collect(ctx, func(e *engine.Engine, caller common.Address, name string) (uint64, error) {
		return e.CollectProtocolFees(context.Background(), caller, name)
	})
}

type proposalView struct {
	Proposal      *oracle.Proposal
	Phase         string
	RevealedVotes []fixedpoint.Q32
	Ballots       []*oracle.VoteAccount
}

func show(ctx *cli.Context) error {
	name, err := requireString(ctx, nameFlag)
	if err != nil {
		return err
	}
	return withNode(ctx.Parent(), func(n *node.Node) error {
		e := n.Engine()
		p, err := e.Proposal(name)
		if err != nil {
			return err
		}
		rv, err := e.RevealedVotes(name)
		if err != nil {
			return err
		}
		ballots, err := e.VoteAccounts(name)
		if err != nil {
			return err
		}
		return printJSON(&proposalView{
			Proposal:      p,
			Phase:         p.Phase(n.Clock().Now()).String(),
			RevealedVotes: rv.Votes(),
			Ballots:       ballots,
		})
	})
}

func list(ctx *cli.Context) error {
	return withNode(ctx.Parent(), func(n *node.Node) error {
		proposals, err := n.Engine().Proposals()
		if err != nil {
			return err
		}
		now := n.Clock().Now()
		for _, p := range proposals {
			fmt.Printf("%-32s %-20v votes %d/%d revealed %d\n", p.Name, p.Phase(now), p.Votes, p.RequiredVotes, p.RevealedVotes)
		}
		return nil
	})
}

func balance(ctx *cli.Context) error {
	mint, err := requireAddress(ctx, mintFlag)
	if err != nil {
		return err
	}
	addr, err := requireAddress(ctx, toFlag)
	if err != nil {
		return err
	}
	return withNode(ctx.Parent(), func(n *node.Node) error {
		fmt.Println(n.Engine().Balance(mint, addr))
		return nil
	})
}

func mint(ctx *cli.Context) error {
	mintAddr, err := requireAddress(ctx, mintFlag)
	if err != nil {
		return err
	}
	to, err := requireAddress(ctx, toFlag)
	if err != nil {
		return err
	}
	return withNode(ctx.Parent(), func(n *node.Node) error {
		return n.Engine().Mint(context.Background(), mintAddr, to, ctx.Uint64(amountFlag.Name))
	})
}

func journal(ctx *cli.Context) error {
	return withNode(ctx.Parent(), func(n *node.Node) error {
		return n.Journal().Iterate(ctx.Uint64(fromSeqFlag.Name), func(entry *database.JournalEntry) bool {
			fmt.Printf("%6d %d %-14s %-32s %v %d\n", entry.Seq, entry.Time, entry.Kind, entry.Proposal, entry.Account.Hex(), entry.Amount)
			return false
		})
	})
}

func backup(ctx *cli.Context) error {
	out, err := requireString(ctx, outFlag)
	if err != nil {
		return err
	}
	return withNode(ctx.Parent(), func(n *node.Node) error {
		count, err := n.Backup(out)
		if err != nil {
			return err
		}
		fmt.Printf("copied %d keys\n", count)
		return nil
	})
}
