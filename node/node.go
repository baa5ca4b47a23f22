package node

import (
	"github.com/idena-network/idena-oracle/common"
	"github.com/idena-network/idena-oracle/common/eventbus"
	"github.com/idena-network/idena-oracle/config"
	"github.com/idena-network/idena-oracle/core/engine"
	"github.com/idena-network/idena-oracle/core/ledger"
	"github.com/idena-network/idena-oracle/core/state"
	"github.com/idena-network/idena-oracle/database"
	"github.com/idena-network/idena-oracle/events"
	"github.com/idena-network/idena-oracle/log"
	"github.com/idena-network/idena-oracle/stats/collector"
	"github.com/pkg/errors"
	"github.com/rcrowley/go-metrics"
	dbm "github.com/tendermint/tm-db"
)

type Node struct {
	config  *config.Config
	db      dbm.DB
	repo    *database.Repo
	journal *database.Journal
	bus     eventbus.Bus
	stats   collector.StatsCollector
	clock   common.Clock
	state   *state.StateDB
	engine  *engine.Engine
	log     log.Logger
}

func NewNode(cfg *config.Config) (*Node, error) {
	db, err := database.OpenDatabase(cfg.DataDir, database.DbName, cfg.Database.Cache, cfg.Database.Handles)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	return NewNodeWithDb(cfg, db), nil
}

func NewNodeWithDb(cfg *config.Config, db dbm.DB) *Node {
	var clock common.Clock = common.SystemClock{}
	if cfg.Time != 0 {
		clock = common.NewManualClock(cfg.Time)
	}
	powers := ledger.NewStaticVotingPower()
	for addr, power := range cfg.VotingPower.Powers {
		powers.Set(addr, power)
	}
	stateDb := state.NewLazy(db)
	bus := eventbus.New()
	stats := collector.NewMetricsCollector(metrics.NewRegistry())
	votingPower := ledger.NewCachedVotingPower(powers, cfg.VotingPower.TTL())
	return &Node{
		config:  cfg,
		db:      db,
		repo:    database.NewRepo(db),
		journal: database.NewJournal(db),
		bus:     bus,
		stats:   stats,
		clock:   clock,
		state:   stateDb,
		engine:  engine.NewEngine(stateDb, ledger.NewStateLedger(stateDb), votingPower, clock, bus, stats),
		log:     log.New("component", "node"),
	}
}

// Start checks the database schema, loads the latest committed state and
// starts journaling token movements. The head recorded by Stop is a lower
// bound, since operations committed after it survive an unclean shutdown.
func (node *Node) Start() error {
	if err := node.repo.EnsureSchema(database.SchemaVersion); err != nil {
		return err
	}
	head, err := node.repo.ReadHeadVersion()
	if err != nil {
		return err
	}
	if err := node.state.Load(0); err != nil {
		return errors.Wrap(err, "failed to load state")
	}
	if node.state.Version() < head {
		return errors.Errorf("state version %d is behind recorded head %d", node.state.Version(), head)
	}
	node.log.Debug("state loaded", "version", node.state.Version(), "root", node.state.Root().Hex())
	return node.subscribeJournal()
}

func (node *Node) subscribeJournal() error {
	handlers := map[eventbus.EventID]func(e eventbus.Event) database.JournalEntry{
		events.ProposalCreatedEventID: func(e eventbus.Event) database.JournalEntry {
			ev := e.(*events.ProposalCreatedEvent)
			return database.JournalEntry{Kind: "proposer-stake", Proposal: ev.Name, Account: ev.Proposer, Amount: ev.Stake}
		},
		events.VoteCommittedEventID: func(e eventbus.Event) database.JournalEntry {
			ev := e.(*events.VoteCommittedEvent)
			return database.JournalEntry{Kind: "vote-stake", Proposal: ev.Proposal, Account: ev.Voter, Amount: ev.Staked}
		},
		events.VoteCancelledEventID: func(e eventbus.Event) database.JournalEntry {
			ev := e.(*events.VoteCancelledEvent)
			return database.JournalEntry{Kind: "cancel-refund", Proposal: ev.Proposal, Account: ev.Voter, Amount: ev.Refund}
		},
		events.RewardPaidEventID: func(e eventbus.Event) database.JournalEntry {
			ev := e.(*events.RewardPaidEvent)
			return database.JournalEntry{Kind: ev.Kind.String(), Proposal: ev.Proposal, Account: ev.Recipient, Amount: ev.Amount}
		},
	}
	for id, toEntry := range handlers {
		toEntry := toEntry
		err := node.bus.Subscribe(id, func(e eventbus.Event) {
			entry := toEntry(e)
			entry.Time = node.clock.Now()
			if _, err := node.journal.Append(entry); err != nil {
				node.log.Error("failed to write journal entry", "kind", entry.Kind, "err", err)
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Stop records the committed state version and closes the database.
func (node *Node) Stop() error {
	node.bus.WaitAsync()
	if err := node.repo.WriteHeadVersion(node.state.Version()); err != nil {
		return err
	}
	s := node.stats.Stats()
	node.log.Debug("oracle stats", "proposals", s.Proposals, "commits", s.CommittedVotes,
		"reveals", s.RevealedVotes, "failed", s.FailedOperations)
	return node.db.Close()
}

// Backup copies the whole database into a new leveldb under datadir.
func (node *Node) Backup(datadir string) (int, error) {
	return database.Backup(node.db, datadir)
}

func (node *Node) Engine() *engine.Engine {
	return node.engine
}

func (node *Node) Journal() *database.Journal {
	return node.journal
}

func (node *Node) Config() *config.Config {
	return node.config
}

func (node *Node) Clock() common.Clock {
	return node.clock
}
