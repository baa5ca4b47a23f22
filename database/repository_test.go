package database

import (
	"github.com/coreos/go-semver/semver"
	"github.com/idena-network/idena-oracle/tests"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tm-db"
	"testing"
)

func TestRepo_EnsureSchema(t *testing.T) {
	repo := NewRepo(db.NewMemDB())

	v, err := repo.ReadSchemaVersion()
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, repo.EnsureSchema("1.0.0"))
	v, err = repo.ReadSchemaVersion()
	require.NoError(t, err)
	require.Equal(t, "1.0.0", v.String())

	require.NoError(t, repo.EnsureSchema("1.2.0"))
	v, _ = repo.ReadSchemaVersion()
	require.Equal(t, "1.2.0", v.String())

	err = repo.EnsureSchema("1.1.0")
	require.Equal(t, ErrIncompatibleSchema, errors.Cause(err))
	err = repo.EnsureSchema("2.0.0")
	require.Equal(t, ErrIncompatibleSchema, errors.Cause(err))

	require.NoError(t, repo.WriteSchemaVersion(semver.New("1.2.3")))
	require.NoError(t, repo.EnsureSchema("1.2.3"))
}

func TestJournal_AppendIterate(t *testing.T) {
	database := db.NewMemDB()
	NewRepo(database).EnsureSchema(SchemaVersion)
	journal := NewJournal(database)

	account := tests.GetRandAddr()
	for i := 0; i < 5; i++ {
		seq, err := journal.Append(JournalEntry{Time: int64(i), Kind: "voter", Proposal: "q", Account: account, Amount: uint64(i * 10)})
		require.NoError(t, err)
		require.Equal(t, uint64(i+1), seq)
	}

	var entries []*JournalEntry
	require.NoError(t, journal.Iterate(3, func(entry *JournalEntry) bool {
		entries = append(entries, entry)
		return false
	}))
	require.Len(t, entries, 3)
	require.Equal(t, uint64(3), entries[0].Seq)
	require.Equal(t, uint64(20), entries[0].Amount)
	require.Equal(t, account, entries[2].Account)

	reopened := NewJournal(database)
	seq, err := reopened.Append(JournalEntry{Kind: "fee"})
	require.NoError(t, err)
	require.Equal(t, uint64(6), seq)

	count := 0
	require.NoError(t, reopened.Iterate(0, func(entry *JournalEntry) bool {
		count++
		return count == 2
	}))
	require.Equal(t, 2, count)
}

func TestRepo_HeadVersion(t *testing.T) {
	repo := NewRepo(db.NewMemDB())
	version, err := repo.ReadHeadVersion()
	require.NoError(t, err)
	require.Zero(t, version)

	require.NoError(t, repo.WriteHeadVersion(42))
	version, err = repo.ReadHeadVersion()
	require.NoError(t, err)
	require.Equal(t, int64(42), version)
}
