package database

import (
	"encoding/binary"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tm-db"
	"io/ioutil"
	"os"
	"testing"
)

func TestCopy(t *testing.T) {
	source := db.NewMemDB()
	for i := 0; i < copyBatchSize*2+7; i++ {
		key := make([]byte, 4)
		binary.BigEndian.PutUint32(key, uint32(i))
		require.NoError(t, source.Set(key, []byte{byte(i)}))
	}
	dest := db.NewMemDB()
	count, err := Copy(source, dest)
	require.NoError(t, err)
	require.Equal(t, copyBatchSize*2+7, count)

	value, err := dest.Get([]byte{0, 0, 0x3, 0xe8})
	require.NoError(t, err)
	require.Equal(t, []byte{0xe8}, value)
}

func TestBackup(t *testing.T) {
	dir, err := ioutil.TempDir("", "oracle-backup")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	source := db.NewMemDB()
	repo := NewRepo(source)
	require.NoError(t, repo.EnsureSchema(SchemaVersion))
	require.NoError(t, repo.WriteHeadVersion(3))

	count, err := Backup(source, dir)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	restored, err := OpenDatabase(dir, DbName, 16, 16)
	require.NoError(t, err)
	defer restored.Close()
	version, err := NewRepo(restored).ReadHeadVersion()
	require.NoError(t, err)
	require.Equal(t, int64(3), version)
}
