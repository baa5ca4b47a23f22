package database

import (
	dbm "github.com/tendermint/tm-db"
)

const copyBatchSize = 1000

// Copy writes every key of source into dest in batches.
func Copy(source, dest dbm.DB) (int, error) {
	it, err := source.Iterator(nil, nil)
	if err != nil {
		return 0, err
	}
	defer it.Close()

	batch := dest.NewBatch()
	count, pending := 0, 0
	for ; it.Valid(); it.Next() {
		batch.Set(it.Key(), it.Value())
		pending++
		if pending == copyBatchSize {
			if err := batch.WriteSync(); err != nil {
				batch.Close()
				return count, err
			}
			batch.Close()
			count += pending
			pending = 0
			batch = dest.NewBatch()
		}
	}
	defer batch.Close()
	if err := batch.WriteSync(); err != nil {
		return count, err
	}
	return count + pending, nil
}

// Backup copies db into a new leveldb database under datadir.
func Backup(db dbm.DB, datadir string) (int, error) {
	dest, err := OpenDatabase(datadir, DbName, 16, 16)
	if err != nil {
		return 0, err
	}
	defer dest.Close()
	return Copy(db, dest)
}
