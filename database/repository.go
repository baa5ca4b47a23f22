package database

import (
	"encoding/binary"
	"github.com/coreos/go-semver/semver"
	"github.com/pkg/errors"
	dbm "github.com/tendermint/tm-db"
)

var ErrIncompatibleSchema = errors.New("database schema is incompatible")

type Repo struct {
	db dbm.DB
}

func NewRepo(db dbm.DB) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) ReadSchemaVersion() (*semver.Version, error) {
	data, err := r.db.Get(schemaVersionKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	v, err := semver.NewVersion(string(data))
	if err != nil {
		return nil, errors.Wrap(err, "invalid schema version")
	}
	return v, nil
}

func (r *Repo) WriteSchemaVersion(v *semver.Version) error {
	return r.db.SetSync(schemaVersionKey, []byte(v.String()))
}

// EnsureSchema stamps an empty database with current and rejects a database
// written with another major version or a newer minor version.
func (r *Repo) EnsureSchema(current string) error {
	cur, err := semver.NewVersion(current)
	if err != nil {
		return err
	}
	stored, err := r.ReadSchemaVersion()
	if err != nil {
		return err
	}
	if stored == nil {
		return r.WriteSchemaVersion(cur)
	}
	if stored.Major != cur.Major || cur.LessThan(*stored) {
		return errors.Wrapf(ErrIncompatibleSchema, "stored %v, supported %v", stored, cur)
	}
	if stored.LessThan(*cur) {
		return r.WriteSchemaVersion(cur)
	}
	return nil
}

// ReadHeadVersion returns the last state version the node committed, or 0.
func (r *Repo) ReadHeadVersion() (int64, error) {
	data, err := r.db.Get(headVersionKey)
	if err != nil || len(data) != 8 {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(data)), nil
}

func (r *Repo) WriteHeadVersion(version int64) error {
	enc := make([]byte, 8)
	binary.BigEndian.PutUint64(enc, uint64(version))
	return r.db.SetSync(headVersionKey, enc)
}
