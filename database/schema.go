package database

const SchemaVersion = "1.0.0"

var (
	// schemaVersionKey holds the semver of the layout the database was created with.
	schemaVersionKey = []byte("schema")

	// headVersionKey tracks the latest committed state tree version.
	headVersionKey = []byte("head")

	journalPrefix = []byte("jrn")

	journalSeqKey = []byte("seq-jrn")
)
