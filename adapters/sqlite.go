//go:build (darwin && (amd64 || arm64)) || (freebsd && (386 || amd64 || arm || arm64)) || (linux && (386 || amd64 || arm || arm64 || ppc64le || riscv64 || s390x)) || (netbsd && amd64) || (openbsd && (amd64 || arm64)) || (windows && (amd64 || arm64))

package adapters

import (
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/core/builders"
)

// Register client
func init() {
	_ = register(&SQLite{}, "sqlite", "sqlite3")
	_ = register(&Memory{}, "memory")
}

var _ core.Adapter = (*SQLite)(nil)

type SQLite struct{}

func (s *SQLite) Connect(location string) (core.Driver, error) {
	db, err := sql.Open("sqlite", location)
	if err != nil {
		return nil, &core.ConnectError{Engine: "sqlite", Location: location, Err: err}
	}

	// The store is a single handle: one writer with a stable view. This also
	// keeps every query on the same database when the location is :memory:,
	// where each new pool connection would otherwise open a fresh empty one.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &core.ConnectError{Engine: "sqlite", Location: location, Err: err}
	}

	return &sqliteDriver{
		c: builders.NewClient(db,
			builders.WithConverter("boolean", convertSQLiteBoolean),
			builders.WithErrorClassifier(classifySQLiteError),
			builders.WithExistsQuery(sqliteExistsQuery),
		),
	}, nil
}

var _ core.Adapter = (*Memory)(nil)

// Memory is the sqlite adapter pinned to an in-process database, for runs
// that should leave nothing on disk. The configured location is ignored.
type Memory struct{}

func (m *Memory) Connect(string) (core.Driver, error) {
	return (&SQLite{}).Connect(":memory:")
}
