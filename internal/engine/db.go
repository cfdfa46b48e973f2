// Package engine ties tables to their on-disk home: a data directory with
// one JSON meta sidecar and one page fileset per table.
package engine

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rowbase/rowbase/internal/record"
	"github.com/rowbase/rowbase/internal/storage"
	"github.com/rowbase/rowbase/internal/table"
	"github.com/rowbase/rowbase/pkg/clockx"
)

var (
	ErrTableExists   = errors.New("engine: table already exists")
	ErrTableNotFound = errors.New("engine: table not found")
)

// TableMeta is the JSON sidecar written next to a table's page files.
type TableMeta struct {
	Name      string       `json:"name"`
	Schema    table.Schema `json:"schema"`
	RowCount  int          `json:"row_count"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type Database struct {
	DataDir string
	SM      *storage.StorageManager
	Clock   clockx.Clock
}

// NewDatabase creates a database handle without touching the filesystem.
func NewDatabase(dataDir string) *Database {
	return &Database{
		DataDir: dataDir,
		SM:      storage.NewStorageManager(),
		Clock:   clockx.System{},
	}
}

func (db *Database) tableDir() string {
	return filepath.Join(db.DataDir, "tables")
}

func (db *Database) tableMetaPath(name string) string {
	return filepath.Join(db.tableDir(), name+".meta.json")
}

func (db *Database) tableFileSet(name string) storage.LocalFileSet {
	return storage.LocalFileSet{
		Dir:  db.tableDir(),
		Base: name + ".data",
	}
}

func (db *Database) writeTableMeta(meta *TableMeta) error {
	if err := os.MkdirAll(db.tableDir(), 0o755); err != nil {
		return err
	}
	meta.UpdatedAt = db.Clock.Now()

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(db.tableMetaPath(meta.Name), data, 0o644)
}

func (db *Database) readTableMeta(name string) (*TableMeta, error) {
	data, err := os.ReadFile(db.tableMetaPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	var meta TableMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// CreateTable registers a new empty table under name and returns it. The
// table lives in memory until SaveTable persists a snapshot.
func (db *Database) CreateTable(name string, schema table.Schema) (*table.Table, error) {
	if _, err := os.Stat(db.tableMetaPath(name)); err == nil {
		return nil, ErrTableExists
	}
	tbl, err := table.New(schema)
	if err != nil {
		return nil, err
	}
	meta := &TableMeta{
		Name:      name,
		Schema:    schema,
		CreatedAt: db.Clock.Now(),
	}
	if err := db.writeTableMeta(meta); err != nil {
		return nil, err
	}
	return tbl, nil
}

// OpenTable loads the last saved snapshot of name. A table that was
// created but never saved opens empty.
func (db *Database) OpenTable(name string) (*table.Table, error) {
	meta, err := db.readTableMeta(name)
	if err != nil {
		return nil, err
	}
	blob, err := db.SM.ReadBlob(db.tableFileSet(name))
	if errors.Is(err, storage.ErrNoData) {
		return table.New(meta.Schema)
	}
	if err != nil {
		return nil, err
	}
	return record.DecodeTable(blob)
}

// SaveTable writes a full snapshot of tbl and refreshes the meta sidecar.
func (db *Database) SaveTable(name string, tbl *table.Table) error {
	meta, err := db.readTableMeta(name)
	if err != nil {
		return err
	}
	blob, err := record.EncodeTable(tbl)
	if err != nil {
		return err
	}
	if err := db.SM.WriteBlob(db.tableFileSet(name), blob); err != nil {
		return err
	}
	meta.Schema = tbl.Schema()
	meta.RowCount = tbl.RowCount()
	return db.writeTableMeta(meta)
}

// DropTable removes the table's meta and data files.
func (db *Database) DropTable(name string) error {
	if _, err := db.readTableMeta(name); err != nil {
		return err
	}
	if err := db.tableFileSet(name).Remove(); err != nil {
		slog.Warn("drop table: removing data files", "table", name, "err", err)
	}
	return os.Remove(db.tableMetaPath(name))
}

// ListTables returns the names of all registered tables.
func (db *Database) ListTables() ([]string, error) {
	entries, err := os.ReadDir(db.tableDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if n, ok := strings.CutSuffix(e.Name(), ".meta.json"); ok {
			names = append(names, n)
		}
	}
	return names, nil
}

// Meta returns the stored sidecar for name.
func (db *Database) Meta(name string) (*TableMeta, error) {
	return db.readTableMeta(name)
}

func (db *Database) Close() error {
	// Nothing held open between calls; snapshots are written eagerly.
	return nil
}
