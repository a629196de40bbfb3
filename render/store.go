package render

import (
	"fmt"
	"io"
	"time"

	"github.com/amazon-ion/ion-go/ion"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"pdfdesigner/common"
)

const schema = `
CREATE TABLE IF NOT EXISTS plans (
	id      TEXT PRIMARY KEY,
	name    TEXT NOT NULL,
	created INTEGER NOT NULL,
	pages   INTEGER NOT NULL,
	payload BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS plans_name ON plans(name);
`

// Store keeps page maps in SQLite database, payload is binary Ion.
type Store struct {
	conn *sqlite.Conn
	log  *zap.Logger
}

// StoredPlan describes plan kept in the store.
type StoredPlan struct {
	ID      string
	Name    string
	Created time.Time
	Pages   int
}

// OpenStore opens or creates plan database at path.
func OpenStore(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		return nil, fmt.Errorf("unable to open plan store %q: %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to prepare plan store %q: %w", path, err)
	}
	log = log.Named("store")
	log.Debug("Plan store opened", zap.String("path", path))
	return &Store{conn: conn, log: log}, nil
}

// Save stores plan replacing one with the same id.
func (s *Store) Save(p *Plan) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("%w: plan without id cannot be stored", common.ErrConfiguration)
	}
	payload, err := ion.MarshalBinary(p)
	if err != nil {
		return fmt.Errorf("unable to encode plan %q: %w", p.ID, err)
	}
	err = sqlitex.Execute(s.conn,
		`INSERT OR REPLACE INTO plans (id, name, created, pages, payload) VALUES (?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{p.ID, p.Name, time.Now().UnixMilli(), len(p.Pages), payload}})
	if err != nil {
		return fmt.Errorf("unable to save plan %q: %w", p.ID, err)
	}
	s.log.Debug("Plan saved", zap.String("id", p.ID), zap.String("name", p.Name), zap.Int("bytes", len(payload)))
	return nil
}

// Load returns plan by id.
func (s *Store) Load(id string) (*Plan, error) {
	var payload []byte
	err := sqlitex.Execute(s.conn, `SELECT payload FROM plans WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				payload, err = io.ReadAll(stmt.ColumnReader(0))
				return err
			},
		})
	if err != nil {
		return nil, fmt.Errorf("unable to load plan %q: %w", id, err)
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: plan %q is not in the store", common.ErrNotFound, id)
	}
	var p Plan
	if err := ion.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("unable to decode plan %q: %w", id, err)
	}
	return &p, nil
}

// List returns stored plans, oldest first.
func (s *Store) List() ([]StoredPlan, error) {
	var out []StoredPlan
	err := sqlitex.Execute(s.conn, `SELECT id, name, created, pages FROM plans ORDER BY created, id`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			out = append(out, StoredPlan{
				ID:      stmt.ColumnText(0),
				Name:    stmt.ColumnText(1),
				Created: time.UnixMilli(stmt.ColumnInt64(2)),
				Pages:   stmt.ColumnInt(3),
			})
			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("unable to list plans: %w", err)
	}
	return out, nil
}

// Delete removes plan, reports whether it was present.
func (s *Store) Delete(id string) (bool, error) {
	err := sqlitex.Execute(s.conn, `DELETE FROM plans WHERE id = ?`, &sqlitex.ExecOptions{Args: []any{id}})
	if err != nil {
		return false, fmt.Errorf("unable to delete plan %q: %w", id, err)
	}
	return s.conn.Changes() > 0, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}
