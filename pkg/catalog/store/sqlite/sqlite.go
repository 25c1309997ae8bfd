package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/internalerr"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/query"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/report"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// schema if needed.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS items (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	category TEXT NOT NULL,
	subcategory TEXT,
	sub_subcategory TEXT,
	rarity TEXT,
	game_stage TEXT,
	acquisition TEXT,
	collection_type TEXT,
	icon_path TEXT,
	updated_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_items_type ON items(type);
CREATE INDEX IF NOT EXISTS idx_items_category ON items(category);

CREATE TABLE IF NOT EXISTS ownership (
	item_id TEXT PRIMARY KEY,
	owned_at TEXT NOT NULL,
	FOREIGN KEY(item_id) REFERENCES items(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	source TEXT,
	generated_at TEXT,
	is_valid INTEGER NOT NULL,
	quality_score INTEGER NOT NULL,
	report_json TEXT NOT NULL
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertItems inserts or updates items in one transaction
func (s *sqliteStore) UpsertItems(ctx context.Context, items []item.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO items (id, name, type, category, subcategory, sub_subcategory, rarity, game_stage, acquisition, collection_type, icon_path, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name=excluded.name,
	type=excluded.type,
	category=excluded.category,
	subcategory=excluded.subcategory,
	sub_subcategory=excluded.sub_subcategory,
	rarity=excluded.rarity,
	game_stage=excluded.game_stage,
	acquisition=excluded.acquisition,
	collection_type=excluded.collection_type,
	icon_path=excluded.icon_path,
	updated_at=excluded.updated_at;
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, it := range items {
		if it.ID == "" {
			return fmt.Errorf("%w: item without id", internalerr.ErrInvalidInput)
		}
		acq, err := json.Marshal(it.Acquisition)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			it.ID, it.Name, string(it.Type), it.Category, it.Subcategory, it.SubSubcategory,
			string(it.Rarity), string(it.GameStage), string(acq), string(it.CollectionType),
			it.IconPath, now,
		); err != nil {
			return fmt.Errorf("upsert %s: %w", it.ID, err)
		}
	}
	return tx.Commit()
}

const itemColumns = `i.id, i.name, i.type, i.category, i.subcategory, i.sub_subcategory, i.rarity,
	i.game_stage, i.acquisition, i.collection_type, i.icon_path, o.item_id IS NOT NULL`

// GetItem retrieves an item by ID
func (s *sqliteStore) GetItem(ctx context.Context, id string) (item.Item, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT `+itemColumns+`
FROM items i LEFT JOIN ownership o ON o.item_id = i.id
WHERE i.id = ?;
`, id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return item.Item{}, false, nil
	}
	if err != nil {
		return item.Item{}, false, err
	}
	return it, true, nil
}

// ListItems returns items matching f ordered by ID. Exact-match fields are
// filtered in SQL; free-text search is applied afterwards.
func (s *sqliteStore) ListItems(ctx context.Context, f query.Filter) ([]item.Item, error) {
	var (
		where []string
		args  []any
	)
	eq := func(col, val string) {
		if val != "" {
			where = append(where, col+" = ?")
			args = append(args, val)
		}
	}
	eq("i.type", string(f.Type))
	eq("i.category", f.Category)
	eq("i.subcategory", f.Subcategory)
	eq("i.rarity", string(f.Rarity))
	eq("i.game_stage", string(f.GameStage))
	if f.Owned != nil {
		if *f.Owned {
			where = append(where, "o.item_id IS NOT NULL")
		} else {
			where = append(where, "o.item_id IS NULL")
		}
	}

	q := "SELECT " + itemColumns + "\nFROM items i LEFT JOIN ownership o ON o.item_id = i.id"
	if len(where) > 0 {
		q += "\nWHERE " + strings.Join(where, " AND ")
	}
	q += "\nORDER BY i.id;"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []item.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(sc scanner) (item.Item, error) {
	var (
		it                                item.Item
		typ, rarity, stage, coll, acqJSON string
		sub, subSub, icon                 sql.NullString
	)
	if err := sc.Scan(&it.ID, &it.Name, &typ, &it.Category, &sub, &subSub, &rarity,
		&stage, &acqJSON, &coll, &icon, &it.Owned); err != nil {
		return item.Item{}, err
	}
	it.Type = item.Type(typ)
	it.Subcategory = sub.String
	it.SubSubcategory = subSub.String
	it.Rarity = item.Rarity(rarity)
	it.GameStage = item.GameStage(stage)
	it.CollectionType = item.CollectionType(coll)
	it.IconPath = icon.String
	if acqJSON != "" && acqJSON != "null" {
		if err := json.Unmarshal([]byte(acqJSON), &it.Acquisition); err != nil {
			return item.Item{}, fmt.Errorf("decode acquisition for %s: %w", it.ID, err)
		}
	}
	return it, nil
}

// SetOwned flags an item as owned or clears the flag
func (s *sqliteStore) SetOwned(ctx context.Context, id string, owned bool) error {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM items WHERE id = ?;`, id).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("item %s: %w", id, internalerr.ErrNotFound)
	}

	if !owned {
		_, err = s.db.ExecContext(ctx, `DELETE FROM ownership WHERE item_id = ?;`, id)
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO ownership (item_id, owned_at) VALUES (?, ?)
ON CONFLICT(item_id) DO NOTHING;
`, id, time.Now().UTC().Format(time.RFC3339))
	return err
}

// OwnedIDs returns the set of owned item IDs
func (s *sqliteStore) OwnedIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT item_id FROM ownership;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

// SaveRun inserts or updates a run
func (s *sqliteStore) SaveRun(ctx context.Context, run report.Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return err
	}
	valid := 0
	if run.IsValid {
		valid = 1
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO runs (id, source, generated_at, is_valid, quality_score, report_json)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	source=excluded.source,
	generated_at=excluded.generated_at,
	is_valid=excluded.is_valid,
	quality_score=excluded.quality_score,
	report_json=excluded.report_json;
`, run.ID, run.Source, run.GeneratedAt.UTC().Format(time.RFC3339Nano), valid, run.QualityScore, string(data))
	return err
}

// LatestRun returns the most recent run
func (s *sqliteStore) LatestRun(ctx context.Context) (report.Run, bool, error) {
	runs, err := s.ListRuns(ctx, 1)
	if err != nil {
		return report.Run{}, false, err
	}
	if len(runs) == 0 {
		return report.Run{}, false, nil
	}
	return runs[0], true, nil
}

// ListRuns retrieves up to limit runs, newest first
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]report.Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT report_json
FROM runs
ORDER BY id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []report.Run
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var run report.Run
		if err := json.Unmarshal([]byte(data), &run); err != nil {
			return nil, fmt.Errorf("decode run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
