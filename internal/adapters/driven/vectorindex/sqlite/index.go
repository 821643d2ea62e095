package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ferrule-labs/scantext/internal/core/domain"
	"github.com/ferrule-labs/scantext/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// dimensionsKey is the index_meta key holding the vector dimension.
const dimensionsKey = "dimensions"

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id          TEXT PRIMARY KEY,
	fingerprint TEXT NOT NULL,
	indexed_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS chunks (
	row_id      INTEGER PRIMARY KEY,
	document_id TEXT NOT NULL,
	ordinal     INTEGER NOT NULL,
	text        TEXT NOT NULL,
	embedding   BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS index_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Index is a SQLite-backed implementation of driven.VectorIndex.
// Row ids are assigned sequentially from zero per build generation and
// never reused; the only writes are whole-document appends and full
// clears, matching the append-only contract.
type Index struct {
	db   *sql.DB
	path string
}

// Open loads or initialises the index database at path.
// The vector dimension is fixed by the first appended record.
func Open(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	// WAL keeps concurrent read-only searches cheap.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialising index schema: %w", err)
	}

	return &Index{db: db, path: path}, nil
}

// Path returns the database file path.
func (x *Index) Path() string {
	return x.path
}

// Close closes the database connection.
func (x *Index) Close() error {
	return x.db.Close()
}

// Append commits one document's records plus its fingerprint in a single
// transaction. Vectors are validated against the index dimension before
// anything is written; a mismatch rejects the whole call.
func (x *Index) Append(ctx context.Context, documentID, fingerprint string, records []driven.IndexRecord) error {
	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if len(records) > 0 {
		dims, known, err := dimensionsTx(tx)
		if err != nil {
			return err
		}
		if !known {
			dims = len(records[0].Embedding)
			if dims == 0 {
				return fmt.Errorf("%w: empty embedding for %s", domain.ErrDimensionMismatch, documentID)
			}
			if _, err := tx.Exec(
				`INSERT INTO index_meta (key, value) VALUES (?, ?)`,
				dimensionsKey, strconv.Itoa(dims),
			); err != nil {
				return fmt.Errorf("storing dimension: %w", err)
			}
		}
		for i := range records {
			if len(records[i].Embedding) != dims {
				return fmt.Errorf("%w: record %d of %s has dimension %d, index has %d",
					domain.ErrDimensionMismatch, i, documentID, len(records[i].Embedding), dims)
			}
		}
	}

	var next int64
	if err := tx.QueryRow(`SELECT COALESCE(MAX(row_id) + 1, 0) FROM chunks`).Scan(&next); err != nil {
		return fmt.Errorf("next row id: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO documents (id, fingerprint, indexed_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET fingerprint = excluded.fingerprint,
		                              indexed_at  = excluded.indexed_at
	`, documentID, fingerprint); err != nil {
		return fmt.Errorf("storing fingerprint for %s: %w", documentID, err)
	}

	for i := range records {
		if _, err := tx.Exec(`
			INSERT INTO chunks (row_id, document_id, ordinal, text, embedding)
			VALUES (?, ?, ?, ?, ?)
		`, next+int64(i), records[i].DocumentID, records[i].Ordinal,
			records[i].Text, encodeVector(records[i].Embedding)); err != nil {
			return fmt.Errorf("storing chunk %d of %s: %w", records[i].Ordinal, documentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

// Fingerprint returns the stored content fingerprint for a document.
func (x *Index) Fingerprint(ctx context.Context, documentID string) (string, error) {
	var fp string
	err := x.db.QueryRowContext(ctx,
		`SELECT fingerprint FROM documents WHERE id = ?`, documentID,
	).Scan(&fp)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("fingerprint for %s: %w", documentID, err)
	}
	return fp, nil
}

// Search scans every stored vector and returns up to k hits ordered by
// descending inner product, ties broken by ascending row id.
func (x *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k < 1 {
		return nil, fmt.Errorf("search: k must be at least 1, got %d", k)
	}

	dims, known, err := x.dimensions(ctx)
	if err != nil {
		return nil, err
	}
	if !known {
		// Nothing has been appended yet.
		return []driven.VectorHit{}, nil
	}
	if len(query) != dims {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d",
			domain.ErrDimensionMismatch, len(query), dims)
	}

	rows, err := x.db.QueryContext(ctx,
		`SELECT row_id, document_id, ordinal, text, embedding FROM chunks ORDER BY row_id`)
	if err != nil {
		return nil, fmt.Errorf("scanning chunks: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit
	for rows.Next() {
		var hit driven.VectorHit
		var blob []byte
		if err := rows.Scan(&hit.RowID, &hit.DocumentID, &hit.Ordinal, &hit.Text, &blob); err != nil {
			return nil, fmt.Errorf("reading chunk row: %w", err)
		}
		vec, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", hit.RowID, err)
		}
		if len(vec) != dims {
			return nil, fmt.Errorf("%w: row %d has dimension %d, index has %d",
				domain.ErrIndexCorrupted, hit.RowID, len(vec), dims)
		}
		hit.Score = dot(query, vec)
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanning chunks: %w", err)
	}

	// Rows arrive in ascending row id order; a stable sort keeps that as
	// the tie-break for equal scores.
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if k < len(hits) {
		hits = hits[:k]
	}
	if hits == nil {
		hits = []driven.VectorHit{}
	}
	return hits, nil
}

// Rebuild clears all records, fingerprints and row ids. The next append
// starts a fresh build generation at row id zero.
func (x *Index) Rebuild(ctx context.Context) error {
	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rebuild: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, stmt := range []string{
		`DELETE FROM chunks`,
		`DELETE FROM documents`,
		`DELETE FROM index_meta`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("clearing index: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rebuild: %w", err)
	}
	return nil
}

// Stats reports stored chunk and document counts. A document counts only
// when at least one of its chunks is stored; fingerprint-only rows (blank
// scans) are tracked for skip-unchanged but are not searchable.
func (x *Index) Stats(ctx context.Context) (driven.IndexStats, error) {
	var stats driven.IndexStats

	if err := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&stats.Chunks); err != nil {
		return stats, fmt.Errorf("counting chunks: %w", err)
	}
	if err := x.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT document_id) FROM chunks`,
	).Scan(&stats.Documents); err != nil {
		return stats, fmt.Errorf("counting documents: %w", err)
	}

	dims, known, err := x.dimensions(ctx)
	if err != nil {
		return stats, err
	}
	if known {
		stats.Dimensions = dims
	}
	return stats, nil
}

func (x *Index) dimensions(ctx context.Context) (int, bool, error) {
	var value string
	err := x.db.QueryRowContext(ctx,
		`SELECT value FROM index_meta WHERE key = ?`, dimensionsKey,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading dimension: %w", err)
	}
	return parseDimensions(value)
}

func dimensionsTx(tx *sql.Tx) (int, bool, error) {
	var value string
	err := tx.QueryRow(`SELECT value FROM index_meta WHERE key = ?`, dimensionsKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading dimension: %w", err)
	}
	return parseDimensions(value)
}

func parseDimensions(value string) (int, bool, error) {
	dims, err := strconv.Atoi(value)
	if err != nil || dims <= 0 {
		return 0, false, fmt.Errorf("%w: stored dimension %q", domain.ErrIndexCorrupted, value)
	}
	return dims, true, nil
}
