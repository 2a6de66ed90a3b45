package storage

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	_ "modernc.org/sqlite"
)

// Record is one indexed chunk with its embedding.
type Record struct {
	ID        string
	Source    string
	Page      int
	Index     int
	Text      string
	Embedding []float32
}

// Match is a search hit. Score is the cosine similarity to the query.
type Match struct {
	Record
	Score float64
}

// VectorIndex keeps chunk embeddings in sqlite and answers nearest-neighbour
// queries by brute-force cosine similarity.
type VectorIndex struct {
	db        *sql.DB
	path      string
	dimension int
}

// Open opens (or creates) the index. An empty path means an in-memory database.
func Open(path string) (*VectorIndex, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A second connection to :memory: would see an empty database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	idx := &VectorIndex{db: db, path: path}
	if err := idx.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return idx, nil
}

func (v *VectorIndex) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS chunks (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		source TEXT NOT NULL,
		page INTEGER NOT NULL,
		chunk_index INTEGER NOT NULL,
		content TEXT NOT NULL,
		embedding BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source);
	`
	if _, err := v.db.Exec(schema); err != nil {
		return err
	}

	// Pick up the dimension of an index persisted by an earlier run
	var blob []byte
	err := v.db.QueryRow(`SELECT embedding FROM chunks ORDER BY seq LIMIT 1`).Scan(&blob)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("failed to read stored dimension: %w", err)
	default:
		v.dimension = len(blob) / 4
	}
	return nil
}

// Path returns the database location (":memory:" for in-memory indexes).
func (v *VectorIndex) Path() string {
	return v.path
}

// Dimension returns the embedding size of stored records, 0 while empty.
func (v *VectorIndex) Dimension() int {
	return v.dimension
}

// Replace swaps the whole index content for records in a single transaction.
// Either all records are stored or the previous content is kept.
func (v *VectorIndex) Replace(ctx context.Context, records []Record) error {
	dimension := 0
	for _, r := range records {
		if len(r.Embedding) == 0 {
			return fmt.Errorf("record %s has no embedding", r.ID)
		}
		if dimension == 0 {
			dimension = len(r.Embedding)
		}
		if len(r.Embedding) != dimension {
			return fmt.Errorf("record %s has dimension %d, index uses %d", r.ID, len(r.Embedding), dimension)
		}
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, source, page, chunk_index, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.ID, r.Source, r.Page, r.Index, r.Text, encodeEmbedding(r.Embedding)); err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index: %w", err)
	}

	v.dimension = dimension
	return nil
}

// Search returns the k records most similar to query, best first. Records
// with equal scores keep their insertion order.
func (v *VectorIndex) Search(ctx context.Context, query []float32, k int) ([]Match, error) {
	if k <= 0 {
		return nil, nil
	}
	if v.dimension != 0 && len(query) != v.dimension {
		return nil, fmt.Errorf("query has dimension %d, index uses %d", len(query), v.dimension)
	}

	rows, err := v.db.QueryContext(ctx, `
		SELECT id, source, page, chunk_index, content, embedding
		FROM chunks ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var blob []byte
		if err := rows.Scan(&m.ID, &m.Source, &m.Page, &m.Index, &m.Text, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		m.Embedding = decodeEmbedding(blob)
		m.Score = cosineSimilarity(query, m.Embedding)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chunks: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Count returns the number of stored records.
func (v *VectorIndex) Count(ctx context.Context) (int, error) {
	var n int
	if err := v.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return n, nil
}

// Sources returns the distinct document sources with their chunk counts.
func (v *VectorIndex) Sources(ctx context.Context) (map[string]int, error) {
	rows, err := v.db.QueryContext(ctx, `SELECT source, COUNT(*) FROM chunks GROUP BY source`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	sources := make(map[string]int)
	for rows.Next() {
		var source string
		var n int
		if err := rows.Scan(&source, &n); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources[source] = n
	}
	return sources, rows.Err()
}

func (v *VectorIndex) Close() error {
	return v.db.Close()
}

// encodeEmbedding stores each float32 as 4 little-endian bytes.
func encodeEmbedding(embedding []float32) []byte {
	data := make([]byte, len(embedding)*4)
	for i, f := range embedding {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(f))
	}
	return data
}

func decodeEmbedding(data []byte) []float32 {
	if len(data)%4 != 0 {
		return nil
	}
	embedding := make([]float32, len(data)/4)
	for i := range embedding {
		embedding[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return embedding
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
