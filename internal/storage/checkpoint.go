// Package storage persists build state to a SQLite checkpoint file.
// Saves are atomic: the state is written to a temporary file in the
// same directory, synced, and renamed over the previous checkpoint, so
// a crash mid-save never corrupts the last good state.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/citegraph/citegraph/internal/citgraph"
	"github.com/citegraph/citegraph/internal/paper"
	_ "modernc.org/sqlite"
)

// CheckpointSuffix is the conventional file suffix for checkpoints.
const CheckpointSuffix = ".citegraph.db"

// schemaVersion guards against loading a checkpoint written by an
// incompatible release.
const schemaVersion = 1

// ErrNoCheckpoint reports that no checkpoint file exists at the
// configured path.
var ErrNoCheckpoint = errors.New("no checkpoint found")

// Checkpointer saves and loads build state at a fixed path.
type Checkpointer struct {
	path   string
	logger *slog.Logger
}

// CheckpointerOption configures a Checkpointer.
type CheckpointerOption func(*Checkpointer)

// WithLogger sets the logger for checkpoint diagnostics.
func WithLogger(logger *slog.Logger) CheckpointerOption {
	return func(c *Checkpointer) {
		c.logger = logger
	}
}

// NewCheckpointer creates a Checkpointer writing to the given path.
func NewCheckpointer(path string, opts ...CheckpointerOption) *Checkpointer {
	c := &Checkpointer{path: path}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Path returns the checkpoint file path.
func (c *Checkpointer) Path() string {
	return c.path
}

// Save writes the build state to the checkpoint path atomically.
func (c *Checkpointer) Save(g *citgraph.CitationGraph) error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating checkpoint directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".citegraph-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary checkpoint: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := writeCheckpoint(tmpPath, g); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := syncFile(tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("syncing checkpoint: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing checkpoint: %w", err)
	}

	c.logger.Debug("checkpoint saved",
		"path", c.path, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return nil
}

// SaveBackup writes the state to a timestamped sibling of the primary
// checkpoint and returns the path it wrote. The primary checkpoint is
// left untouched.
func (c *Checkpointer) SaveBackup(g *citgraph.CitationGraph, now time.Time) (string, error) {
	path := backupPath(c.path, now)
	backup := NewCheckpointer(path, WithLogger(c.logger))
	if err := backup.Save(g); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}
	return path, nil
}

// backupPath derives a timestamped sibling path from the primary one,
// e.g. "run.citegraph.db" becomes "run.20260105T142233.citegraph.db".
func backupPath(path string, now time.Time) string {
	stamp := now.Format("20060102T150405")
	if strings.HasSuffix(path, CheckpointSuffix) {
		stem := strings.TrimSuffix(path, CheckpointSuffix)
		return stem + "." + stamp + CheckpointSuffix
	}
	return path + "." + stamp
}

// Load reads the checkpoint back into a build state. A missing file
// yields ErrNoCheckpoint.
func (c *Checkpointer) Load() (*citgraph.CitationGraph, error) {
	if _, err := os.Stat(c.path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoCheckpoint, c.path)
		}
		return nil, fmt.Errorf("checking checkpoint: %w", err)
	}

	db, err := sql.Open("sqlite", c.path)
	if err != nil {
		return nil, fmt.Errorf("opening checkpoint: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	g, err := readCheckpoint(db)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("checkpoint loaded",
		"path", c.path, "nodes", g.NodeCount(), "edges", g.EdgeCount(), "iter_depth", g.IterDepth)
	return g, nil
}

const checkpointSchema = `
	CREATE TABLE IF NOT EXISTS build_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		schema_version INTEGER NOT NULL,
		iter_depth INTEGER NOT NULL,
		iteration_completed INTEGER NOT NULL,
		total_retrievals INTEGER NOT NULL,
		failed_retrievals INTEGER NOT NULL,
		saved_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS nodes (
		scopus_id INTEGER PRIMARY KEY,
		node_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS edges (
		parent INTEGER NOT NULL,
		child INTEGER NOT NULL,
		weight INTEGER NOT NULL,
		PRIMARY KEY (parent, child)
	);

	-- Depths are recorded even when a layer ended up empty, so the
	-- traversal position survives the round trip exactly.
	CREATE TABLE IF NOT EXISTS layers (
		depth INTEGER PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS layer_papers (
		depth INTEGER NOT NULL,
		scopus_id INTEGER NOT NULL,
		eid TEXT NOT NULL,
		paper_json TEXT NOT NULL,
		PRIMARY KEY (depth, scopus_id, eid)
	);

	CREATE TABLE IF NOT EXISTS frontier (
		kind TEXT NOT NULL CHECK (kind IN ('parent', 'child')),
		scopus_id INTEGER NOT NULL,
		eid TEXT NOT NULL,
		paper_json TEXT NOT NULL,
		PRIMARY KEY (kind, scopus_id, eid)
	);
`

// writeCheckpoint fills a fresh SQLite file with the build state.
func writeCheckpoint(path string, g *citgraph.CitationGraph) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening checkpoint for write: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if _, err := db.Exec(checkpointSchema); err != nil {
		return fmt.Errorf("creating checkpoint schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning checkpoint transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO build_state (id, schema_version, iter_depth, iteration_completed, total_retrievals, failed_retrievals, saved_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
	`, schemaVersion, g.IterDepth, boolToInt(g.IterationCompleted),
		g.TotalRetrievals, g.FailedRetrievals, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing build state: %w", err)
	}

	nodeStmt, err := tx.Prepare(`INSERT INTO nodes (scopus_id, node_json) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing node insert: %w", err)
	}
	defer nodeStmt.Close()
	for id, node := range g.Nodes {
		nodeJSON, err := json.Marshal(node)
		if err != nil {
			return fmt.Errorf("marshaling node %d: %w", id, err)
		}
		if _, err := nodeStmt.Exec(int64(id), string(nodeJSON)); err != nil {
			return fmt.Errorf("inserting node %d: %w", id, err)
		}
	}

	edgeStmt, err := tx.Prepare(`INSERT INTO edges (parent, child, weight) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing edge insert: %w", err)
	}
	defer edgeStmt.Close()
	for k, e := range g.Edges {
		if _, err := edgeStmt.Exec(int64(k.Parent), int64(k.Child), e.Weight); err != nil {
			return fmt.Errorf("inserting edge %d->%d: %w", k.Parent, k.Child, err)
		}
	}

	layerStmt, err := tx.Prepare(`INSERT INTO layers (depth) VALUES (?)`)
	if err != nil {
		return fmt.Errorf("preparing layer insert: %w", err)
	}
	defer layerStmt.Close()
	layerPaperStmt, err := tx.Prepare(`INSERT INTO layer_papers (depth, scopus_id, eid, paper_json) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing layer paper insert: %w", err)
	}
	defer layerPaperStmt.Close()
	for depth, layer := range g.PapersByDepth {
		if _, err := layerStmt.Exec(depth); err != nil {
			return fmt.Errorf("inserting layer %d: %w", depth, err)
		}
		for _, p := range layer {
			paperJSON, err := json.Marshal(p)
			if err != nil {
				return fmt.Errorf("marshaling layer %d paper %d: %w", depth, p.ScopusID, err)
			}
			if _, err := layerPaperStmt.Exec(depth, int64(p.ScopusID), string(p.EID), string(paperJSON)); err != nil {
				return fmt.Errorf("inserting layer %d paper %d: %w", depth, p.ScopusID, err)
			}
		}
	}

	frontierStmt, err := tx.Prepare(`INSERT INTO frontier (kind, scopus_id, eid, paper_json) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing frontier insert: %w", err)
	}
	defer frontierStmt.Close()
	for kind, set := range map[string]paper.Set{"parent": g.ParentFrontier, "child": g.ChildFrontier} {
		for _, p := range set {
			paperJSON, err := json.Marshal(p)
			if err != nil {
				return fmt.Errorf("marshaling %s frontier paper %d: %w", kind, p.ScopusID, err)
			}
			if _, err := frontierStmt.Exec(kind, int64(p.ScopusID), string(p.EID), string(paperJSON)); err != nil {
				return fmt.Errorf("inserting %s frontier paper %d: %w", kind, p.ScopusID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing checkpoint: %w", err)
	}
	return nil
}

// readCheckpoint reconstructs the build state from an open checkpoint.
func readCheckpoint(db *sql.DB) (*citgraph.CitationGraph, error) {
	g := citgraph.New()

	var version, completed int
	err := db.QueryRow(`
		SELECT schema_version, iter_depth, iteration_completed, total_retrievals, failed_retrievals
		FROM build_state WHERE id = 1
	`).Scan(&version, &g.IterDepth, &completed, &g.TotalRetrievals, &g.FailedRetrievals)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("checkpoint has no build state")
		}
		return nil, fmt.Errorf("reading build state: %w", err)
	}
	if version != schemaVersion {
		return nil, fmt.Errorf("checkpoint schema version %d, expected %d", version, schemaVersion)
	}
	g.IterationCompleted = completed != 0

	nodeRows, err := db.Query(`SELECT scopus_id, node_json FROM nodes`)
	if err != nil {
		return nil, fmt.Errorf("reading nodes: %w", err)
	}
	defer nodeRows.Close()
	for nodeRows.Next() {
		var id int64
		var nodeJSON string
		if err := nodeRows.Scan(&id, &nodeJSON); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		var node citgraph.Node
		if err := json.Unmarshal([]byte(nodeJSON), &node); err != nil {
			return nil, fmt.Errorf("parsing node %d: %w", id, err)
		}
		g.Nodes[paper.ScopusID(id)] = node
	}
	if err := nodeRows.Err(); err != nil {
		return nil, fmt.Errorf("reading nodes: %w", err)
	}

	edgeRows, err := db.Query(`SELECT parent, child, weight FROM edges`)
	if err != nil {
		return nil, fmt.Errorf("reading edges: %w", err)
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		var parent, child int64
		var weight int
		if err := edgeRows.Scan(&parent, &child, &weight); err != nil {
			return nil, fmt.Errorf("scanning edge: %w", err)
		}
		k := citgraph.EdgeKey{Parent: paper.ScopusID(parent), Child: paper.ScopusID(child)}
		g.Edges[k] = citgraph.Edge{Parent: k.Parent, Child: k.Child, Weight: weight}
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("reading edges: %w", err)
	}

	layerRows, err := db.Query(`SELECT depth FROM layers`)
	if err != nil {
		return nil, fmt.Errorf("reading layers: %w", err)
	}
	defer layerRows.Close()
	for layerRows.Next() {
		var depth int
		if err := layerRows.Scan(&depth); err != nil {
			return nil, fmt.Errorf("scanning layer: %w", err)
		}
		g.PapersByDepth[depth] = paper.NewSet()
	}
	if err := layerRows.Err(); err != nil {
		return nil, fmt.Errorf("reading layers: %w", err)
	}

	paperRows, err := db.Query(`SELECT depth, paper_json FROM layer_papers`)
	if err != nil {
		return nil, fmt.Errorf("reading layer papers: %w", err)
	}
	defer paperRows.Close()
	for paperRows.Next() {
		var depth int
		var paperJSON string
		if err := paperRows.Scan(&depth, &paperJSON); err != nil {
			return nil, fmt.Errorf("scanning layer paper: %w", err)
		}
		p, err := unmarshalPaper(paperJSON)
		if err != nil {
			return nil, fmt.Errorf("parsing layer %d paper: %w", depth, err)
		}
		layer, ok := g.PapersByDepth[depth]
		if !ok {
			layer = paper.NewSet()
			g.PapersByDepth[depth] = layer
		}
		layer.Add(p)
	}
	if err := paperRows.Err(); err != nil {
		return nil, fmt.Errorf("reading layer papers: %w", err)
	}

	frontierRows, err := db.Query(`SELECT kind, paper_json FROM frontier`)
	if err != nil {
		return nil, fmt.Errorf("reading frontier: %w", err)
	}
	defer frontierRows.Close()
	for frontierRows.Next() {
		var kind, paperJSON string
		if err := frontierRows.Scan(&kind, &paperJSON); err != nil {
			return nil, fmt.Errorf("scanning frontier: %w", err)
		}
		p, err := unmarshalPaper(paperJSON)
		if err != nil {
			return nil, fmt.Errorf("parsing %s frontier paper: %w", kind, err)
		}
		switch kind {
		case "parent":
			g.ParentFrontier.Add(p)
		case "child":
			g.ChildFrontier.Add(p)
		default:
			return nil, fmt.Errorf("unknown frontier kind %q", kind)
		}
	}
	if err := frontierRows.Err(); err != nil {
		return nil, fmt.Errorf("reading frontier: %w", err)
	}

	return g, nil
}

func unmarshalPaper(paperJSON string) (paper.Paper, error) {
	var p paper.Paper
	err := json.Unmarshal([]byte(paperJSON), &p)
	return p, err
}

// syncFile flushes a written file to disk before it is renamed into
// place.
func syncFile(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
