// Package store persists finished runs to SQLite. Persistence is
// opt-in and happens once, after the exported sequence is built; it
// never participates in the frame loop.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/dudu/faceseq/internal/export"
)

// DB wraps the SQLite connection with thread-safe access.
type DB struct {
	conn *sql.DB
	mu   sync.RWMutex
}

// Open creates and initializes the run store at path.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// migrate creates the tables if they don't exist.
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS frames (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS faces (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		frame_id INTEGER NOT NULL,
		idx INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		landmarks TEXT NOT NULL,
		FOREIGN KEY (frame_id) REFERENCES frames(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_frames_run ON frames(run_id, idx);
	CREATE INDEX IF NOT EXISTS idx_faces_frame ON faces(frame_id, idx);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun persists one exported sequence in a single transaction and
// returns the generated run id. Frame and face order is preserved via
// explicit indices.
func (db *DB) SaveRun(source string, frames []export.Frame) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	runID := uuid.NewString()

	tx, err := db.conn.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs (id, source) VALUES (?, ?)`, runID, source); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	frameStmt, err := tx.Prepare(`INSERT INTO frames (run_id, idx, width, height) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare frame statement: %w", err)
	}
	defer frameStmt.Close()

	faceStmt, err := tx.Prepare(`
		INSERT INTO faces (frame_id, idx, x, y, width, height, landmarks)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare face statement: %w", err)
	}
	defer faceStmt.Close()

	for i, frame := range frames {
		result, err := frameStmt.Exec(runID, i, frame.Width, frame.Height)
		if err != nil {
			return "", fmt.Errorf("failed to insert frame %d: %w", i, err)
		}
		frameID, err := result.LastInsertId()
		if err != nil {
			return "", fmt.Errorf("failed to read frame id: %w", err)
		}

		for j, face := range frame.Faces {
			landmarks, err := json.Marshal(face.Landmarks)
			if err != nil {
				return "", fmt.Errorf("failed to encode landmarks: %w", err)
			}
			if _, err := faceStmt.Exec(frameID, j,
				face.BBox[0], face.BBox[1], face.BBox[2], face.BBox[3],
				string(landmarks)); err != nil {
				return "", fmt.Errorf("failed to insert face %d of frame %d: %w", j, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// Run loads a persisted sequence by run id, in stored order.
func (db *DB) Run(runID string) ([]export.Frame, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.Query(`
		SELECT id, width, height FROM frames WHERE run_id = ? ORDER BY idx
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query frames: %w", err)
	}
	defer rows.Close()

	var frames []export.Frame
	var frameIDs []int64
	for rows.Next() {
		var id int64
		var frame export.Frame
		if err := rows.Scan(&id, &frame.Width, &frame.Height); err != nil {
			return nil, fmt.Errorf("failed to scan frame: %w", err)
		}
		frames = append(frames, frame)
		frameIDs = append(frameIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate frames: %w", err)
	}

	for i, frameID := range frameIDs {
		faces, err := db.facesOf(frameID)
		if err != nil {
			return nil, err
		}
		frames[i].Faces = faces
	}

	return frames, nil
}

func (db *DB) facesOf(frameID int64) ([]export.Face, error) {
	rows, err := db.conn.Query(`
		SELECT x, y, width, height, landmarks FROM faces WHERE frame_id = ? ORDER BY idx
	`, frameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query faces: %w", err)
	}
	defer rows.Close()

	var faces []export.Face
	for rows.Next() {
		var face export.Face
		var landmarks string
		if err := rows.Scan(&face.BBox[0], &face.BBox[1], &face.BBox[2], &face.BBox[3], &landmarks); err != nil {
			return nil, fmt.Errorf("failed to scan face: %w", err)
		}
		if err := json.Unmarshal([]byte(landmarks), &face.Landmarks); err != nil {
			return nil, fmt.Errorf("failed to decode landmarks: %w", err)
		}
		faces = append(faces, face)
	}
	return faces, rows.Err()
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.conn.Close()
}
