package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Recording is a captured play session: the seed that fixes the piece sequence
// plus the viewport it was played in.
type Recording struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Seed       uint64    `json:"seed"`
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	FrameCount int       `json:"frame_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Frame is one stored engine input.
type Frame struct {
	Seq         int             `json:"seq"`
	TimestampMs int64           `json:"timestamp_ms"`
	Data        json.RawMessage `json:"data"`
}

// RecordingRepository manages recordings and their frames.
type RecordingRepository struct {
	db *sql.DB
}

// Recordings returns the recording repository for this store.
func (s *Store) Recordings() *RecordingRepository {
	return &RecordingRepository{db: s.db}
}

const recordingColumns = `id, name, seed, width, height, frame_count, created_at`

// Create inserts rec, assigning a fresh id when it has none.
func (r *RecordingRepository) Create(rec *Recording) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.CreatedAt = time.Now()
	rec.FrameCount = 0

	_, err := r.db.Exec(
		`INSERT INTO recordings (`+recordingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, int64(rec.Seed), rec.Width, rec.Height, rec.FrameCount, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert recording: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecording(row scanner) (*Recording, error) {
	rec := &Recording{}
	var seed int64
	if err := row.Scan(&rec.ID, &rec.Name, &seed, &rec.Width, &rec.Height, &rec.FrameCount, &rec.CreatedAt); err != nil {
		return nil, err
	}
	rec.Seed = uint64(seed)
	return rec, nil
}

// GetByID returns the recording with the given id.
func (r *RecordingRepository) GetByID(id string) (*Recording, error) {
	rec, err := scanRecording(r.db.QueryRow(
		`SELECT `+recordingColumns+` FROM recordings WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// List returns every recording, newest first.
func (r *RecordingRepository) List() ([]*Recording, error) {
	rows, err := r.db.Query(`SELECT ` + recordingColumns + ` FROM recordings ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Recording
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Rename changes a recording's name.
func (r *RecordingRepository) Rename(id, name string) error {
	res, err := r.db.Exec(`UPDATE recordings SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// Delete removes a recording and, through the cascade, its frames.
func (r *RecordingRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM recordings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// AppendFrames adds frames after the ones already stored for id, numbering them
// consecutively, and keeps the recording's frame count in step.
func (r *RecordingRepository) AppendFrames(id string, frames []Frame) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRow(`SELECT frame_count FROM recordings WHERE id = ?`, id).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO recording_frames (recording_id, seq, timestamp_ms, data) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range frames {
		frames[i].Seq = count + i
		if _, err := stmt.Exec(id, frames[i].Seq, frames[i].TimestampMs, string(frames[i].Data)); err != nil {
			return fmt.Errorf("insert frame %d: %w", frames[i].Seq, err)
		}
	}

	if _, err := tx.Exec(`UPDATE recordings SET frame_count = ? WHERE id = ?`, count+len(frames), id); err != nil {
		return err
	}
	return tx.Commit()
}

// Frames returns the stored frames of id in order.
func (r *RecordingRepository) Frames(id string) ([]Frame, error) {
	if _, err := r.GetByID(id); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		`SELECT seq, timestamp_ms, data FROM recording_frames WHERE recording_id = ? ORDER BY seq`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Frame
	for rows.Next() {
		var f Frame
		var data string
		if err := rows.Scan(&f.Seq, &f.TimestampMs, &data); err != nil {
			return nil, err
		}
		f.Data = json.RawMessage(data)
		out = append(out, f)
	}
	return out, rows.Err()
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
