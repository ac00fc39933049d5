package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists completed analyses in Postgres. Optional collaborator: the
// server wires it only when a DSN is configured; the analysis core never
// touches it.
type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

// EnsureSchema creates the analyses table if it is missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS analyses (
		id SERIAL PRIMARY KEY,
		filename TEXT,
		genre TEXT,
		genre_confidence DOUBLE PRECISION,
		mood TEXT,
		mood_confidence DOUBLE PRECISION,
		musical_key TEXT,
		key_confidence DOUBLE PRECISION,
		bpm DOUBLE PRECISION,
		bpm_category TEXT,
		processing_seconds DOUBLE PRECISION,
		warnings TEXT DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	)`)
	return err
}

// Record is one stored analysis outcome.
type Record struct {
	ID                int64     `json:"id"`
	FileName          string    `json:"fileName"`
	Genre             string    `json:"genre"`
	GenreConfidence   float64   `json:"genreConfidence"`
	Mood              string    `json:"mood"`
	MoodConfidence    float64   `json:"moodConfidence"`
	MusicalKey        string    `json:"musicalKey"`
	KeyConfidence     float64   `json:"keyConfidence"`
	BPM               float64   `json:"bpm"`
	BPMCategory       string    `json:"bpmCategory"`
	ProcessingSeconds float64   `json:"processingSeconds"`
	Warnings          []string  `json:"warnings"`
	CreatedAt         time.Time `json:"createdAt"`
}

func (s *Store) Save(ctx context.Context, r Record) (int64, error) {
	var id int64
	err := s.Pool.QueryRow(ctx,
		`INSERT INTO analyses
		 (filename, genre, genre_confidence, mood, mood_confidence, musical_key, key_confidence,
		  bpm, bpm_category, processing_seconds, warnings)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) RETURNING id`,
		r.FileName, r.Genre, r.GenreConfidence, r.Mood, r.MoodConfidence, r.MusicalKey, r.KeyConfidence,
		r.BPM, r.BPMCategory, r.ProcessingSeconds, strings.Join(r.Warnings, "\n")).Scan(&id)
	return id, err
}

func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, filename, genre, genre_confidence, mood, mood_confidence, musical_key, key_confidence,
		        bpm, bpm_category, processing_seconds, warnings, created_at
		 FROM analyses ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var warnings string
		if err := rows.Scan(&r.ID, &r.FileName, &r.Genre, &r.GenreConfidence, &r.Mood, &r.MoodConfidence,
			&r.MusicalKey, &r.KeyConfidence, &r.BPM, &r.BPMCategory, &r.ProcessingSeconds,
			&warnings, &r.CreatedAt); err != nil {
			return nil, err
		}
		if warnings != "" {
			r.Warnings = strings.Split(warnings, "\n")
		} else {
			r.Warnings = []string{}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
