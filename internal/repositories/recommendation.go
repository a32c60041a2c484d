package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
)

const defaultListLimit = 50

const selectColumns = `SELECT id, emotion, track_id, title, artist, album_cover, preview_url, created_at FROM song_recommendations`

// RecommendationRepository implements models.Repository[*models.SongRecommendation] for recommendation history.
type RecommendationRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.SongRecommendation] = (*RecommendationRepository)(nil)

// NewRecommendationRepository creates a new RecommendationRepository with the given database connection
func NewRecommendationRepository(db *sql.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

const insertQuery = `
	INSERT INTO song_recommendations (id, emotion, track_id, title, artist, album_cover, preview_url, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insert(e execer, rec *models.SongRecommendation) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if rec.ID() == "" {
		rec.SetID(shared.GenerateID())
	}

	_, err := e.Exec(insertQuery,
		rec.ID(),
		rec.Emotion(),
		rec.TrackID(),
		rec.Title(),
		rec.Artist(),
		nullable(rec.AlbumCover()),
		nullable(rec.PreviewURL()),
		rec.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert recommendation: %w", err)
	}
	return nil
}

// Create inserts a new [models.SongRecommendation] with a generated ID
func (r *RecommendationRepository) Create(rec *models.SongRecommendation) error {
	return insert(r.db, rec)
}

// Record stores every track of rec in a single transaction and returns how many rows were written.
//
// Tracks that fail validation (for example an empty title) are skipped.
func (r *RecommendationRepository) Record(ctx context.Context, rec *models.Recommendation) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	written := 0
	err := InTx(r.db, func(tx *sql.Tx) error {
		for _, t := range rec.Tracks {
			row := models.SongRecommendationFromTrack(rec.Emotion, t)
			if row.Validate() != nil {
				continue
			}
			if err := insert(tx, row); err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// Get retrieves a recommendation by ID
func (r *RecommendationRepository) Get(id string) (*models.SongRecommendation, error) {
	return scan(r.db.QueryRow(selectColumns+` WHERE id = ?`, id))
}

// Delete removes a recommendation by ID
func (r *RecommendationRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM song_recommendations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recommendation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: recommendation %s", ErrNotFound, id)
	}
	return nil
}

// List retrieves recommendations newest first.
//
// Supported criteria: "emotion" (string), "since" (time.Time), "limit" (int, default 50).
func (r *RecommendationRepository) List(criteria map[string]any) ([]*models.SongRecommendation, error) {
	query := selectColumns + ` WHERE 1 = 1`
	args := []any{}

	if emotion, ok := criteria["emotion"].(string); ok && emotion != "" {
		query += " AND emotion = ?"
		args = append(args, emotion)
	}

	if since, ok := criteria["since"].(time.Time); ok && !since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, since.UTC())
	}

	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, limitFrom(criteria, defaultListLimit))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var recs []*models.SongRecommendation
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return recs, nil
}

// CountByEmotion returns how many rows each emotion has.
func (r *RecommendationRepository) CountByEmotion() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT emotion, COUNT(*) FROM song_recommendations GROUP BY emotion`)
	if err != nil {
		return nil, fmt.Errorf("failed to count recommendations: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var emotion string
		var n int
		if err := rows.Scan(&emotion, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[emotion] = n
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.SongRecommendation, error) {
	var (
		id         string
		emotion    string
		trackID    string
		title      string
		artist     string
		albumCover sql.NullString
		previewURL sql.NullString
		createdAt  time.Time
	)

	err := s.Scan(&id, &emotion, &trackID, &title, &artist, &albumCover, &previewURL, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan recommendation: %w", err)
	}

	return models.RestoreSongRecommendation(id, emotion, trackID, title, artist, albumCover.String, previewURL.String, createdAt), nil
}
