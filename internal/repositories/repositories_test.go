package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	th "github.com/desertthunder/moodmix/internal/testing"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecommendationRepository(t *testing.T) {
	t.Run("Create And Get", func(t *testing.T) {
		repo := NewRecommendationRepository(setupTestDB(t))
		rec := models.NewSongRecommendation("Happy", "t1", "Song", "Artist", "https://img", "")

		if err := repo.Create(rec); err != nil {
			t.Fatalf("failed to create recommendation: %v", err)
		}
		if rec.ID() == "" {
			t.Fatal("ID should be set after creation")
		}

		got, err := repo.Get(rec.ID())
		if err != nil {
			t.Fatalf("failed to get recommendation: %v", err)
		}
		if got.Emotion() != "Happy" || got.TrackID() != "t1" || got.Title() != "Song" || got.AlbumCover() != "https://img" {
			t.Errorf("unexpected record %v", got)
		}
		if got.PreviewURL() != "" {
			t.Errorf("expected empty preview, got %q", got.PreviewURL())
		}
		if got.CreatedAt().IsZero() {
			t.Error("created_at should round trip")
		}
	})

	t.Run("Create Rejects Invalid", func(t *testing.T) {
		repo := NewRecommendationRepository(setupTestDB(t))
		if err := repo.Create(models.NewSongRecommendation("", "t1", "Song", "", "", "")); err == nil {
			t.Error("expected validation error for missing emotion")
		}
		if err := repo.Create(models.NewSongRecommendation("Sad", "t1", strings.Repeat("x", 256), "", "", "")); err == nil {
			t.Error("expected validation error for long title")
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		repo := NewRecommendationRepository(setupTestDB(t))
		if _, err := repo.Get("nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewRecommendationRepository(setupTestDB(t))
		rec := models.NewSongRecommendation("Sad", "t1", "Song", "Artist", "", "")
		if err := repo.Create(rec); err != nil {
			t.Fatal(err)
		}

		if err := repo.Delete(rec.ID()); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if _, err := repo.Get(rec.ID()); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := repo.Delete(rec.ID()); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound deleting twice, got %v", err)
		}
	})

	t.Run("Record", func(t *testing.T) {
		repo := NewRecommendationRepository(setupTestDB(t))
		recommendation := &models.Recommendation{
			Emotion: "Happy",
			Tracks: []models.Track{
				th.SampleTrack("t1", "One", "A"),
				{ID: "t2", Name: ""},
				th.SampleTrack("t3", "Three", "C"),
			},
		}

		n, err := repo.Record(context.Background(), recommendation)
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 rows written (empty title skipped), got %d", n)
		}

		recs, err := repo.List(map[string]any{"emotion": "Happy"})
		if err != nil {
			t.Fatal(err)
		}
		if len(recs) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(recs))
		}
		if recs[0].TrackID() != "t3" {
			t.Errorf("expected newest first, got %s", recs[0].TrackID())
		}
		if recs[1].PreviewURL() != "https://p.scdn.co/mp3-preview/t1" {
			t.Errorf("preview not stored: %q", recs[1].PreviewURL())
		}
	})

	t.Run("Record Honours Cancelled Context", func(t *testing.T) {
		repo := NewRecommendationRepository(setupTestDB(t))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := repo.Record(ctx, &models.Recommendation{Emotion: "Sad", Tracks: []models.Track{th.SampleTrack("t1", "One", "A")}}); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("List Filters", func(t *testing.T) {
		repo := NewRecommendationRepository(setupTestDB(t))
		for i, emotion := range []string{"Happy", "Sad", "Happy", "Fear"} {
			rec := models.RestoreSongRecommendation("", emotion, "t", "Song", "", "", "", time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC))
			if err := repo.Create(rec); err != nil {
				t.Fatal(err)
			}
		}

		all, _ := repo.List(nil)
		if len(all) != 4 {
			t.Errorf("expected 4 rows, got %d", len(all))
		}
		if all[0].Emotion() != "Fear" {
			t.Errorf("expected newest (Fear) first, got %s", all[0].Emotion())
		}

		happy, _ := repo.List(map[string]any{"emotion": "Happy"})
		if len(happy) != 2 {
			t.Errorf("expected 2 Happy rows, got %d", len(happy))
		}

		limited, _ := repo.List(map[string]any{"limit": 1})
		if len(limited) != 1 {
			t.Errorf("expected 1 row with limit, got %d", len(limited))
		}

		recent, _ := repo.List(map[string]any{"since": time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)})
		if len(recent) != 2 {
			t.Errorf("expected 2 rows since Jan 3, got %d", len(recent))
		}
	})

	t.Run("CountByEmotion", func(t *testing.T) {
		repo := NewRecommendationRepository(setupTestDB(t))
		for _, emotion := range []string{"Happy", "Happy", "Sad"} {
			repo.Create(models.NewSongRecommendation(emotion, "t", "Song", "", "", ""))
		}

		counts, err := repo.CountByEmotion()
		if err != nil {
			t.Fatal(err)
		}
		if counts["Happy"] != 2 || counts["Sad"] != 1 {
			t.Errorf("unexpected counts %v", counts)
		}
	})
}

func TestInTx(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecommendationRepository(db)

	err := InTx(db, func(tx *sql.Tx) error {
		if err := insert(tx, models.NewSongRecommendation("Happy", "t", "Song", "", "", "")); err != nil {
			return err
		}
		return errors.New("abort")
	})
	if err == nil {
		t.Fatal("expected error from aborted transaction")
	}

	recs, _ := repo.List(nil)
	if len(recs) != 0 {
		t.Errorf("rolled back insert should not persist, got %d rows", len(recs))
	}
}
