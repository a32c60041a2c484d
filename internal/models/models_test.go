package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEmotion(t *testing.T) {
	t.Run("LabelAt follows model output order", func(t *testing.T) {
		want := []Emotion{"sad", "happy", "surprise", "disgust", "angry", "neutral", "fear"}
		for i, w := range want {
			got, err := LabelAt(i)
			if err != nil {
				t.Fatalf("LabelAt(%d) error = %v", i, err)
			}
			if got != w {
				t.Errorf("LabelAt(%d) = %s, want %s", i, got, w)
			}
		}
	})

	t.Run("LabelAt out of range", func(t *testing.T) {
		for _, i := range []int{-1, len(Labels)} {
			if _, err := LabelAt(i); err == nil {
				t.Errorf("expected error for index %d", i)
			}
		}
	})

	t.Run("Display", func(t *testing.T) {
		tc := []struct {
			in     Emotion
			want   string
			wantOK bool
		}{
			{Happy, "Happy", true},
			{Fear, "Fear", true},
			{Surprise, "Surprise", true},
			{Disgust, "Disgust", false},
			{"", "", false},
		}
		for _, tt := range tc {
			got, ok := tt.in.Display()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("%q.Display() = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		}
	})

	t.Run("IsDisplayEmotion is case-sensitive", func(t *testing.T) {
		if !IsDisplayEmotion("Angry") {
			t.Error("Angry should be a display emotion")
		}
		if IsDisplayEmotion("angry") || IsDisplayEmotion("Disgust") {
			t.Error("lowercase and Disgust must be rejected")
		}
	})

	t.Run("Valid", func(t *testing.T) {
		if !Disgust.Valid() || Emotion("bored").Valid() {
			t.Error("Valid() should accept only classifier labels")
		}
	})
}

func TestTrack(t *testing.T) {
	preview := "https://p.scdn.co/mp3-preview/abc"
	track := Track{
		ID:         "t1",
		Name:       "Song",
		Artists:    []Artist{{Name: "A"}, {Name: "B"}},
		Album:      Album{Name: "LP", Images: []Image{{URL: "https://i.scdn.co/large"}, {URL: "https://i.scdn.co/small"}}},
		PreviewURL: &preview,
	}

	if got := track.ArtistNames(); got != "A, B" {
		t.Errorf("ArtistNames() = %q", got)
	}
	if got := track.CoverURL(); got != "https://i.scdn.co/large" {
		t.Errorf("CoverURL() = %q", got)
	}

	t.Run("nil preview serializes as null", func(t *testing.T) {
		b, err := json.Marshal(Track{Name: UnknownTitle, Artists: []Artist{}, Album: Album{Name: UnknownAlbum, Images: []Image{}}})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if !strings.Contains(string(b), `"preview_url":null`) {
			t.Errorf("expected null preview_url, got %s", b)
		}
		if !strings.Contains(string(b), `"artists":[]`) {
			t.Errorf("expected empty artists list, got %s", b)
		}
	})
}

func TestSongRecommendation(t *testing.T) {
	t.Run("FromTrack", func(t *testing.T) {
		rec := SongRecommendationFromTrack("Happy", Track{
			ID:      "t1",
			Name:    "Song",
			Artists: []Artist{{Name: "A"}, {Name: "B"}},
			Album:   Album{Name: "LP"},
		})

		if rec.Emotion() != "Happy" || rec.Title() != "Song" || rec.Artist() != "A, B" {
			t.Errorf("unexpected record: %s", rec)
		}
		if rec.AlbumCover() != "" || rec.PreviewURL() != "" {
			t.Error("missing cover and preview should map to empty strings")
		}
		if rec.CreatedAt().IsZero() {
			t.Error("created_at should be set")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name    string
			rec     *SongRecommendation
			wantErr bool
		}{
			{"valid", NewSongRecommendation("Sad", "id", "Title", "Artist", "", ""), false},
			{"missing emotion", NewSongRecommendation("", "id", "Title", "Artist", "", ""), true},
			{"missing title", NewSongRecommendation("Sad", "id", " ", "Artist", "", ""), true},
			{"long title", NewSongRecommendation("Sad", "id", strings.Repeat("x", 256), "Artist", "", ""), true},
			{"long artist", NewSongRecommendation("Sad", "id", "Title", strings.Repeat("x", 256), "", ""), true},
		}
		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if err := tt.rec.Validate(); (err != nil) != tt.wantErr {
					t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			})
		}
	})
	t.Run("MarshalJSON uses column names", func(t *testing.T) {
		rec := NewSongRecommendation("Sad", "t9", "Title", "Artist", "cover", "")
		rec.SetID("abc")

		data, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}

		var got map[string]any
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if got["id"] != "abc" || got["track_id"] != "t9" || got["album_cover"] != "cover" {
			t.Errorf("unexpected JSON: %s", data)
		}
		if _, ok := got["created_at"]; !ok {
			t.Errorf("created_at missing: %s", data)
		}
	})
}
