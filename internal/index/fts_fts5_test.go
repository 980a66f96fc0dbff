//go:build sqlite_fts5

package index

import (
	"testing"

	"github.com/starford/vistrack/internal/models"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM tracks_fts`).Scan(&count); err != nil {
		t.Fatalf("tracks_fts table missing: %v", err)
	}
}

func TestFTS5_SearchTrackName(t *testing.T) {
	db := testDB(t)
	tracks := []models.TrackSummary{
		{Position: 0, Name: "DoorVisibility", Kind: "visibility", Interpolation: "Constant"},
		{Position: 1, Name: "LampVisibility", Kind: "visibility", Interpolation: "Constant"},
	}
	if err := db.UpsertSequence(SequenceRow{Path: "fts.yaml", Name: "Lobby", Checksum: "f1"}, tracks); err != nil {
		t.Fatalf("UpsertSequence: %v", err)
	}

	hits, err := db.SearchTracks("LampVisibility", 10)
	if err != nil {
		t.Fatalf("SearchTracks: %v", err)
	}
	if len(hits) != 1 || hits[0].Position != 1 || hits[0].Kind != "visibility" {
		t.Fatalf("hits = %+v", hits)
	}
}

func TestFTS5_UpsertReplacesTracks(t *testing.T) {
	db := testDB(t)
	old := []models.TrackSummary{{Position: 0, Name: "Original", Kind: "visibility", Interpolation: "Linear"}}
	replacement := []models.TrackSummary{{Position: 0, Name: "Replacement", Kind: "visibility", Interpolation: "Linear"}}
	_ = db.UpsertSequence(SequenceRow{Path: "evo.yaml", Name: "Evo", Checksum: "1"}, old)
	_ = db.UpsertSequence(SequenceRow{Path: "evo.yaml", Name: "Evo", Checksum: "2"}, replacement)

	if hits, _ := db.SearchTracks("Original", 10); len(hits) != 0 {
		t.Errorf("old FTS content should be gone: %+v", hits)
	}
	if hits, _ := db.SearchTracks("Replacement", 10); len(hits) != 1 {
		t.Errorf("FTS not updated: %+v", hits)
	}
}

func TestFTS5_PrefixAndOperators(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertSequence(SequenceRow{Path: "p.yaml", Name: "Lobby", Checksum: "p"}, []models.TrackSummary{
		{Position: 0, Name: "DoorVisibility", Kind: "visibility", Interpolation: "Linear"},
	})

	if hits, err := db.SearchTracks("Door", 10); err != nil || len(hits) != 1 {
		t.Errorf("prefix search = %+v, %v", hits, err)
	}
	if _, err := db.SearchTracks(`Door" OR "`, 10); err != nil {
		t.Errorf("quoted input should not break the query: %v", err)
	}
}
