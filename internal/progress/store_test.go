package progress

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "progress.json"))
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s := testStore(t)

	records, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty mapping, got %d records", len(records))
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := testStore(t)

	want := map[string]Record{
		"alice": {Subject: "science", Score: 3, Accuracy: 60.0},
		"bob":   {Subject: "math", Score: 5, Accuracy: 100.0},
	}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestSave_IsIdempotentOverLoad(t *testing.T) {
	s := testStore(t)

	if err := s.Save(map[string]Record{"alice": {Subject: "math", Score: 4, Accuracy: 80.0}}); err != nil {
		t.Fatal(err)
	}

	first, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(first); err != nil {
		t.Fatal(err)
	}
	second, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("save(load()) changed content:\n got %+v\nwant %+v", second, first)
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	s := testStore(t)
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Load()
	var corrupt *CorruptFileError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected *CorruptFileError, got %v", err)
	}
	if corrupt.Path != s.Path() {
		t.Errorf("CorruptFileError.Path = %q, want %q", corrupt.Path, s.Path())
	}
}

func TestLoad_WrongShapeIsCorrupt(t *testing.T) {
	s := testStore(t)
	if err := os.WriteFile(s.Path(), []byte(`["a", "list"]`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Load()
	var corrupt *CorruptFileError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected *CorruptFileError for non-mapping document, got %v", err)
	}
}

func TestLoad_ToleratesUnknownKeys(t *testing.T) {
	s := testStore(t)
	doc := `{"alice": {"subject": "math", "score": 2, "accuracy": 40.0, "streak": 7}}`
	if err := os.WriteFile(s.Path(), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	got, ok := records["alice"]
	if !ok {
		t.Fatal("expected record for alice")
	}
	want := Record{Subject: "math", Score: 2, Accuracy: 40.0}
	if got != want {
		t.Errorf("record = %+v, want %+v", got, want)
	}
}

func TestSave_OverwritesWholeFile(t *testing.T) {
	s := testStore(t)

	if err := s.Save(map[string]Record{
		"alice": {Subject: "math", Score: 1, Accuracy: 20.0},
		"bob":   {Subject: "science", Score: 2, Accuracy: 40.0},
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(map[string]Record{
		"alice": {Subject: "science", Score: 5, Accuracy: 100.0},
	}); err != nil {
		t.Fatal(err)
	}

	records, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record after overwrite, got %d", len(records))
	}
	if records["alice"].Subject != "science" {
		t.Errorf("alice.Subject = %q, want %q", records["alice"].Subject, "science")
	}
}
