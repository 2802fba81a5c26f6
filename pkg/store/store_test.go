package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/geom"
	"github.com/matzehuels/scatter/pkg/sceneio"
)

func doc(id string, created time.Time, objects int) sceneio.Document {
	d := sceneio.Document{
		RunID:     id,
		Seed:      7,
		CreatedAt: created,
		Environment: sceneio.Site{
			Name:    "env",
			Kind:    "environment",
			Size:    geom.V3(5, 5, 1),
			Bounds:  geom.NewRect(-5, -5, 5, 5),
			Objects: []sceneio.Object{},
		},
	}
	for i := range objects {
		d.Environment.Objects = append(d.Environment.Objects, sceneio.Object{
			ID:       fmt.Sprintf("Rock_%d", i),
			Name:     "Rock",
			Class:    "rock",
			Position: geom.V3(float64(i), 0, 0.25),
		})
	}
	return d
}

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "scenes"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)
	want := doc("run-1", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 2)

	if err := s.Save(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), "run-1.json.tmp")); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestFileStoreList(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "mid", "new"} {
		if err := s.Save(ctx, doc(id, base.Add(time.Duration(i)*time.Hour), i)); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, sum := range all {
		ids = append(ids, sum.RunID)
	}
	if diff := cmp.Diff([]string{"new", "mid", "old"}, ids); diff != "" {
		t.Errorf("List order (-want +got):\n%s", diff)
	}
	if all[0].Objects != 2 || all[0].Sites != 1 {
		t.Errorf("summary = %+v, want 2 objects in 1 site", all[0])
	}

	top, err := s.List(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 || top[0].RunID != "new" {
		t.Errorf("List(1) = %+v", top)
	}
}

func TestFileStoreErrors(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)

	tests := []struct {
		name string
		err  error
		code errors.Code
	}{
		{"get missing", func() error { _, err := s.Get(ctx, "nope"); return err }(), errors.ErrCodeNotFound},
		{"delete missing", s.Delete(ctx, "nope"), errors.ErrCodeNotFound},
		{"traversal id", func() error { _, err := s.Get(ctx, "../etc/passwd"); return err }(), errors.ErrCodeInvalidInput},
		{"empty id", s.Save(ctx, sceneio.Document{}), errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.code) {
				t.Errorf("err = %v, want %s", tt.err, tt.code)
			}
		})
	}
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)
	if err := s.Save(ctx, doc("gone", time.Now().UTC(), 0)); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "gone"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "gone"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get after Delete: %v", err)
	}
}

func TestNewestFirstTies(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []Summary{{RunID: "b", CreatedAt: at}, {RunID: "a", CreatedAt: at}, {RunID: "c", CreatedAt: at.Add(time.Second)}}
	got := newestFirst(in, 10)
	want := []string{"c", "a", "b"}
	for i, s := range got {
		if s.RunID != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestMongoStoreRoundTrip(t *testing.T) {
	uri := os.Getenv("SCATTER_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("SCATTER_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, uri, "scatter_test")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close(ctx)

	want := doc("mongo-run", time.Now().UTC().Truncate(time.Millisecond), 3)
	if err := s.Save(ctx, want); err != nil {
		t.Fatal(err)
	}
	defer s.Delete(ctx, want.RunID)

	got, err := s.Get(ctx, want.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Count() != 3 || !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("got %d objects created %v", got.Count(), got.CreatedAt)
	}
}
