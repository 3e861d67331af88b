package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tristangrace/uispin/core"
)

func newTestStore(t *testing.T) *sqliteStore {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "designs.db"))
	t.Cleanup(func() { store.Close() })
	return store
}

func TestList_Empty(t *testing.T) {
	store := newTestStore(t)

	designs, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if designs == nil || len(designs) != 0 {
		t.Errorf("List() should return an empty non-nil slice, got %#v", designs)
	}
}

func TestPrepend_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved := &core.Design{
		ID:         "0a1b2c3d",
		Prompt:     "checkout flow",
		Guidelines: "dark mode",
		Provider:   "openai",
		CreatedAt:  time.Date(2026, 10, 19, 12, 0, 0, 123456789, time.UTC),
		Images: []string{
			"/designs/images/0a1b2c3d-0.png",
			"/designs/images/0a1b2c3d-1.png",
			"/designs/images/0a1b2c3d-2.png",
			"/designs/images/0a1b2c3d-3.png",
		},
	}
	if err := store.Prepend(ctx, saved); err != nil {
		t.Fatalf("Prepend() failed: %v", err)
	}

	got, err := store.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Prompt != saved.Prompt || got.Guidelines != saved.Guidelines || got.Provider != saved.Provider {
		t.Errorf("Field mismatch: got %+v, want %+v", got, saved)
	}
	if !got.CreatedAt.Equal(saved.CreatedAt) {
		t.Errorf("CreatedAt mismatch: got %v, want %v", got.CreatedAt, saved.CreatedAt)
	}
	if len(got.Images) != len(saved.Images) {
		t.Fatalf("Images length mismatch: got %d, want %d", len(got.Images), len(saved.Images))
	}
	for i := range saved.Images {
		if got.Images[i] != saved.Images[i] {
			t.Errorf("Images[%d] = %q, want %q", i, got.Images[i], saved.Images[i])
		}
	}
}

func TestList_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Identical timestamps must still list in insertion order, newest first.
	ts := time.Now().UTC()
	for _, id := range []string{"first000", "second00", "third000"} {
		d := &core.Design{ID: id, Prompt: id, CreatedAt: ts, Images: []string{"/designs/images/" + id + "-0.png"}}
		if err := store.Prepend(ctx, d); err != nil {
			t.Fatalf("Prepend() failed: %v", err)
		}
	}

	designs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	want := []string{"third000", "second00", "first000"}
	for i, id := range want {
		if designs[i].ID != id {
			t.Errorf("designs[%d].ID = %q, want %q", i, designs[i].ID, id)
		}
		if len(designs[i].Images) != 1 {
			t.Errorf("designs[%d] should carry its image, got %v", i, designs[i].Images)
		}
	}
}

func TestPrepend_DuplicateIDFails(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	d := &core.Design{ID: "dupe0000", Prompt: "p", CreatedAt: time.Now()}
	if err := store.Prepend(ctx, d); err != nil {
		t.Fatal(err)
	}
	if err := store.Prepend(ctx, d); err == nil {
		t.Error("Prepend() should fail on duplicate id")
	}

	designs, _ := store.List(ctx)
	if len(designs) != 1 {
		t.Errorf("Failed insert must not leave a partial row, got %d designs", len(designs))
	}
}

func TestGet_NotFound(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get(context.Background(), "missing1"); !errors.Is(err, core.ErrDesignNotFound) {
		t.Errorf("Get() error = %v, want ErrDesignNotFound", err)
	}
}

func TestConcurrentPrepend(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := &core.Design{ID: fmt.Sprintf("conc%04d", i), Prompt: "p", CreatedAt: time.Now()}
			if err := store.Prepend(ctx, d); err != nil {
				t.Errorf("Prepend() failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	designs, _ := store.List(ctx)
	if len(designs) != 10 {
		t.Errorf("Expected 10 designs, got %d", len(designs))
	}
}

func TestImages(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.PutImage(ctx, "0a1b2c3d-0.png", []byte("png-bytes")); err != nil {
		t.Fatalf("PutImage() failed: %v", err)
	}

	rc, err := store.OpenImage(ctx, "0a1b2c3d-0.png")
	if err != nil {
		t.Fatalf("OpenImage() failed: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "png-bytes" {
		t.Errorf("Image mismatch: got %q", data)
	}

	if _, err := store.OpenImage(ctx, "none.png"); !errors.Is(err, core.ErrImageNotFound) {
		t.Errorf("OpenImage() error = %v, want ErrImageNotFound", err)
	}
}
