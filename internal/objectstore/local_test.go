package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func setupLocalStore(t *testing.T) *LocalStore {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create local store: %v", err)
	}
	return store
}

func TestLocalStore_PutGet(t *testing.T) {
	store := setupLocalStore(t)
	data := []byte("Hello, World!")

	if err := store.Put(context.Background(), "1/test.txt-abcd1234", data); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(context.Background(), "1/test.txt-abcd1234")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("expected %q, got %q", data, got)
	}
}

func TestLocalStore_PutOverwrites(t *testing.T) {
	store := setupLocalStore(t)
	key := "1/test.txt-abcd1234"

	if err := store.Put(context.Background(), key, []byte("first")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(context.Background(), key, []byte("second")); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("expected last write to win, got %q", got)
	}
}

func TestLocalStore_GetMissing(t *testing.T) {
	store := setupLocalStore(t)

	if _, err := store.Get(context.Background(), "1/missing-ffff"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestLocalStore_EmptyKey(t *testing.T) {
	store := setupLocalStore(t)

	if err := store.Put(context.Background(), "", []byte("x")); err == nil {
		t.Error("empty key should be rejected")
	}
}

func TestLocalStore_RejectsEscapingKey(t *testing.T) {
	parent := t.TempDir()
	store, err := NewLocalStore(filepath.Join(parent, "blobs"))
	if err != nil {
		t.Fatalf("failed to create local store: %v", err)
	}

	// keys carry the raw uploaded filename, so ".." segments can show up
	key := "1/../../escape.txt-deadbeef"

	if err := store.Put(context.Background(), key, []byte("pwned")); err == nil {
		t.Fatal("Put with a key escaping the base directory should be rejected")
	}
	if _, err := os.Stat(filepath.Join(parent, "escape.txt-deadbeef")); !os.IsNotExist(err) {
		t.Error("no blob may be written outside the base directory")
	}

	if _, err := store.Get(context.Background(), key); err == nil {
		t.Error("Get with a key escaping the base directory should be rejected")
	}
}

func TestLocalStore_ConcurrentPuts(t *testing.T) {
	store := setupLocalStore(t)

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("1/file-%d.txt-abcd", i)
			errs[i] = store.Put(context.Background(), key, []byte(fmt.Sprintf("blob-%d", i)))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		if errs[i] != nil {
			t.Fatalf("concurrent Put %d failed: %v", i, errs[i])
		}
		got, err := store.Get(context.Background(), fmt.Sprintf("1/file-%d.txt-abcd", i))
		if err != nil {
			t.Fatalf("Get %d failed: %v", i, err)
		}
		if string(got) != fmt.Sprintf("blob-%d", i) {
			t.Errorf("blob %d corrupted by a concurrent write: got %q", i, got)
		}
	}
}

func TestLocalStore_PresignUnsupported(t *testing.T) {
	store := setupLocalStore(t)

	if _, err := store.Presign(context.Background(), "1/a-b", 15*time.Minute); !errors.Is(err, ErrPresignUnsupported) {
		t.Errorf("expected ErrPresignUnsupported, got %v", err)
	}
}
