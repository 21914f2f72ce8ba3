package core

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/JonMunkholm/afamplan/internal/reference"
)

func TestStartReloadScheduler_Disabled(t *testing.T) {
	svc := newTestService(t, Options{})

	done := make(chan struct{})
	go func() {
		svc.StartReloadScheduler(context.Background(), 0)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler with zero interval should return immediately")
	}
}

func TestStartReloadScheduler_ReloadsUntilCancelled(t *testing.T) {
	path := writeFixture(t, fixture)
	store := reference.NewStore(reference.FileSource{Path: path}, reference.SchemaAuto)
	svc := NewService(store, reference.DefaultAreas(), Options{})
	first, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.StartReloadScheduler(ctx, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for store.Current() == first {
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("scheduler never reloaded the table")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// A broken file must not unpublish the table.
	if err := os.WriteFile(path, []byte(`not json`), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(40 * time.Millisecond)
	if store.Current() == nil {
		t.Error("failed scheduled reload cleared the table")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
