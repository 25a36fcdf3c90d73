package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage/storagetest"
)

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, New())
}

func TestClosedStore(t *testing.T) {
	s := New()
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	err := s.View(context.Background(), func(storage.Reader) error { return nil })
	if err != storage.ErrClosed {
		t.Errorf("View after close: got %v, want ErrClosed", err)
	}
	err = s.Update(context.Background(), func(storage.Txn) error { return nil })
	if err != storage.ErrClosed {
		t.Errorf("Update after close: got %v, want ErrClosed", err)
	}
}

func TestRegisteredAsBackend(t *testing.T) {
	s, err := storage.Open(context.Background(), "memory", nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if _, ok := s.(*Store); !ok {
		t.Errorf("Open returned %T, want *memory.Store", s)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if storage.IsRegistered("etcd") {
		t.Fatal("etcd unexpectedly registered")
	}
	if !storage.IsRegistered("memory") {
		t.Fatal("memory not registered")
	}

	_, err := storage.Open(context.Background(), "etcd", nil)
	if !errors.Is(err, storage.ErrUnknownBackend) {
		t.Errorf("Open unknown backend: got %v, want ErrUnknownBackend", err)
	}
}
