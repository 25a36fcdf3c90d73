package storage

import (
	"context"
	"testing"
)

type mapReader map[string][]byte

func (m mapReader) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func TestBuffer(t *testing.T) {
	ctx := context.Background()
	base := mapReader{"existing": []byte("base")}

	t.Run("reads through to base", func(t *testing.T) {
		b := NewBuffer(base)
		v, err := b.Get(ctx, "existing")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(v) != "base" {
			t.Errorf("Get = %q, want %q", v, "base")
		}
		if !b.Empty() {
			t.Error("expected empty buffer after reads only")
		}
	})

	t.Run("staged set shadows base", func(t *testing.T) {
		b := NewBuffer(base)
		_ = b.Set(ctx, "existing", []byte("staged"))
		v, err := b.Get(ctx, "existing")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(v) != "staged" {
			t.Errorf("Get = %q, want %q", v, "staged")
		}
		if string(base["existing"]) != "base" {
			t.Error("base must not be modified")
		}
	})

	t.Run("staged delete hides base", func(t *testing.T) {
		b := NewBuffer(base)
		_ = b.Delete(ctx, "existing")
		if _, err := b.Get(ctx, "existing"); err != ErrNotFound {
			t.Errorf("Get after delete: got %v, want ErrNotFound", err)
		}
		if got := b.Deletes(); len(got) != 1 || got[0] != "existing" {
			t.Errorf("Deletes = %v", got)
		}
	})

	t.Run("set after delete cancels the delete", func(t *testing.T) {
		b := NewBuffer(base)
		_ = b.Delete(ctx, "k")
		_ = b.Set(ctx, "k", []byte("v"))
		if len(b.Deletes()) != 0 {
			t.Errorf("Deletes = %v, want none", b.Deletes())
		}
		if string(b.Sets()["k"]) != "v" {
			t.Errorf("Sets[k] = %q", b.Sets()["k"])
		}
	})

	t.Run("set copies the value", func(t *testing.T) {
		b := NewBuffer(base)
		value := []byte("abc")
		_ = b.Set(ctx, "k", value)
		value[0] = 'z'
		v, _ := b.Get(ctx, "k")
		if string(v) != "abc" {
			t.Errorf("Get = %q, want %q", v, "abc")
		}
	})
}
