package journal

import (
	"testing"
	"time"
)

func TestAppendAndReadAll(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	err = s.Append([]Exchange{
		{Prompt: "weather", Tool: "weather", Result: "sunny", CreatedAt: 2000},
		{Prompt: "add milk", Tool: "tasks", Result: "added", CreatedAt: 1000},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	all, err := s.ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("rows = %d, want 2", len(all))
	}
	if all[0].Prompt != "add milk" || all[1].Prompt != "weather" {
		t.Fatalf("not sorted by created_at: %#v", all)
	}
	if all[0].ID == "" {
		t.Error("missing generated id")
	}
}

func TestSince(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	now := time.Now()
	err = s.Append([]Exchange{
		{Prompt: "old", CreatedAt: now.Add(-2 * time.Hour).UnixMilli()},
		{Prompt: "new", CreatedAt: now.UnixMilli()},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	recent, err := s.Since(now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("since: %v", err)
	}
	if len(recent) != 1 || recent[0].Prompt != "new" {
		t.Fatalf("recent = %#v", recent)
	}
}

func TestCompactMergesChunks(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for i := int64(1); i <= 3; i++ {
		if err := s.Append([]Exchange{{Prompt: "p", CreatedAt: i}}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	chunks, err := s.listChunks()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}

	if err := s.Compact(); err != nil {
		t.Fatalf("compact: %v", err)
	}
	chunks, err = s.listChunks()
	if err != nil {
		t.Fatalf("list after compact: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("chunks after compact = %d, want 1", len(chunks))
	}

	all, err := s.ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("rows = %d, want 3", len(all))
	}
}
