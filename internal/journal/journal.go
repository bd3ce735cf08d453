// Package journal keeps a persistent record of agent exchanges in parquet
// chunk files. Each append writes a new chunk; Compact merges them.
package journal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
)

// Exchange is one prompt/response pair handled by the agent.
type Exchange struct {
	ID         string `parquet:"id"`
	Prompt     string `parquet:"prompt"`
	Tool       string `parquet:"tool"`
	Result     string `parquet:"result"`
	DurationMS int64  `parquet:"duration_ms"`
	CreatedAt  int64  `parquet:"created_at"` // unix millis
}

type Store struct {
	dir string
	mu  sync.RWMutex
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("journal: create dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Append writes the exchanges as a new parquet chunk file, filling in ids
// and timestamps where missing.
func (s *Store) Append(exchanges []Exchange) error {
	if len(exchanges) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range exchanges {
		if exchanges[i].ID == "" {
			exchanges[i].ID = uuid.New().String()
		}
		if exchanges[i].CreatedAt == 0 {
			exchanges[i].CreatedAt = time.Now().UnixMilli()
		}
	}

	path := filepath.Join(s.dir, fmt.Sprintf("chunk_%d.parquet", time.Now().UnixNano()))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("journal: create chunk: %w", err)
	}

	w := parquet.NewGenericWriter[Exchange](f)
	if _, err := w.Write(exchanges); err != nil {
		f.Close()
		return fmt.Errorf("journal: write rows: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("journal: close writer: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("journal: sync file: %w", err)
	}
	return f.Close()
}

// ReadAll loads every exchange from every chunk, oldest first.
func (s *Store) ReadAll() ([]Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks, err := s.listChunks()
	if err != nil {
		return nil, err
	}

	var all []Exchange
	for _, path := range chunks {
		rows, err := s.readChunk(path)
		if err != nil {
			return nil, fmt.Errorf("journal: read %s: %w", path, err)
		}
		all = append(all, rows...)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt < all[j].CreatedAt
	})
	return all, nil
}

// Since returns exchanges created at or after the cutoff, oldest first.
func (s *Store) Since(cutoff time.Time) ([]Exchange, error) {
	all, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	cut := cutoff.UnixMilli()
	var out []Exchange
	for _, e := range all {
		if e.CreatedAt >= cut {
			out = append(out, e)
		}
	}
	return out, nil
}

// Compact merges all chunk files into one.
func (s *Store) Compact() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chunks, err := s.listChunks()
	if err != nil {
		return err
	}
	if len(chunks) <= 1 {
		return nil
	}

	var all []Exchange
	for _, path := range chunks {
		rows, err := s.readChunk(path)
		if err != nil {
			return fmt.Errorf("journal: compact read %s: %w", path, err)
		}
		all = append(all, rows...)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt < all[j].CreatedAt
	})

	tmp := filepath.Join(s.dir, "compacted.parquet.tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("journal: create compacted: %w", err)
	}
	w := parquet.NewGenericWriter[Exchange](f)
	if _, err := w.Write(all); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("journal: write compacted: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("journal: close compacted: %w", err)
	}
	f.Close()

	for _, path := range chunks {
		os.Remove(path)
	}
	final := filepath.Join(s.dir, fmt.Sprintf("chunk_%d.parquet", time.Now().UnixNano()))
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("journal: rename compacted: %w", err)
	}
	return nil
}

func (s *Store) listChunks() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("journal: list dir: %w", err)
	}
	var chunks []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".parquet" {
			chunks = append(chunks, filepath.Join(s.dir, e.Name()))
		}
	}
	sort.Strings(chunks)
	return chunks, nil
}

func (s *Store) readChunk(path string) ([]Exchange, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, err
	}

	r := parquet.NewGenericReader[Exchange](pf)
	defer r.Close()

	var all []Exchange
	buf := make([]Exchange, 64)
	for {
		n, err := r.Read(buf)
		all = append(all, buf[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
	}
	return all, nil
}
