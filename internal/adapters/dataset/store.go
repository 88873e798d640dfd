package dataset

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-gota/gota/dataframe"
)

// How long Watch waits after the last write event before reloading.
const defaultSettle = 250 * time.Millisecond

// Store holds the currently loaded dataset. Reads are cheap copies of the
// frame header; a reload swaps the frame atomically.
type Store struct {
	path string

	mu       sync.RWMutex
	df       dataframe.DataFrame
	loadedAt time.Time
	lastMod  time.Time
	lastSize int64

	settle time.Duration
}

// Open loads path and returns a Store serving it.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStore wraps an already loaded frame. Reload reads from path.
func NewStore(path string, df dataframe.DataFrame) *Store {
	return &Store{path: path, df: df, loadedAt: time.Now()}
}

func (s *Store) Frame() dataframe.DataFrame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.df
}

func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Reload re-reads the file. On error the previous frame stays in place.
func (s *Store) Reload() error {
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("reload dataset: stat %q: %w", s.path, err)
	}

	df, err := LoadCSV(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.df = df
	s.loadedAt = time.Now()
	s.lastMod = info.ModTime()
	s.lastSize = info.Size()
	s.mu.Unlock()

	log.Printf("dataset loaded path=%s rows=%d cols=%d", s.path, df.Nrow(), df.Ncol())
	return nil
}

// Watch reloads the dataset whenever the file is written or replaced,
// until ctx is done. The directory is watched so editors that write a
// new file and rename it over the old one are picked up. Bursts of write
// events are collapsed: the reload runs once the file has been quiet for
// the settle delay.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch dataset: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch dataset: add %q: %w", filepath.Dir(s.path), err)
	}

	settle := s.settle
	if settle <= 0 {
		settle = defaultSettle
	}

	target := filepath.Clean(s.path)
	var quiet <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			quiet = time.After(settle)
		case <-quiet:
			quiet = nil
			if !s.changed() {
				continue
			}
			if err := s.Reload(); err != nil {
				log.Printf("dataset reload failed path=%s err=%v", s.path, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("dataset watcher error path=%s err=%v", s.path, err)
		}
	}
}

// Report whether the file's mtime or size differs from the last load.
// Size catches rewrites within one tick of a coarse mtime.
func (s *Store) changed() bool {
	info, err := os.Stat(s.path)
	if err != nil {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return !info.ModTime().Equal(s.lastMod) || info.Size() != s.lastSize
}
