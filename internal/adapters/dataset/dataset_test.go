package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadCSV(t *testing.T) {
	df, err := LoadCSV(filepath.Join("testdata", "deliveries.csv"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if df.Nrow() != 12 {
		t.Fatalf("rows = %d, want 12", df.Nrow())
	}
	if got := df.Col("delivery_time_min").Float()[0]; got != 60 {
		t.Fatalf("first delivery_time_min = %v, want 60", got)
	}
	if got := df.Col("weather").Records()[2]; got != "Cloudy" {
		t.Fatalf("third weather = %q, want Cloudy", got)
	}
}

func TestReadCSVRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr string
	}{
		{
			name:    "missing column",
			csv:     "distance_km,weather,traffic_level,time_of_day,preparation_time_min,courier_experience_yrs\n1,Clear,Low,Morning,10,1\n",
			wantErr: "missing column",
		},
		{
			name:    "header only",
			csv:     "distance_km,weather,traffic_level,time_of_day,preparation_time_min,courier_experience_yrs,delivery_time_min\n",
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.csv))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	if _, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func copyFixture(t *testing.T, dst string) {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", "deliveries.csv"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if err := os.WriteFile(dst, b, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

// Keep the header and the first n data rows.
func truncateFixture(t *testing.T, path string, n int) {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if err := os.WriteFile(path, []byte(strings.Join(lines[:n+1], "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
}

func TestStoreReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deliveries.csv")
	copyFixture(t, path)

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.Frame().Nrow() != 12 {
		t.Fatalf("rows = %d, want 12", s.Frame().Nrow())
	}

	truncateFixture(t, path, 5)
	if err := s.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if s.Frame().Nrow() != 5 {
		t.Fatalf("rows after reload = %d, want 5", s.Frame().Nrow())
	}

	if err := os.WriteFile(path, []byte("broken\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Reload(); err == nil {
		t.Fatal("expected reload error for broken file")
	}
	if s.Frame().Nrow() != 5 {
		t.Fatalf("failed reload replaced frame: rows = %d", s.Frame().Nrow())
	}
}

func TestStoreWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deliveries.csv")
	copyFixture(t, path)

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	truncateFixture(t, path, 3)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s.Frame().Nrow() == 3 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("dataset not reloaded: rows = %d", s.Frame().Nrow())
}

func TestStoreChangedComparesSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deliveries.csv")
	copyFixture(t, path)

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.changed() {
		t.Fatal("changed right after load")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	// Rewrite with a different size but restore the old mtime, as a
	// filesystem with coarse timestamps would report it.
	truncateFixture(t, path, 4)
	if err := os.Chtimes(path, info.ModTime(), info.ModTime()); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if !s.changed() {
		t.Fatal("size change not detected")
	}

	if err := s.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if s.changed() {
		t.Fatal("changed after reload")
	}
	if s.Frame().Nrow() != 4 {
		t.Fatalf("rows = %d, want 4", s.Frame().Nrow())
	}
}

func TestStoreWatchSettlesOnLastWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deliveries.csv")
	copyFixture(t, path)

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.settle = 300 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	time.Sleep(100 * time.Millisecond)

	// A partial write followed quickly by the complete file.
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	header, _, _ := strings.Cut(string(b), "\n")
	if err := os.WriteFile(path, []byte(header+"\n1.5,Clear"), 0o644); err != nil {
		t.Fatalf("write partial: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	copyFixture(t, path)
	truncateFixture(t, path, 2)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s.Frame().Nrow() == 2 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("dataset not reloaded to final content: rows = %d", s.Frame().Nrow())
}
