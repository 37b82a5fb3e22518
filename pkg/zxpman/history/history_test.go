package history

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func setupTestJournal(t *testing.T) *Journal {
	t.Helper()

	j, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := j.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	return j
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates journal with valid directory", func(t *testing.T) {
		t.Parallel()

		j, err := New(t.TempDir())
		if err != nil {
			t.Fatalf("New() error = %v, want nil", err)
		}
		if j == nil {
			t.Fatal("New() returned nil")
		}
	})

	t.Run("returns error for empty directory", func(t *testing.T) {
		t.Parallel()

		_, err := New("")
		if err == nil {
			t.Fatal("New() error = nil, want error for empty directory")
		}
	})
}

func TestJournal_EnsureDir(t *testing.T) {
	t.Parallel()

	t.Run("creates directory if not exists", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "journal")

		j, err := New(dir)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		if err := j.EnsureDir(); err != nil {
			t.Fatalf("EnsureDir() error = %v", err)
		}

		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("directory not created: %v", err)
		}
		if !info.IsDir() {
			t.Fatal("path is not a directory")
		}
	})
}

func TestJournal_LogInstall(t *testing.T) {
	t.Parallel()

	t.Run("logs install operation successfully", func(t *testing.T) {
		t.Parallel()
		j := setupTestJournal(t)

		entry, err := j.LogInstall(InstallRecord{
			BundleID: "com.example.tools",
			Name:     "Example Tools",
			Version:  "1.2.0",
			Archive:  "/tmp/tools.zxp",
			Dir:      "/Library/Application Support/Adobe/CEP/extensions/com.example.tools",
			Files:    12,
			Bytes:    4096,
		})
		if err != nil {
			t.Fatalf("LogInstall() error = %v", err)
		}

		if entry.Operation != OpInstall {
			t.Errorf("Operation = %v, want %v", entry.Operation, OpInstall)
		}
		if entry.BundleID != "com.example.tools" {
			t.Errorf("BundleID = %v, want com.example.tools", entry.BundleID)
		}
		if entry.Files != 12 {
			t.Errorf("Files = %v, want 12", entry.Files)
		}
		if entry.Bytes != 4096 {
			t.Errorf("Bytes = %v, want 4096", entry.Bytes)
		}
	})

	t.Run("generates unique ID with install prefix", func(t *testing.T) {
		t.Parallel()
		j := setupTestJournal(t)

		entry, err := j.LogInstall(InstallRecord{BundleID: "com.example.a", Dir: "/x"})
		if err != nil {
			t.Fatalf("LogInstall() error = %v", err)
		}

		if len(entry.ID) < 8 || entry.ID[:8] != "install-" {
			t.Errorf("ID = %v, want prefix 'install-'", entry.ID)
		}
	})

	t.Run("persists entry to file", func(t *testing.T) {
		t.Parallel()
		j := setupTestJournal(t)

		entry, err := j.LogInstall(InstallRecord{BundleID: "com.example.b", Dir: "/y"})
		if err != nil {
			t.Fatalf("LogInstall() error = %v", err)
		}

		retrieved, err := j.Get(entry.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if retrieved.BundleID != "com.example.b" {
			t.Errorf("retrieved BundleID = %v, want com.example.b", retrieved.BundleID)
		}
	})
}

func TestJournal_LogRemove(t *testing.T) {
	t.Parallel()

	t.Run("logs remove operation successfully", func(t *testing.T) {
		t.Parallel()
		j := setupTestJournal(t)

		entry, err := j.LogRemove("/extensions/com.example.tools")
		if err != nil {
			t.Fatalf("LogRemove() error = %v", err)
		}

		if entry.Operation != OpRemove {
			t.Errorf("Operation = %v, want %v", entry.Operation, OpRemove)
		}
		if entry.Dir != "/extensions/com.example.tools" {
			t.Errorf("Dir = %v, want removed path", entry.Dir)
		}
	})

	t.Run("generates unique ID with remove prefix", func(t *testing.T) {
		t.Parallel()
		j := setupTestJournal(t)

		entry, err := j.LogRemove("/x")
		if err != nil {
			t.Fatalf("LogRemove() error = %v", err)
		}

		if len(entry.ID) < 7 || entry.ID[:7] != "remove-" {
			t.Errorf("ID = %v, want prefix 'remove-'", entry.ID)
		}
	})
}

func TestJournal_List(t *testing.T) {
	t.Parallel()

	t.Run("returns entries sorted by timestamp descending", func(t *testing.T) {
		t.Parallel()
		j := setupTestJournal(t)

		if _, err := j.LogInstall(InstallRecord{BundleID: "com.example.first", Dir: "/a"}); err != nil {
			t.Fatalf("LogInstall() error = %v", err)
		}
		time.Sleep(10 * time.Millisecond)

		if _, err := j.LogRemove("/a"); err != nil {
			t.Fatalf("LogRemove() error = %v", err)
		}
		time.Sleep(10 * time.Millisecond)

		if _, err := j.LogInstall(InstallRecord{BundleID: "com.example.second", Dir: "/b"}); err != nil {
			t.Fatalf("LogInstall() error = %v", err)
		}

		entries, err := j.List(0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}

		if len(entries) != 3 {
			t.Fatalf("len(entries) = %v, want 3", len(entries))
		}

		// Newest first
		for i := 0; i < len(entries)-1; i++ {
			if entries[i].Timestamp.Before(entries[i+1].Timestamp) {
				t.Errorf("entries not sorted: %v before %v", entries[i].Timestamp, entries[i+1].Timestamp)
			}
		}
	})

	t.Run("respects limit parameter", func(t *testing.T) {
		t.Parallel()
		j := setupTestJournal(t)

		for i := 0; i < 5; i++ {
			if _, err := j.LogRemove("/x"); err != nil {
				t.Fatalf("LogRemove() error = %v", err)
			}
		}

		entries, err := j.List(2)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 2 {
			t.Errorf("len(entries) = %v, want 2", len(entries))
		}
	})

	t.Run("returns empty slice for missing directory", func(t *testing.T) {
		t.Parallel()

		j, err := New(filepath.Join(t.TempDir(), "never-created"))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		entries, err := j.List(0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if entries == nil {
			t.Fatal("List() returned nil, want empty slice")
		}
		if len(entries) != 0 {
			t.Errorf("len(entries) = %v, want 0", len(entries))
		}
	})

	t.Run("skips unparseable files", func(t *testing.T) {
		t.Parallel()
		j := setupTestJournal(t)

		if err := os.WriteFile(filepath.Join(j.dir, "junk.json"), []byte("not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := j.LogRemove("/x"); err != nil {
			t.Fatalf("LogRemove() error = %v", err)
		}

		entries, err := j.List(0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("len(entries) = %v, want 1", len(entries))
		}
	})
}

func TestJournal_Get(t *testing.T) {
	t.Parallel()

	t.Run("returns error for empty ID", func(t *testing.T) {
		t.Parallel()
		j := setupTestJournal(t)

		if _, err := j.Get(""); err == nil {
			t.Fatal("Get(\"\") error = nil, want error")
		}
	})

	t.Run("returns error for unknown ID", func(t *testing.T) {
		t.Parallel()
		j := setupTestJournal(t)

		if _, err := j.Get("install-2026-01-01T00-00-00-abcdef"); err == nil {
			t.Fatal("Get() error = nil, want error for unknown ID")
		}
	})
}

func TestJournal_Cleanup(t *testing.T) {
	t.Parallel()

	t.Run("removes entries older than retention", func(t *testing.T) {
		t.Parallel()
		j := setupTestJournal(t)

		old, err := j.LogRemove("/old")
		if err != nil {
			t.Fatalf("LogRemove() error = %v", err)
		}

		// Age the entry file past the cutoff.
		oldPath := filepath.Join(j.dir, old.ID+".json")
		aged := time.Now().AddDate(0, 0, -120)
		if err := os.Chtimes(oldPath, aged, aged); err != nil {
			t.Fatal(err)
		}

		fresh, err := j.LogRemove("/fresh")
		if err != nil {
			t.Fatalf("LogRemove() error = %v", err)
		}

		if err := j.Cleanup(90); err != nil {
			t.Fatalf("Cleanup() error = %v", err)
		}

		if _, err := j.Get(old.ID); err == nil {
			t.Error("aged entry still present after Cleanup()")
		}
		if _, err := j.Get(fresh.ID); err != nil {
			t.Errorf("fresh entry removed by Cleanup(): %v", err)
		}
	})

	t.Run("tolerates missing directory", func(t *testing.T) {
		t.Parallel()

		j, err := New(filepath.Join(t.TempDir(), "absent"))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if err := j.Cleanup(30); err != nil {
			t.Errorf("Cleanup() error = %v, want nil", err)
		}
	})
}

func TestJournal_ConcurrentLogging(t *testing.T) {
	t.Parallel()
	j := setupTestJournal(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := j.LogRemove("/concurrent"); err != nil {
				t.Errorf("LogRemove() error = %v", err)
			}
		}()
	}
	wg.Wait()

	entries, err := j.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 20 {
		t.Errorf("len(entries) = %v, want 20", len(entries))
	}
}
