package grove

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestReloadOnChangeQueuesActiveScene(t *testing.T) {
	m, _ := newTestManager(t)
	w := &Watcher{changed: make(chan string, 4)}

	w.changed <- "game.yaml"
	if reloadOnChange(w, m) {
		t.Error("change to an inactive scene queued a reload")
	}
	w.changed <- "menu.yaml"
	w.changed <- "menu.yaml"
	if !reloadOnChange(w, m) {
		t.Fatal("change to the active scene not queued")
	}
	if m.PendingID() != "Menu" {
		t.Errorf("PendingID = %q, want Menu", m.PendingID())
	}
	old := probeOf(t, m.Active(), "menu-world")
	m.Update(0.1)
	if probeOf(t, m.Active(), "menu-world") == old {
		t.Error("scene not reloaded")
	}
}

func TestAppPollsWatcher(t *testing.T) {
	m, _ := newTestManager(t)
	w := &Watcher{changed: make(chan string, 1)}
	app := NewApp(m, AppConfig{Watcher: w})
	old := probeOf(t, m.Active(), "menu-world")

	w.changed <- "menu.yaml"
	_ = app.tick(0.1)
	if probeOf(t, m.Active(), "menu-world") == old {
		t.Error("tick did not reload the changed scene")
	}
}

func TestWatcherReportsRelativePaths(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, nil)
	if err != nil {
		t.Skipf("file watching unavailable: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "menu.yaml"), []byte("layers: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if p, ok := w.Poll(); ok {
			if p != "menu.yaml" {
				t.Errorf("path = %q, want menu.yaml", p)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("no change reported")
}

func TestNewWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Error("watching a missing directory succeeded")
	}
}

func TestWatchScenesCoversSubdirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "levels"), 0o755); err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(dir, nil)
	if err != nil {
		t.Skipf("file watching unavailable: %v", err)
	}
	defer w.Close()

	scenes := Directory{Start: "A", Scenes: []SceneEntry{
		{ID: "A", Path: "levels/a.yaml"},
		{ID: "B", Path: "levels/b.yaml"},
		{ID: "Menu", Path: "menu.yaml"},
	}}
	if err := w.WatchScenes(scenes); err != nil {
		t.Fatalf("WatchScenes: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "levels", "a.yaml"), []byte("layers: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if p, ok := w.Poll(); ok && p == "levels/a.yaml" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("change below root not reported")
}

func TestWatchScenesMissingSubdirectory(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), nil)
	if err != nil {
		t.Skipf("file watching unavailable: %v", err)
	}
	defer w.Close()

	err = w.WatchScenes(Directory{Scenes: []SceneEntry{{ID: "A", Path: "gone/a.yaml"}}})
	if err == nil {
		t.Error("watching a missing scene directory succeeded")
	}
}
