package usecase

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRebuildDebouncerCoalesces(t *testing.T) {
	rebuildReq, trigger := newRebuildDebouncer()

	for range 5 {
		trigger()
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-rebuildReq:
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never fired")
	}

	// The burst above must have collapsed into that single request.
	select {
	case <-rebuildReq:
		t.Fatal("burst produced more than one rebuild request")
	case <-time.After(2 * rebuildQuietWindow):
	}

	trigger()
	select {
	case <-rebuildReq:
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer did not fire for a fresh trigger")
	}
}

func TestWatchShouldIgnore(t *testing.T) {
	cfg := testConfig(t)
	svc := NewWatchService(cfg, nil, nil)

	cases := []struct {
		path   string
		ignore bool
	}{
		{filepath.Join(cfg.PagesPath(), "index.tsx"), false},
		{filepath.Join(cfg.Root, "global.ts"), false},
		{filepath.Join(cfg.DistPath(), "index.html"), true},
		{filepath.Join(cfg.WorkPath(), "staging", "pages", "index.js"), true},
		{filepath.Join(cfg.PagesPath(), ".index.tsx.swp"), true},
		{filepath.Join(cfg.PagesPath(), "index.tsx~"), true},
	}
	for _, tc := range cases {
		if got := svc.shouldIgnore(tc.path); got != tc.ignore {
			t.Errorf("shouldIgnore(%s) = %v, want %v", tc.path, got, tc.ignore)
		}
	}
}
