package testing

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCaptureSnapshot_Structure(t *testing.T) {
	tester, _ := mountCounter(t, 3)

	snap := tester.CaptureSnapshot()
	if snap.Tree == nil {
		t.Fatal("expected snapshot tree")
	}
	div := snap.Tree.Children[0]
	if div.Tag != "div" || div.Attrs["id"] != "counter" {
		t.Errorf("unexpected root element %+v", div)
	}
	span := div.Children[0]
	if len(span.Children) != 1 || span.Children[0].Text != "3" {
		t.Errorf("expected span text 3, got %+v", span.Children)
	}
}

func TestSnapshot_Diff(t *testing.T) {
	tester, count := mountCounter(t, 0)

	a := tester.CaptureSnapshot()
	b := tester.CaptureSnapshot()
	if diff := a.Diff(b); diff != "" {
		t.Errorf("expected no diff for identical snapshots, got:\n%s", diff)
	}

	count.Set(9)
	if diff := tester.CaptureSnapshot().Diff(a); diff == "" {
		t.Error("expected diff after the bound value changed")
	}
}

func TestSnapshot_UpdateAndMatch(t *testing.T) {
	t.Setenv("IVY_UPDATE_SNAPSHOTS", "")
	tester, _ := mountCounter(t, 1)
	snap := tester.CaptureSnapshot()

	path := filepath.Join(t.TempDir(), "testdata", "counter.snapshot.json")
	if err := snap.UpdateFile(path); err != nil {
		t.Fatalf("UpdateFile failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("snapshot file should exist after UpdateFile")
	}

	snap.MatchesFile(t, path)
}

func TestSnapshot_MatchesFile_MissingFile(t *testing.T) {
	t.Setenv("IVY_UPDATE_SNAPSHOTS", "")
	tester, _ := mountCounter(t, 0)

	failed := false
	sub := &fatalRecorder{name: t.Name(), onFatal: func() { failed = true }}
	tester.CaptureSnapshot().MatchesFile(sub, "/nonexistent/path/snap.json")

	if !failed {
		t.Error("expected MatchesFile to fail for missing file")
	}
}

func TestSnapshot_MatchesFile_Mismatch(t *testing.T) {
	t.Setenv("IVY_UPDATE_SNAPSHOTS", "")
	tester, count := mountCounter(t, 0)

	path := filepath.Join(t.TempDir(), "snap.json")
	if err := tester.CaptureSnapshot().UpdateFile(path); err != nil {
		t.Fatal(err)
	}

	count.Set(5)
	errored := false
	sub := &errorRecorder{name: t.Name(), onError: func() { errored = true }}
	tester.CaptureSnapshot().MatchesFile(sub, path)

	if !errored {
		t.Error("expected MatchesFile to report error for mismatch")
	}
}

func TestSnapshot_UpdateMode(t *testing.T) {
	tester, _ := mountCounter(t, 0)
	path := filepath.Join(t.TempDir(), "update.snapshot.json")

	t.Setenv("IVY_UPDATE_SNAPSHOTS", "1")
	tester.CaptureSnapshot().MatchesFile(t, path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("snapshot file should be created in update mode")
	}
}

// fatalRecorder intercepts Fatalf calls for testing MatchesFile failures.
type fatalRecorder struct {
	name    string
	onFatal func()
}

func (r *fatalRecorder) Fatalf(format string, args ...any) { r.onFatal() }
func (r *fatalRecorder) Errorf(format string, args ...any) {}
func (r *fatalRecorder) Helper()                           {}
func (r *fatalRecorder) Name() string                      { return r.name }

// errorRecorder intercepts Errorf calls for testing MatchesFile mismatches.
type errorRecorder struct {
	name    string
	onError func()
}

func (r *errorRecorder) Fatalf(format string, args ...any) {}
func (r *errorRecorder) Errorf(format string, args ...any) { r.onError() }
func (r *errorRecorder) Helper()                           {}
func (r *errorRecorder) Name() string                      { return r.name }
