package filesystem

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func assertNoLeftovers(t *testing.T, dir string, want int) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != want {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory holds %v, want %d entries", names, want)
	}
}

func TestWriteFileAtomic_NewFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "submission.json")
	data := []byte(`{"name":"First Album"}`)

	if err := WriteFileAtomic(target, data, 0o600); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("content = %q, want %q", got, data)
	}
	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
	assertNoLeftovers(t, filepath.Dir(target), 1)
}

func TestWriteFileAtomic_OverwriteExisting(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "submission.json")

	if err := os.WriteFile(target, []byte("original"), 0o644); err != nil {
		t.Fatalf("writing original: %v", err)
	}
	newData := []byte("updated content")
	if err := WriteFileAtomic(target, newData, 0o644); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, newData) {
		t.Errorf("content = %q, want %q", got, newData)
	}
	assertNoLeftovers(t, dir, 1)
}

func TestWriteFileAtomic_TargetIsDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "taken")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target, "keep"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := WriteFileAtomic(target, []byte("x"), 0o644); err == nil {
		t.Fatal("expected error when target is a non-empty directory")
	}
	assertNoLeftovers(t, dir, 1)
}

func TestWriteJSONAtomic(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.json")
	if err := WriteJSONAtomic(target, map[string]string{"name": "First Album"}, 0o644); err != nil {
		t.Fatalf("WriteJSONAtomic: %v", err)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "{\n  \"name\": \"First Album\"\n}\n"
	if string(got) != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestWriteJSONAtomic_KeepsAmpersands(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.json")
	if err := WriteJSONAtomic(target, map[string]string{"artist": "Main & Guest <live>"}, 0o644); err != nil {
		t.Fatalf("WriteJSONAtomic: %v", err)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Contains(got, []byte(`"Main & Guest <live>"`)) {
		t.Errorf("content = %s, want unescaped text", got)
	}
}

func TestWriteJSONAtomic_Unencodable(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.json")
	if err := WriteJSONAtomic(target, make(chan int), 0o644); err == nil {
		t.Fatal("expected encoding error")
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("nothing should be written on encoding failure")
	}
}
