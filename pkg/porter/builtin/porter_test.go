package builtin

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/wyvernzora/chonkie/pkg/chunk"
)

func TestJSONLines_WritesOneObjectPerChunk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jsonl")

	ctxStr := "prior context"
	chunks := []chunk.Chunk{
		{ID: "a", Text: "Hello", StartIndex: 0, EndIndex: 5, TokenCount: 1},
		{ID: "b", Text: "World", StartIndex: 5, EndIndex: 10, TokenCount: 1, Context: &ctxStr},
	}

	ok, err := JSONLines()(context.Background(), chunks, path)
	if err != nil {
		t.Fatalf("JSONLines: %v", err)
	}
	if !ok {
		t.Fatal("expected JSONLines to report success")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	var lines []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		lines = append(lines, m)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if _, ok := lines[0]["context"]; ok {
		t.Errorf("first record should omit absent context, got %v", lines[0])
	}
	if lines[1]["context"] != "prior context" {
		t.Errorf("second record context = %v, want %q", lines[1]["context"], "prior context")
	}
}

func TestJSONLines_EmptyChunks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jsonl")
	ok, err := JSONLines()(context.Background(), nil, path)
	if err != nil {
		t.Fatalf("JSONLines: %v", err)
	}
	if ok {
		t.Error("expected false for empty chunk sequence")
	}
	if _, statErr := os.Stat(path); statErr == nil {
		t.Error("expected no file to be created for empty chunk sequence")
	}
}

func TestDebug_WritesToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "debug.txt")
	chunks := []chunk.Chunk{{ID: "a", Text: "Hello", StartIndex: 0, EndIndex: 5, TokenCount: 1}}

	ok, err := Debug()(context.Background(), chunks, path)
	if err != nil {
		t.Fatalf("Debug: %v", err)
	}
	if !ok {
		t.Fatal("expected Debug to report success")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty debug dump")
	}
}
