package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wyvernzora/chonkie/pkg/pipeline"
	"github.com/wyvernzora/chonkie/pkg/registry"
)

const longText = "This is one sentence. This is another sentence that is quite a bit longer than the first one, so that it forces a split somewhere in the middle of the text when chunked in small pieces."

func TestPipeline_S4_ReorderIndependence(t *testing.T) {
	reg := registry.NewDefault()

	p1 := pipeline.New(reg).
		ProcessWith("plaintext", nil).
		ChunkWith("recursive", map[string]any{"chunk_size": 20})
	p2 := pipeline.New(reg).
		ChunkWith("recursive", map[string]any{"chunk_size": 20}).
		ProcessWith("plaintext", nil)

	d1, err := p1.Run(context.Background(), longText)
	if err != nil {
		t.Fatalf("p1.Run: %v", err)
	}
	d2, err := p2.Run(context.Background(), longText)
	if err != nil {
		t.Fatalf("p2.Run: %v", err)
	}

	if len(d1.Chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}
	if len(d1.Chunks) != len(d2.Chunks) {
		t.Fatalf("chunk count differs: %d vs %d", len(d1.Chunks), len(d2.Chunks))
	}
	for i := range d1.Chunks {
		if d1.Chunks[i].Text != d2.Chunks[i].Text {
			t.Errorf("chunk %d text differs: %q vs %q", i, d1.Chunks[i].Text, d2.Chunks[i].Text)
		}
		if d1.Chunks[i].StartIndex != d2.Chunks[i].StartIndex || d1.Chunks[i].EndIndex != d2.Chunks[i].EndIndex {
			t.Errorf("chunk %d offsets differ", i)
		}
	}
}

// S5. Config round-trip: process + recursive chunk + a refine step,
// serialized and deserialized, must describe identically.
func TestPipeline_S5_ConfigRoundTrip(t *testing.T) {
	reg := registry.NewDefault()

	p := pipeline.New(reg).
		ProcessWith("plaintext", nil).
		ChunkWith("recursive", map[string]any{"chunk_size": 512}).
		RefineWith("both", map[string]any{"context_size": 50, "min_overlap": 50})

	cfg := p.ToConfig()
	p2 := pipeline.New(reg).FromConfig(cfg)

	if p.Describe() != p2.Describe() {
		t.Errorf("describe mismatch after round-trip:\n--- original ---\n%s--- round-tripped ---\n%s", p.Describe(), p2.Describe())
	}
}

func TestPipeline_SaveLoadConfig_JSON(t *testing.T) {
	reg := registry.NewDefault()
	p := pipeline.New(reg).
		ProcessWith("plaintext", nil).
		ChunkWith("recursive", map[string]any{"chunk_size": 512}).
		RefineWith("merge", map[string]any{"min_overlap": 50})

	path := filepath.Join(t.TempDir(), "pipeline.json")
	if err := p.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	steps, err := pipeline.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	p2 := pipeline.New(reg).FromConfig(steps)
	if p.Describe() != p2.Describe() {
		t.Errorf("describe mismatch after JSON save/load round-trip")
	}
}

func TestPipeline_SaveLoadConfig_YAML(t *testing.T) {
	reg := registry.NewDefault()
	p := pipeline.New(reg).
		ProcessWith("whitespace", nil).
		ChunkWith("token", map[string]any{"chunk_size": 64})

	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := p.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	steps, err := pipeline.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	p2 := pipeline.New(reg).FromConfig(steps)
	if p.Describe() != p2.Describe() {
		t.Errorf("describe mismatch after YAML save/load round-trip")
	}
}

func TestPipeline_Run_MissingChunker(t *testing.T) {
	reg := registry.NewDefault()
	p := pipeline.New(reg).ProcessWith("plaintext", nil)
	if _, err := p.Run(context.Background(), "hello"); err == nil {
		t.Fatal("expected an error when no chunk step is declared")
	}
}

func TestPipeline_Run_MultipleProcessors(t *testing.T) {
	reg := registry.NewDefault()
	p := pipeline.New(reg).
		ProcessWith("plaintext", nil).
		ProcessWith("whitespace", nil).
		ChunkWith("token", nil)
	if _, err := p.Run(context.Background(), "hello"); err == nil {
		t.Fatal("expected an error for two process steps")
	}
}

func TestPipeline_RunBatch_NoInput(t *testing.T) {
	reg := registry.NewDefault()
	p := pipeline.New(reg).ChunkWith("token", nil)
	if _, err := p.RunBatch(context.Background(), nil); err == nil {
		t.Fatal("expected an error when there is neither a fetch step nor direct texts")
	}
}

func TestPipeline_RunBatch_PreservesOrder(t *testing.T) {
	reg := registry.NewDefault()
	p := pipeline.New(reg).ChunkWith("token", map[string]any{"chunk_size": 8})

	texts := []string{"alpha beta gamma", "delta epsilon zeta", "eta theta iota kappa"}
	docs, err := p.RunBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if len(docs) != len(texts) {
		t.Fatalf("expected %d documents, got %d", len(texts), len(docs))
	}
	for i, d := range docs {
		if d.Content != texts[i] {
			t.Errorf("document %d content = %q, want %q", i, d.Content, texts[i])
		}
	}
}

func TestPipeline_FetchFrom_LocalFS(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "Hello world.")
	writeFile(t, dir, "b.txt", "Goodbye world.")

	reg := registry.NewDefault()
	p := pipeline.New(reg).
		FetchFrom("local", map[string]any{"path": dir, "pattern": "*.txt"}).
		ChunkWith("token", map[string]any{"chunk_size": 32})

	docs, err := p.RunBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	for _, d := range docs {
		if d.Source == nil {
			t.Error("expected Source to be populated from the fetcher")
		}
		if len(d.Chunks) == 0 {
			t.Error("expected at least one chunk per document")
		}
	}
}

func TestPipeline_FetchFrom_MarkdownChefInjectsSourcePath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "guide.md", "---\ntitle: Guide\n---\n\n# Heading\n\nBody text.\n")

	reg := registry.NewDefault()
	p := pipeline.New(reg).
		FetchFrom("local", map[string]any{"path": dir, "pattern": "*.md"}).
		ProcessWith("markdown", nil).
		ChunkWith("token", map[string]any{"chunk_size": 64})

	docs, err := p.RunBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if len(docs[0].Chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}
	joined := docs[0].Chunks[0].Text
	if !strings.Contains(joined, "Title: Guide") {
		t.Errorf("first chunk = %q, want a Title header", joined)
	}
	if !strings.Contains(joined, "Source: ") || !strings.Contains(joined, "guide.md") {
		t.Errorf("first chunk = %q, want a Source header naming the fetched file", joined)
	}
}

func TestPipeline_DirectTextsBypassFetcher(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "Hello world.")

	reg := registry.NewDefault()
	p := pipeline.New(reg).
		FetchFrom("local", map[string]any{"path": dir, "pattern": "*.txt"}).
		ChunkWith("token", map[string]any{"chunk_size": 32})

	docs, err := p.RunBatch(context.Background(), []string{"direct text wins"})
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if len(docs) != 1 || docs[0].Content != "direct text wins" {
		t.Fatalf("expected direct input to bypass the fetcher, got %+v", docs)
	}
}

func TestPipeline_UnknownComponent_CaughtAtDeclaration(t *testing.T) {
	reg := registry.NewDefault()
	p := pipeline.New(reg).ChunkWith("no-such-chunker", nil)

	// The declaration itself (ChunkWith, inside record) already resolved
	// the alias against the registry; Run only surfaces the sticky result,
	// it does not perform the lookup itself.
	if _, err := p.Run(context.Background(), "hello"); err == nil {
		t.Fatal("expected an error for an unknown chunker alias")
	}
}

func TestPipeline_WrongComponentType_CaughtAtDeclaration(t *testing.T) {
	reg := registry.NewDefault()
	// "token" is registered as a chunker, not a chef.
	p := pipeline.New(reg).ProcessWith("token", nil).ChunkWith("token", nil)

	if _, err := p.Run(context.Background(), "hello"); err == nil {
		t.Fatal("expected an error for a chunker alias used as a chef")
	}
}

func TestPipeline_FromConfig_UnknownComponent(t *testing.T) {
	reg := registry.NewDefault()
	p := pipeline.New(reg).FromConfig([]pipeline.StepConfig{
		{Stage: pipeline.StageChunk, Name: "no-such-chunker"},
	})
	if _, err := p.Run(context.Background(), "hello"); err == nil {
		t.Fatal("expected an error for a config naming an unknown component")
	}
}

func TestPipeline_Reset(t *testing.T) {
	reg := registry.NewDefault()
	p := pipeline.New(reg).ChunkWith("token", nil)
	p.Reset()
	if _, err := p.Run(context.Background(), "hello"); err == nil {
		t.Fatal("expected an error after Reset removed the chunk step")
	}
}

func TestPipeline_Describe_CanonicalOrderRegardlessOfDeclarationOrder(t *testing.T) {
	reg := registry.NewDefault()
	p := pipeline.New(reg).
		ExportTo("jsonlines", "out.jsonl", nil).
		ChunkWith("token", map[string]any{"chunk_size": 8}).
		ProcessWith("plaintext", nil)

	got := p.Describe()
	want := "process: plaintext\nchunk: token {chunk_size=8}\nexport: jsonlines -> out.jsonl\n"
	if got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}
