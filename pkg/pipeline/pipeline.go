// Package pipeline orchestrates fetcher, chef, chunker, refinery, and porter
// components into a single staged run, mirroring the CHOMP stage order
// (Fetch, (process the) content, (c)Hunk, Overlap/refine, Maintain/export).
//
// Steps are recorded in whatever order the caller declares them; the
// pipeline canonicalizes to CHOMP order before every Run, Describe, or
// ToConfig call, so chunk_with().process_with() and process_with().chunk_with()
// describe and execute identically.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wyvernzora/chonkie/pkg/chef"
	"github.com/wyvernzora/chonkie/pkg/chunk"
	"github.com/wyvernzora/chonkie/pkg/chunkerr"
	pctx "github.com/wyvernzora/chonkie/pkg/context"
	"github.com/wyvernzora/chonkie/pkg/fetcher"
	plog "github.com/wyvernzora/chonkie/pkg/log"
	"github.com/wyvernzora/chonkie/pkg/porter"
	"github.com/wyvernzora/chonkie/pkg/refinery"
	"github.com/wyvernzora/chonkie/pkg/registry"
)

const component = "pipeline"

// Stage names a CHOMP position. Exported so StepConfig round-trips through
// JSON/YAML with human-readable stage tags instead of bare integers.
type Stage string

const (
	StageFetch   Stage = "fetch"
	StageProcess Stage = "process"
	StageChunk   Stage = "chunk"
	StageRefine  Stage = "refine"
	StageExport  Stage = "export"
)

var stageOrder = map[Stage]int{
	StageFetch:   0,
	StageProcess: 1,
	StageChunk:   2,
	StageRefine:  3,
	StageExport:  4,
}

// StepConfig is one declared pipeline step, in the declarative form used by
// ToConfig/FromConfig/SaveConfig/LoadConfig. Stage serializes under the key
// "type" (fetch/process/chunk/refine/export), per spec.md §6's on-disk
// config contract.
type StepConfig struct {
	Stage   Stage          `json:"type" yaml:"type"`
	Name    string         `json:"name" yaml:"name"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
	// Path is meaningful only for StageExport.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Pipeline is a reusable, fluent composition of registry-resolved
// components. The zero value is not usable; construct with New.
type Pipeline struct {
	registry *registry.Registry
	steps    []StepConfig

	// err is set the first time a declared step names an alias the
	// registry rejects (UnknownComponent/WrongComponentType), captured at
	// record() time rather than waiting for Run/RunBatch. spec.md §4.9
	// requires these caught "at registration time, not at run time"; the
	// fluent fetch_from/process_with/... contract returns *Pipeline for
	// chaining, so the lookup runs immediately in record() and the first
	// failure sticks until Reset, surfacing ahead of any other validation.
	err error

	mu    sync.Mutex
	cache map[string]any
}

// New returns an empty Pipeline backed by reg.
func New(reg *registry.Registry) *Pipeline {
	return &Pipeline{registry: reg, cache: make(map[string]any)}
}

// FetchFrom records a fetch step. At most one may be declared.
func (p *Pipeline) FetchFrom(name string, options map[string]any) *Pipeline {
	return p.record(StepConfig{Stage: StageFetch, Name: name, Options: options})
}

// ProcessWith records a process (chef) step. At most one may be declared.
func (p *Pipeline) ProcessWith(name string, options map[string]any) *Pipeline {
	return p.record(StepConfig{Stage: StageProcess, Name: name, Options: options})
}

// ChunkWith records the chunk step. Exactly one must be declared by Run time.
func (p *Pipeline) ChunkWith(name string, options map[string]any) *Pipeline {
	return p.record(StepConfig{Stage: StageChunk, Name: name, Options: options})
}

// RefineWith appends a refine step. Refine steps run in the order they were
// declared relative to one another (canonicalization only moves the whole
// group after chunk and before export; it never reorders within the group).
func (p *Pipeline) RefineWith(name string, options map[string]any) *Pipeline {
	return p.record(StepConfig{Stage: StageRefine, Name: name, Options: options})
}

// ExportTo records an export step writing to path. At most one may be declared.
func (p *Pipeline) ExportTo(name, path string, options map[string]any) *Pipeline {
	return p.record(StepConfig{Stage: StageExport, Name: name, Path: path, Options: options})
}

// kindForStage maps a CHOMP stage to the registry partition that resolves
// its component names.
func kindForStage(stage Stage) registry.Kind {
	switch stage {
	case StageFetch:
		return registry.KindFetcher
	case StageProcess:
		return registry.KindChef
	case StageChunk:
		return registry.KindChunker
	case StageRefine:
		return registry.KindRefinery
	case StageExport:
		return registry.KindPorter
	default:
		return registry.Kind(stage)
	}
}

func (p *Pipeline) record(s StepConfig) *Pipeline {
	p.steps = append(p.steps, s)
	if p.err == nil {
		if _, err := p.registry.Lookup(kindForStage(s.Stage), s.Name); err != nil {
			p.err = err
		}
	}
	return p
}

// Reset clears all declared steps and any sticky registration error; the
// Pipeline (and its registry, and its component cache) remain usable for a
// fresh declaration.
func (p *Pipeline) Reset() *Pipeline {
	p.steps = nil
	p.err = nil
	return p
}

// canonical returns steps sorted into CHOMP order. The sort is stable, so
// relative order within a stage (refine steps, in particular) is preserved.
func (p *Pipeline) canonical() []StepConfig {
	steps := make([]StepConfig, len(p.steps))
	copy(steps, p.steps)
	sort.SliceStable(steps, func(i, j int) bool {
		return stageOrder[steps[i].Stage] < stageOrder[steps[j].Stage]
	})
	return steps
}

func (p *Pipeline) validate(hasDirectInput bool) error {
	if p.err != nil {
		return p.err
	}
	var fetchCount, processCount, chunkCount int
	for _, s := range p.steps {
		switch s.Stage {
		case StageFetch:
			fetchCount++
		case StageProcess:
			processCount++
		case StageChunk:
			chunkCount++
		}
	}
	if chunkCount != 1 {
		return chunkerr.WithReason(chunkerr.KindConfiguration, chunkerr.ReasonMissingChunker,
			component, fmt.Sprintf("pipeline requires exactly one chunk step, found %d", chunkCount), nil)
	}
	if processCount > 1 {
		return chunkerr.WithReason(chunkerr.KindConfiguration, chunkerr.ReasonMultipleProcessors,
			component, fmt.Sprintf("pipeline allows at most one process step, found %d", processCount), nil)
	}
	if fetchCount > 1 {
		return chunkerr.WithReason(chunkerr.KindConfiguration, chunkerr.ReasonMultipleFetchers,
			component, fmt.Sprintf("pipeline allows at most one fetch step, found %d", fetchCount), nil)
	}
	if !hasDirectInput && fetchCount == 0 {
		return chunkerr.WithReason(chunkerr.KindConfiguration, chunkerr.ReasonNoInput,
			component, "pipeline has neither a fetch step nor direct input texts", nil)
	}
	return nil
}

// Describe renders the canonical step order as a human-readable summary,
// one line per step, with options in sorted-key order for determinism.
func (p *Pipeline) Describe() string {
	var sb strings.Builder
	for _, s := range p.canonical() {
		fmt.Fprintf(&sb, "%s: %s", s.Stage, s.Name)
		if s.Stage == StageExport && s.Path != "" {
			fmt.Fprintf(&sb, " -> %s", s.Path)
		}
		if len(s.Options) > 0 {
			keys := make([]string, 0, len(s.Options))
			for k := range s.Options {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			parts := make([]string, 0, len(keys))
			for _, k := range keys {
				parts = append(parts, fmt.Sprintf("%s=%v", k, s.Options[k]))
			}
			fmt.Fprintf(&sb, " {%s}", strings.Join(parts, ", "))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ToConfig returns the canonicalized step list.
func (p *Pipeline) ToConfig() []StepConfig {
	return p.canonical()
}

// FromConfig replaces this Pipeline's declared steps with steps, discarding
// whatever insertion order steps arrived in (Run/Describe canonicalize
// regardless). Each step is re-validated against the registry exactly as
// fetch_from/process_with/... do, so a config naming an unknown component
// is caught here rather than at Run.
func (p *Pipeline) FromConfig(steps []StepConfig) *Pipeline {
	p.steps = nil
	p.err = nil
	for _, s := range steps {
		p.record(s)
	}
	return p
}

func isYAMLPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// SaveConfig serializes ToConfig() to path, choosing YAML for a .yaml/.yml
// extension and JSON otherwise.
func (p *Pipeline) SaveConfig(path string) error {
	steps := p.ToConfig()
	var data []byte
	var err error
	if isYAMLPath(path) {
		data, err = yaml.Marshal(steps)
	} else {
		data, err = json.MarshalIndent(steps, "", "  ")
	}
	if err != nil {
		return chunkerr.Configuration(component, "serializing pipeline config", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return chunkerr.WithReason(chunkerr.KindCollaborator, chunkerr.ReasonExportFailed, component, "writing pipeline config", err)
	}
	return nil
}

// LoadConfig reads a step list previously written by SaveConfig.
func LoadConfig(path string) ([]StepConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, chunkerr.WithReason(chunkerr.KindCollaborator, chunkerr.ReasonFetchFailed, component, "reading pipeline config", err)
	}
	var steps []StepConfig
	if isYAMLPath(path) {
		err = yaml.Unmarshal(data, &steps)
	} else {
		err = json.Unmarshal(data, &steps)
	}
	if err != nil {
		return nil, chunkerr.Configuration(component, "parsing pipeline config", err)
	}
	return steps, nil
}

// cacheKey derives a deterministic identity for (kind, name, options);
// json.Marshal on a map[string]any sorts keys, so this is stable regardless
// of the order options were populated in.
func cacheKey(kind registry.Kind, name string, options map[string]any) string {
	data, _ := json.Marshal(options)
	return string(kind) + "|" + name + "|" + string(data)
}

// build resolves (kind, name, options) through the registry, caching the
// result keyed by config identity so repeated steps across Run calls (or
// across a batch) reuse one instance rather than re-initializing.
func (p *Pipeline) build(kind registry.Kind, name string, options map[string]any) (any, error) {
	key := cacheKey(kind, name, options)

	p.mu.Lock()
	if v, ok := p.cache[key]; ok {
		p.mu.Unlock()
		return v, nil
	}
	p.mu.Unlock()

	v, err := p.registry.Build(kind, name, options)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[key] = v
	p.mu.Unlock()
	return v, nil
}

func (p *Pipeline) buildFetcher(s StepConfig) (fetcher.Fetcher, error) {
	v, err := p.build(registry.KindFetcher, s.Name, s.Options)
	if err != nil {
		return nil, err
	}
	f, ok := v.(fetcher.Fetcher)
	if !ok {
		return nil, wrongType(component, "fetcher", s.Name)
	}
	return f, nil
}

func (p *Pipeline) buildChef(s StepConfig) (chef.Chef, error) {
	v, err := p.build(registry.KindChef, s.Name, s.Options)
	if err != nil {
		return nil, err
	}
	c, ok := v.(chef.Chef)
	if !ok {
		return nil, wrongType(component, "chef", s.Name)
	}
	return c, nil
}

// ctxChunker and syncChunker accommodate the two shapes chunkers expose:
// token/recursive/sentence chunkers are pure synchronous functions of text
// (no suspension points, so no context.Context parameter), while semantic
// and late chunkers call out to an embedding model and so take one.
type ctxChunker interface {
	Chunk(ctx context.Context, text string) ([]chunk.Chunk, error)
}
type syncChunker interface {
	Chunk(text string) ([]chunk.Chunk, error)
}

func (p *Pipeline) runChunker(ctx context.Context, s StepConfig, text string) ([]chunk.Chunk, error) {
	v, err := p.build(registry.KindChunker, s.Name, s.Options)
	if err != nil {
		return nil, err
	}
	switch c := v.(type) {
	case ctxChunker:
		return c.Chunk(ctx, text)
	case syncChunker:
		return c.Chunk(text)
	default:
		return nil, wrongType(component, "chunker", s.Name)
	}
}

func (p *Pipeline) buildRefinery(s StepConfig) (*refinery.Refinery, error) {
	v, err := p.build(registry.KindRefinery, s.Name, s.Options)
	if err != nil {
		return nil, err
	}
	r, ok := v.(*refinery.Refinery)
	if !ok {
		return nil, wrongType(component, "refinery", s.Name)
	}
	return r, nil
}

func (p *Pipeline) buildPorter(s StepConfig) (porter.Porter, error) {
	v, err := p.build(registry.KindPorter, s.Name, s.Options)
	if err != nil {
		return nil, err
	}
	pt, ok := v.(porter.Porter)
	if !ok {
		return nil, wrongType(component, "porter", s.Name)
	}
	return pt, nil
}

func wrongType(comp, kind, name string) error {
	return chunkerr.WithReason(chunkerr.KindConfiguration, chunkerr.ReasonWrongComponentType,
		comp, fmt.Sprintf("%s %q built a value of an unexpected type", kind, name), nil)
}

// runOne executes the canonicalized step list against one document's
// content, starting from either direct text or a fetched Item.
func (p *Pipeline) runOne(ctx context.Context, text string, source *string, metadata map[string]any) (*chunk.Document, error) {
	doc := chunk.NewDocument(text)
	doc.Source = source
	for k, v := range metadata {
		doc.Metadata[k] = v
	}

	fi := pctx.FileInfo{}
	if source != nil {
		fi.Path = *source
	}
	ctx = pctx.WithFileInfo(ctx, fi)
	ctx = plog.WithKV(ctx, "document_id", doc.ID)
	logger := plog.Logger(ctx)

	for _, s := range p.canonical() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Debug("pipeline step", "stage", s.Stage, "name", s.Name)
		switch s.Stage {
		case StageFetch:
			// handled by the caller before runOne is invoked.
		case StageProcess:
			c, err := p.buildChef(s)
			if err != nil {
				return nil, err
			}
			processed, err := c(ctx, doc.Content)
			if err != nil {
				return nil, err
			}
			doc.Content = processed
		case StageChunk:
			chunks, err := p.runChunker(ctx, s, doc.Content)
			if err != nil {
				return nil, err
			}
			doc.Chunks = chunks
		case StageRefine:
			r, err := p.buildRefinery(s)
			if err != nil {
				return nil, err
			}
			chunks, err := r.Refine(ctx, doc.Chunks)
			if err != nil {
				return nil, err
			}
			doc.Chunks = chunks
		case StageExport:
			pt, err := p.buildPorter(s)
			if err != nil {
				return nil, err
			}
			if _, err := pt(ctx, doc.Chunks, s.Path); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

// Run executes the pipeline against a single text, bypassing any declared
// fetch step (direct input always wins, per the documented precedence).
//
// Run and RunAsync are the same method: every call already threads a
// context.Context down to each component's suspension points (fetch,
// embed, export), so a Go caller gets cooperative cancellation without a
// separate async entry point.
func (p *Pipeline) Run(ctx context.Context, text string) (*chunk.Document, error) {
	if err := p.validate(true); err != nil {
		return nil, err
	}
	return p.runOne(ctx, text, nil, nil)
}

type pipelineInput struct {
	text     string
	source   *string
	metadata map[string]any
}

// maxConcurrentDocuments bounds how many documents a batch run processes at
// once. All builtin chunkers are pure, so parallelizing across documents
// (not within one) is safe per the concurrency model.
const maxConcurrentDocuments = 8

func (p *Pipeline) runBatch(ctx context.Context, inputs []pipelineInput) ([]*chunk.Document, error) {
	docs := make([]*chunk.Document, len(inputs))
	errs := make([]error, len(inputs))

	sem := make(chan struct{}, maxConcurrentDocuments)
	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, in pipelineInput) {
			defer wg.Done()
			defer func() { <-sem }()
			docs[i], errs[i] = p.runOne(ctx, in.text, in.source, in.metadata)
		}(i, in)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// RunBatch executes the pipeline over texts (if non-empty, bypassing any
// fetch step), or, if texts is empty, over whatever the declared fetch step
// produces. Input order is preserved in the returned slice regardless of
// the internal scheduling order.
func (p *Pipeline) RunBatch(ctx context.Context, texts []string) ([]*chunk.Document, error) {
	if err := p.validate(len(texts) > 0); err != nil {
		return nil, err
	}

	if len(texts) > 0 {
		inputs := make([]pipelineInput, len(texts))
		for i, t := range texts {
			inputs[i] = pipelineInput{text: t}
		}
		return p.runBatch(ctx, inputs)
	}

	fetchStep, ok := p.fetchStep()
	if !ok {
		return nil, chunkerr.WithReason(chunkerr.KindConfiguration, chunkerr.ReasonNoInput,
			component, "no fetch step declared and no direct input texts", nil)
	}
	f, err := p.buildFetcher(fetchStep)
	if err != nil {
		return nil, err
	}
	path, _ := fetchStep.Options["path"].(string)
	pattern, _ := fetchStep.Options["pattern"].(string)
	items, err := f(ctx, path, pattern)
	if err != nil {
		return nil, err
	}

	inputs := make([]pipelineInput, len(items))
	for i, item := range items {
		src := item.Path
		inputs[i] = pipelineInput{text: item.Content, source: &src, metadata: item.Metadata}
	}
	return p.runBatch(ctx, inputs)
}

func (p *Pipeline) fetchStep() (StepConfig, bool) {
	for _, s := range p.steps {
		if s.Stage == StageFetch {
			return s, true
		}
	}
	return StepConfig{}, false
}
