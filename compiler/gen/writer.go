package gen

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/minio/sha256-simd"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// ManifestFile is the name of the manifest kept in the output directory.
const ManifestFile = ".fluentgen.manifest"

// manifestVersion is bumped whenever the manifest layout changes.
// Manifests of another version are ignored.
const manifestVersion = 1

// Manifest records the files written by the last run.
type Manifest struct {
	Version int             `msgpack:"version"`
	Run     string          `msgpack:"run"`
	Files   []ManifestEntry `msgpack:"files"`
}

// ManifestEntry is one written file.
type ManifestEntry struct {
	// Path relative to the output directory, with forward slashes.
	Path     string `msgpack:"path"`
	Checksum string `msgpack:"sum"`
}

// Writer writes artifacts to disk. Go sources are formatted with goimports,
// files whose content did not change are left untouched, and files written
// by a previous run but no longer produced are removed.
type Writer struct {
	root    string
	workers int
	log     *slog.Logger

	// Metrics of the last Write.
	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks what a Write did.
type WriterMetrics struct {
	FilesWritten   int
	FilesUnchanged int
	FilesRemoved   int
	TotalBytes     int64
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{
		root:    dir,
		workers: runtime.GOMAXPROCS(0),
		log:     slog.Default(),
		metrics: &WriterMetrics{},
	}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// WithLogger sets the logger.
func (w *Writer) WithLogger(l *slog.Logger) *Writer {
	if l != nil {
		w.log = l
	}
	return w
}

// Metrics returns the metrics of the last Write.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return *w.metrics
}

// Write writes the artifacts of res under <root>/<target>/<path> and
// updates the manifest.
func (w *Writer) Write(ctx context.Context, res *Result) error {
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return NewGenerationError("write", w.root, "create output directory", err)
	}
	prev, err := w.readManifest()
	if err != nil {
		w.log.Warn("ignoring unreadable manifest", "error", err)
		prev = &Manifest{}
	}
	known := make(map[string]string, len(prev.Files))
	for _, e := range prev.Files {
		known[e.Path] = e.Checksum
	}

	w.mu.Lock()
	w.metrics = &WriterMetrics{}
	w.mu.Unlock()

	entries := make([]ManifestEntry, len(res.Artifacts))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for i, a := range res.Artifacts {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rel := filepath.ToSlash(filepath.Join(a.Target, filepath.FromSlash(a.Path)))
			sum, err := w.writeFile(rel, a.Source, known[rel])
			if err != nil {
				return err
			}
			entries[i] = ManifestEntry{Path: rel, Checksum: sum}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	current := make(map[string]bool, len(entries))
	for _, e := range entries {
		current[e.Path] = true
	}
	for _, e := range prev.Files {
		if current[e.Path] {
			continue
		}
		if err := os.Remove(filepath.Join(w.root, filepath.FromSlash(e.Path))); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return NewGenerationError("write", e.Path, "remove stale file", err)
		}
		w.log.Debug("removed stale file", "path", e.Path)
		w.mu.Lock()
		w.metrics.FilesRemoved++
		w.mu.Unlock()
	}

	slices.SortFunc(entries, func(a, b ManifestEntry) int { return strings.Compare(a.Path, b.Path) })
	if err := w.writeManifest(&Manifest{Version: manifestVersion, Run: res.Run, Files: entries}); err != nil {
		return err
	}
	m := w.Metrics()
	w.log.Info("artifacts written",
		"dir", w.root,
		"written", m.FilesWritten,
		"unchanged", m.FilesUnchanged,
		"removed", m.FilesRemoved,
	)
	return nil
}

// writeFile formats and writes a single file unless its checksum matches
// the previous run and the file is still on disk. It returns the checksum
// of the written content.
func (w *Writer) writeFile(rel string, src []byte, prevSum string) (string, error) {
	fullPath := filepath.Join(w.root, filepath.FromSlash(rel))
	if filepath.Ext(rel) == ".go" {
		formatted, err := imports.Process(fullPath, src, nil)
		if err != nil {
			// Keep the unformatted source next to the target for debugging.
			debugPath := fullPath + ".error"
			_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
			_ = os.WriteFile(debugPath, src, 0o644)
			return "", NewGenerationError("format", rel, fmt.Sprintf("unformatted source written to %s", debugPath), err)
		}
		src = formatted
	}
	sum := checksum(src)
	if sum == prevSum {
		if _, err := os.Stat(fullPath); err == nil {
			w.mu.Lock()
			w.metrics.FilesUnchanged++
			w.mu.Unlock()
			return sum, nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", NewGenerationError("write", rel, "create directory", err)
	}
	if err := os.WriteFile(fullPath, src, 0o644); err != nil {
		return "", NewGenerationError("write", rel, "write file", err)
	}
	w.log.Debug("wrote file", "path", rel, "bytes", len(src))
	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(src))
	w.mu.Unlock()
	return sum, nil
}

func checksum(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// ReadManifest returns the manifest stored in dir, or an empty manifest
// when there is none.
func ReadManifest(dir string) (*Manifest, error) {
	return NewWriter(dir).readManifest()
}

func (w *Writer) readManifest() (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(w.root, ManifestFile))
	if errors.Is(err, fs.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, err
	}
	m := &Manifest{}
	if err := msgpack.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Version != manifestVersion {
		return &Manifest{}, nil
	}
	return m, nil
}

func (w *Writer) writeManifest(m *Manifest) error {
	data, err := msgpack.Marshal(m)
	if err != nil {
		return NewGenerationError("manifest", ManifestFile, "encode manifest", err)
	}
	if err := os.WriteFile(filepath.Join(w.root, ManifestFile), data, 0o644); err != nil {
		return NewGenerationError("manifest", ManifestFile, "write manifest", err)
	}
	return nil
}
