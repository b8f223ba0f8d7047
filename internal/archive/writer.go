package archive

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kk-code-lab/rpack/internal/errkind"
	"github.com/klauspost/compress/zip"
)

// DefaultNamePattern names archives by their 1-based chunk index.
const DefaultNamePattern = "project_archive_%d.zip"

// WriterOptions configures a Writer.
type WriterOptions struct {
	NamePattern  string // fmt pattern with one %d; DefaultNamePattern when empty
	WritePrompts bool
	Logger       *slog.Logger
}

// Writer materializes chunks as zip files inside one output directory.
type Writer struct {
	outDir string
	opts   WriterOptions
	logger *slog.Logger
}

// ArchiveResult describes one chunk's archive.
type ArchiveResult struct {
	Index int
	Path  string
	Files int   // entries stored
	Err   error // non-nil when the archive was abandoned
}

// Failure records one source file or archive that could not be written.
type Failure struct {
	Archive string
	Source  string // empty when the whole archive failed
	Err     error
}

func (f Failure) Error() string {
	if f.Source == "" {
		return fmt.Sprintf("%s: %v", filepath.Base(f.Archive), f.Err)
	}
	return fmt.Sprintf("%s: %s: %v", filepath.Base(f.Archive), f.Source, f.Err)
}

// Report aggregates the outcome of a Write.
type Report struct {
	OutputDir string
	Archives  []ArchiveResult
	Failures  []Failure
	Prompts   string // prompts file path, empty when not written
}

// Written returns the number of archives that were completed.
func (r *Report) Written() int {
	n := 0
	for _, a := range r.Archives {
		if a.Err == nil {
			n++
		}
	}
	return n
}

// Files returns the number of files stored across completed archives.
func (r *Report) Files() int {
	n := 0
	for _, a := range r.Archives {
		if a.Err == nil {
			n += a.Files
		}
	}
	return n
}

// Err returns a PartialIO error when any file or archive failed.
func (r *Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	return &errkind.Error{
		Kind:  errkind.PartialIO,
		Path:  r.OutputDir,
		Param: fmt.Sprintf("%d failure(s)", len(r.Failures)),
		Err:   errors.Join(errs...),
	}
}

// NewWriter returns a Writer targeting outDir.
func NewWriter(outDir string, opts WriterOptions) *Writer {
	if opts.NamePattern == "" {
		opts.NamePattern = DefaultNamePattern
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{outDir: outDir, opts: opts, logger: logger}
}

// ArchivePath returns the archive file path for a chunk index.
func (w *Writer) ArchivePath(index int) string {
	return filepath.Join(w.outDir, fmt.Sprintf(w.opts.NamePattern, index))
}

// errForeignOutput keeps Write from deleting a directory it did not create.
var errForeignOutput = errors.New("output directory holds files rpack did not write; choose another output_dir")

// checkOutputDir accepts a missing output directory or one that holds only
// archives and the prompts file of an earlier run.
func (w *Writer) checkOutputDir() error {
	info, err := os.Lstat(w.outDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errkind.New(errkind.Path, w.outDir, err)
	}
	if !info.IsDir() {
		return errkind.New(errkind.Path, w.outDir, errForeignOutput)
	}

	entries, err := os.ReadDir(w.outDir)
	if err != nil {
		return errkind.New(errkind.Path, w.outDir, err)
	}
	// The first element of the pattern, so "sub/part-%d.zip" accepts "sub".
	glob := strings.Replace(filepath.ToSlash(w.opts.NamePattern), "%d", "*", 1)
	glob, _, _ = strings.Cut(glob, "/")
	for _, e := range entries {
		if e.Name() == PromptsFileName {
			continue
		}
		if ok, _ := filepath.Match(glob, e.Name()); ok {
			continue
		}
		return errkind.New(errkind.Path, w.outDir, fmt.Errorf("%w: %s", errForeignOutput, e.Name()))
	}
	return nil
}

// Write recreates the output directory and writes one archive per chunk.
// Individual file and archive failures are collected in the report; only a
// failure to prepare the output directory aborts the run. An existing
// directory is removed only when it holds nothing but earlier output.
func (w *Writer) Write(chunks []Chunk) (*Report, error) {
	if err := w.checkOutputDir(); err != nil {
		w.logger.Warn("refusing to replace output directory", "dir", w.outDir, "error", err)
		return nil, err
	}
	if err := os.RemoveAll(w.outDir); err != nil {
		return nil, errkind.New(errkind.Path, w.outDir, err)
	}
	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return nil, errkind.New(errkind.Path, w.outDir, err)
	}

	report := &Report{OutputDir: w.outDir}
	for _, chunk := range chunks {
		result := w.writeChunk(chunk, report)
		report.Archives = append(report.Archives, result)
	}

	if w.opts.WritePrompts && len(chunks) > 0 {
		path := filepath.Join(w.outDir, PromptsFileName)
		if err := WritePrompts(path, len(chunks)); err != nil {
			report.Failures = append(report.Failures, Failure{Archive: path, Err: err})
		} else {
			report.Prompts = path
		}
	}

	w.logger.Info("archives written",
		"dir", w.outDir,
		"archives", report.Written(),
		"files", report.Files(),
		"failures", len(report.Failures))
	return report, nil
}

func (w *Writer) writeChunk(chunk Chunk, report *Report) ArchiveResult {
	path := w.ArchivePath(chunk.Index)
	result := ArchiveResult{Index: chunk.Index, Path: path}

	abandon := func(err error) ArchiveResult {
		_ = os.Remove(path)
		result.Err = err
		result.Files = 0
		report.Failures = append(report.Failures, Failure{Archive: path, Err: err})
		w.logger.Warn("archive abandoned", "archive", path, "error", err)
		return result
	}

	f, err := os.Create(path)
	if err != nil {
		return abandon(err)
	}

	zw := zip.NewWriter(f)
	for _, entry := range chunk.Entries {
		stored, err := addFile(zw, entry)
		if err == nil {
			result.Files++
			continue
		}
		if !stored {
			// The source vanished or is unreadable; the archive is intact.
			report.Failures = append(report.Failures, Failure{Archive: path, Source: entry.Source, Err: err})
			w.logger.Warn("skipping file", "source", entry.Source, "error", err)
			continue
		}
		_ = zw.Close()
		_ = f.Close()
		return abandon(fmt.Errorf("writing %s: %w", entry.Name, err))
	}

	if err := zw.Close(); err != nil {
		_ = f.Close()
		return abandon(err)
	}
	if err := f.Close(); err != nil {
		return abandon(err)
	}
	return result
}

// addFile stores entry in zw. The returned bool reports whether the archive
// was touched; when false the failure happened before any bytes were
// written and the caller can move on to the next entry.
func addFile(zw *zip.Writer, entry Entry) (bool, error) {
	src, err := os.Open(entry.Source)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = src.Close()
	}()

	info, err := src.Stat()
	if err != nil {
		return false, err
	}
	if !info.Mode().IsRegular() {
		return false, fmt.Errorf("not a regular file")
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return false, err
	}
	header.Name = entry.Name
	header.Method = zip.Deflate

	dst, err := zw.CreateHeader(header)
	if err != nil {
		return true, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		return true, err
	}
	return true, nil
}
