// Package scanner pipes text through line splitting, candidate extraction and
// conversion, emitting one record per candidate and optionally persisting them.
package scanner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/wordify/internal/extract"
	"github.com/hyperjump/wordify/internal/fileid"
	"github.com/hyperjump/wordify/internal/models"
	"github.com/hyperjump/wordify/internal/storage"
	"github.com/hyperjump/wordify/internal/wordify"
)

// saveBatch is how many stream conversions are buffered before a write.
const saveBatch = 500

// Emit receives each conversion as soon as it is produced. Returning an
// error stops the scan.
type Emit func(*models.Conversion) error

// Recorder observes scanner activity; *metrics.Metrics satisfies it.
type Recorder interface {
	Candidates(n int)
	Conversion(valid bool)
	FileScanned(skipped bool)
}

// Scanner converts the numbers found in text streams and files.
type Scanner struct {
	extractor   *extract.Extractor
	store       storage.Storage
	encoding    string
	convert     []wordify.Option
	incremental bool
	recorder    Recorder
	cache       *wordsCache
	logger      *zap.Logger // optional; when set, logs debug events
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithStorage persists every conversion to store.
func WithStorage(store storage.Storage) Option {
	return func(s *Scanner) { s.store = store }
}

// WithEncoding sets the encoding of plain-text input. Documents are always
// decoded by their own format.
func WithEncoding(name string) Option {
	return func(s *Scanner) { s.encoding = name }
}

// WithConvertOptions passes opts to every conversion.
func WithConvertOptions(opts ...wordify.Option) Option {
	return func(s *Scanner) { s.convert = opts }
}

// WithIncremental makes ScanFile skip files whose size and modification time
// match the stored source record. It has no effect without storage.
func WithIncremental(on bool) Option {
	return func(s *Scanner) { s.incremental = on }
}

// WithRecorder reports counts to r.
func WithRecorder(r Recorder) Option {
	return func(s *Scanner) { s.recorder = r }
}

// WithCacheSize sets how many distinct candidates are remembered between
// conversions. Zero or less disables the cache.
func WithCacheSize(n int) Option {
	return func(s *Scanner) { s.cache = newWordsCache(n) }
}

// WithLogger sets a logger for debug output (file scanned, file skipped, etc.).
func WithLogger(l *zap.Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

// New creates a scanner. extractor may be nil; when nil, files are read as
// plain text.
func New(extractor *extract.Extractor, opts ...Option) *Scanner {
	s := &Scanner{
		extractor: extractor,
		encoding:  extract.DefaultEncoding,
		cache:     newWordsCache(defaultCacheSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ConvertCandidate renders one candidate. Candidates the converter rejects
// produce a record with Valid false and the sentinel words.
func (s *Scanner) ConvertCandidate(source string, line int, candidate string) *models.Conversion {
	words, valid, ok := s.cache.get(candidate)
	if !ok {
		var err error
		words, err = wordify.Words(candidate, s.convert...)
		valid = err == nil
		if !valid {
			words = wordify.Invalid
		}
		s.cache.set(candidate, words, valid)
	}
	if s.recorder != nil {
		s.recorder.Conversion(valid)
	}
	return &models.Conversion{
		Source:    source,
		Line:      line,
		Candidate: candidate,
		Words:     words,
		Valid:     valid,
	}
}

// scan runs the extract-and-convert pipeline over r, calling emit for each record.
func (s *Scanner) scan(ctx context.Context, source string, r io.Reader, encoding string, emit func(*models.Conversion) error) error {
	return extract.Lines(r, encoding, func(n int, line string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		candidates := extract.Numbers(line)
		if s.recorder != nil {
			s.recorder.Candidates(len(candidates))
		}
		for _, c := range candidates {
			if err := emit(s.ConvertCandidate(source, n, c)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ScanReader converts every candidate in r, labelling records with source.
// Records go to emit (which may be nil) and, when storage is set, are saved
// in batches. It returns the number of conversions produced.
func (s *Scanner) ScanReader(ctx context.Context, source string, r io.Reader, emit Emit) (int, error) {
	var pending []*models.Conversion
	flush := func() error {
		if s.store == nil || len(pending) == 0 {
			return nil
		}
		if err := s.store.SaveConversions(ctx, pending); err != nil {
			return fmt.Errorf("save conversions: %w", err)
		}
		pending = pending[:0]
		return nil
	}

	count := 0
	err := s.scan(ctx, source, r, s.encoding, func(c *models.Conversion) error {
		count++
		if emit != nil {
			if err := emit(c); err != nil {
				return err
			}
		}
		if s.store == nil {
			return nil
		}
		pending = append(pending, c)
		if len(pending) >= saveBatch {
			return flush()
		}
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, flush()
}

// ScanText is ScanReader over an in-memory string, returning the records.
func (s *Scanner) ScanText(ctx context.Context, source, text string) ([]*models.Conversion, error) {
	convs := []*models.Conversion{}
	_, err := s.ScanReader(ctx, source, strings.NewReader(text), func(c *models.Conversion) error {
		convs = append(convs, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return convs, nil
}

// FileResult summarizes one ScanFile call.
type FileResult struct {
	Path        string
	SourceID    string
	Conversions int
	Skipped     bool
}

// ScanFile converts every candidate in the file at path. Documents (PDF,
// DOCX, XLSX, ...) go through the extractor first. With storage set the
// file's previous records are replaced; in incremental mode an unchanged
// file is skipped and nothing is emitted.
func (s *Scanner) ScanFile(ctx context.Context, path string, emit Emit) (*FileResult, error) {
	if s.logger != nil {
		s.logger.Debug("scanner scanning file", zap.String("path", path))
	}
	absPath, id, err := fileid.ForPath(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", absPath)
	}
	result := &FileResult{Path: absPath, SourceID: id}

	if s.shouldSkipFile(ctx, id, info) {
		if s.logger != nil {
			s.logger.Debug("scanner skipping unchanged file", zap.String("path", absPath))
		}
		if s.recorder != nil {
			s.recorder.FileScanned(true)
		}
		result.Skipped = true
		return result, nil
	}

	r, encoding, closeFn, err := s.open(absPath)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var convs []*models.Conversion
	err = s.scan(ctx, absPath, r, encoding, func(c *models.Conversion) error {
		c.SourceID = id
		convs = append(convs, c)
		if emit != nil {
			return emit(c)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", absPath, err)
	}
	result.Conversions = len(convs)

	if s.store != nil {
		src := &models.Source{ID: id, Path: absPath, ModTime: info.ModTime(), Size: info.Size()}
		if err := s.store.ReplaceSource(ctx, src, convs); err != nil {
			return nil, fmt.Errorf("store %s: %w", absPath, err)
		}
	}
	if s.recorder != nil {
		s.recorder.FileScanned(false)
	}
	if s.logger != nil {
		s.logger.Debug("scanner file scanned",
			zap.String("path", absPath),
			zap.String("source_id", id),
			zap.Int("conversions", len(convs)))
	}
	return result, nil
}

// shouldSkipFile reports whether the file is on record with the same mtime and size.
func (s *Scanner) shouldSkipFile(ctx context.Context, id string, info os.FileInfo) bool {
	if !s.incremental || s.store == nil {
		return false
	}
	src, err := s.store.GetSource(ctx, id)
	if err != nil {
		return false
	}
	return src.Unchanged(info.ModTime(), info.Size())
}

// open returns a reader over the text of absPath and the encoding to decode it with.
func (s *Scanner) open(absPath string) (io.Reader, string, func(), error) {
	if s.extractor != nil && extract.IsDocument(filepath.Ext(absPath)) {
		text, err := s.extractor.Extract(absPath)
		if err != nil {
			return nil, "", nil, fmt.Errorf("extract content: %w", err)
		}
		return strings.NewReader(text), extract.DefaultEncoding, func() {}, nil
	}
	f, err := os.Open(absPath)
	if err != nil {
		return nil, "", nil, fmt.Errorf("open file: %w", err)
	}
	return f, s.encoding, func() { _ = f.Close() }, nil
}

// ScanDirectory walks dir and scans each regular file whose extension is in
// allowedExts (all files when empty). Subdirectories are entered only when
// recursive is set. Returns the number of files scanned, skipped ones
// included, and the first error encountered.
func (s *Scanner) ScanDirectory(ctx context.Context, dir string, allowedExts []string, recursive bool, emit Emit) (n int, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != absDir && (!recursive || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !ExtensionAllowed(filepath.Ext(path), allowedExts) {
			return nil
		}
		// Resolve symlinks so only regular files are scanned.
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		if _, scanErr := s.ScanFile(ctx, path, emit); scanErr != nil {
			return scanErr
		}
		n++
		return nil
	})
	return n, err
}

// RemoveFile drops the stored records of the file at path.
func (s *Scanner) RemoveFile(ctx context.Context, path string) error {
	if s.store == nil {
		return nil
	}
	_, id, err := fileid.ForPath(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("scanner removing source", zap.String("path", path), zap.String("source_id", id))
	}
	return s.store.DeleteSource(ctx, id)
}

// ExtensionAllowed reports whether ext is in allowed, ignoring case and the
// leading dot. An empty allowed list accepts everything.
func ExtensionAllowed(ext string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
