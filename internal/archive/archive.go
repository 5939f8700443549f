package archive

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// MaxMatchesPerFile triggers rotation to a fresh segment file.
const MaxMatchesPerFile = 500

// envelope is one archived line: the raw match body plus when it was pulled.
type envelope struct {
	FetchedAt string          `json:"fetchedAt"`
	MatchID   string          `json:"matchId"`
	Body      json.RawMessage `json:"body"`
}

// Writer retains every match body fetched from the network as append-only
// JSONL segments under one directory. Segments rotate after
// MaxMatchesPerFile matches and rotated segments are gzip-compressed in
// place. Purely write-only within a run; nothing reads the archive back.
type Writer struct {
	mu sync.Mutex

	dir         string
	currentFile *os.File
	writer      *bufio.Writer
	currentPath string
	matchCount  int
	segmentSeq  int
}

// NewWriter creates the archive directory and opens the first segment.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	w := &Writer{dir: dir}
	if err := w.openSegment(); err != nil {
		return nil, err
	}
	return w, nil
}

// Write appends one match body as a JSONL line, rotating afterwards if the
// segment is full.
func (w *Writer) Write(matchID string, body []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureSegment(); err != nil {
		return err
	}

	line, err := json.Marshal(envelope{
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
		MatchID:   matchID,
		Body:      json.RawMessage(body),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal archive line: %w", err)
	}

	if _, err := w.writer.Write(line); err != nil {
		return fmt.Errorf("failed to write archive line: %w", err)
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	w.matchCount++
	if w.matchCount >= MaxMatchesPerFile {
		if err := w.rotate(); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes the current segment. Empty segments are removed,
// non-empty ones compressed like rotated segments.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.currentFile == nil {
		return nil
	}

	if w.matchCount == 0 {
		if err := w.closeSegment(); err != nil {
			return err
		}
		return os.Remove(w.currentPath)
	}
	return w.rotate()
}

// rotate seals the current segment and, unless the writer is shutting down,
// opens the next one.
func (w *Writer) rotate() error {
	if err := w.closeSegment(); err != nil {
		return err
	}
	if err := compressInPlace(w.currentPath); err != nil {
		return fmt.Errorf("failed to compress segment: %w", err)
	}

	w.currentFile = nil
	w.matchCount = 0
	return nil
}

func (w *Writer) closeSegment() error {
	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush segment: %w", err)
	}
	if err := w.currentFile.Close(); err != nil {
		return fmt.Errorf("failed to close segment: %w", err)
	}
	return nil
}

func (w *Writer) openSegment() error {
	// The timestamp has second resolution, so back-to-back rotations can
	// land in the same second; the sequence number keeps names unique and
	// stops a later compress from truncating an earlier segment's .gz.
	w.segmentSeq++
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	w.currentPath = filepath.Join(w.dir, fmt.Sprintf("raw_matches_%s_%03d.jsonl", timestamp, w.segmentSeq))

	file, err := os.Create(w.currentPath)
	if err != nil {
		return fmt.Errorf("failed to create segment: %w", err)
	}

	w.currentFile = file
	w.writer = bufio.NewWriterSize(file, 64*1024)
	w.matchCount = 0
	return nil
}

// ensureSegment reopens a segment after a rotation closed the previous one.
func (w *Writer) ensureSegment() error {
	if w.currentFile != nil {
		return nil
	}
	return w.openSegment()
}

// compressInPlace gzips a sealed segment and removes the original.
func compressInPlace(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	// O_EXCL: a name collision here would silently drop a sealed segment.
	dst, err := os.OpenFile(path+".gz", os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	defer dst.Close()

	gz := gzip.NewWriter(dst)
	if _, err := io.Copy(gz, src); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}

	return os.Remove(path)
}
