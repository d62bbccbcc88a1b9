package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"patchwork/internal/ports"
)

var ErrClosed = errors.New("journal is closed")

// Writer keeps one zstd-compressed JSONL file per game under a directory.
type Writer struct {
	dir string

	mu      sync.Mutex
	closed  bool
	streams map[string]*stream
}

type stream struct {
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

var _ ports.Journal = (*Writer)(nil)

// NewWriter returns a writer storing files in dir. Nothing is created until
// the first append.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, streams: map[string]*stream{}}
}

// Path returns the file holding a game's journal.
func (w *Writer) Path(gameID string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s.jsonl.zst", gameID))
}

// Append writes one entry and flushes it to the file. The file decodes once
// the game or the writer is closed.
func (w *Writer) Append(ctx context.Context, entry ports.JournalEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry.GameID == "" {
		return fmt.Errorf("journal entry without game id")
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	s, err := w.streamLocked(entry.GameID)
	if err != nil {
		return err
	}
	if _, err := s.w.Write(b); err != nil {
		return err
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := s.w.Flush(); err != nil {
		return err
	}
	return s.enc.Flush()
}

// CloseGame finishes a game's file. Later appends for it reopen the file.
func (w *Writer) CloseGame(gameID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.streams[gameID]
	if !ok {
		return nil
	}
	delete(w.streams, gameID)
	return s.close()
}

// Close finishes every open file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	var errs []error
	for id, s := range w.streams {
		errs = append(errs, s.close())
		delete(w.streams, id)
	}
	return errors.Join(errs...)
}

func (w *Writer) streamLocked(gameID string) (*stream, error) {
	if s, ok := w.streams[gameID]; ok {
		return s, nil
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(w.Path(gameID), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	s := &stream{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}
	w.streams[gameID] = s
	return s, nil
}

func (s *stream) close() error {
	_ = s.w.Flush()
	err := s.enc.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadFile decodes every entry of a journal file in order.
func ReadFile(path string) ([]ports.JournalEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a zstd JSONL journal stream.
func Read(r io.Reader) ([]ports.JournalEntry, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var entries []ports.JournalEntry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for line := 1; sc.Scan(); line++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var e ports.JournalEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return entries, fmt.Errorf("journal line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}
