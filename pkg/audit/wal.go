package audit

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// WAL is an append-only, line-delimited JSON log of not-yet-persisted
// audit records. It is the crash-safety boundary for the engine: a
// record is durable the moment appendOne/appendMany returns, well before
// it is confirmed in the AuditStore.
//
// All mutating operations serialize on a single mutex; replay only
// happens at startup before any producer is running.
type WAL struct {
	mu   sync.Mutex
	path string
	file *os.File

	// syncOnAppend enables fsync after every write, trading throughput for
	// stronger durability. Default false matches the best-effort model.
	syncOnAppend bool

	logger *slog.Logger

	// disabled is set when the WAL file could not be created at startup.
	// The engine keeps running with in-memory buffering only.
	disabled bool
}

// WALOption configures a WAL.
type WALOption func(*WAL)

// WithSyncOnAppend enables fsync after every append/truncate.
func WithSyncOnAppend(enabled bool) WALOption {
	return func(w *WAL) { w.syncOnAppend = enabled }
}

// NewWAL opens (creating if necessary) the WAL file at path. If the file
// cannot be created, the WAL degrades to a no-op and logs the failure;
// this is the FatalInit case from the error taxonomy — it is not fatal to
// the process, only to WAL durability.
func NewWAL(path string, logger *slog.Logger, opts ...WALOption) *WAL {
	w := &WAL{path: path, logger: logger}
	for _, opt := range opts {
		opt(w)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		w.disabled = true
		if logger != nil {
			logger.Error("wal: unable to open file, degrading to in-memory buffering only",
				"path", path, "error", err)
		}
		return w
	}
	w.file = file
	return w
}

// Disabled reports whether the WAL failed to open at startup.
func (w *WAL) Disabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.disabled
}

// AppendOne serializes and appends a single record, flushing to OS buffers
// before returning. A failure is logged and returned; the ingestion path
// does not fail the producer on it, and the record still reaches the
// Buffer, so the engine stays eventually consistent as long as the process
// keeps running.
func (w *WAL) AppendOne(record Record) error {
	return w.AppendMany([]Record{record})
}

// AppendMany serializes each record and appends all lines under a single
// lock acquisition, flushing once.
func (w *WAL) AppendMany(records []Record) error {
	if len(records) == 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.disabled {
		return nil
	}

	writer := bufio.NewWriter(w.file)
	for _, record := range records {
		record.ActionTimeStamp = record.ActionTimeStamp.UTC()
		record.CreatedAt = record.CreatedAt.UTC()
		line, err := json.Marshal(record)
		if err != nil {
			w.logf("wal: marshal record failed", "eventId", record.EventID, "error", err)
			return fmt.Errorf("wal: marshal record %s: %w", record.EventID, err)
		}
		if _, err := writer.Write(line); err != nil {
			w.logf("wal: append failed", "error", err)
			return fmt.Errorf("wal: write line: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			w.logf("wal: append failed", "error", err)
			return fmt.Errorf("wal: write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		w.logf("wal: flush to OS buffers failed", "error", err)
		return fmt.Errorf("wal: flush: %w", err)
	}

	if w.syncOnAppend {
		if err := w.file.Sync(); err != nil {
			w.logf("wal: fsync failed", "error", err)
			return fmt.Errorf("wal: fsync: %w", err)
		}
	}

	return nil
}

// Truncate atomically replaces the WAL file's contents with zero bytes.
func (w *WAL) Truncate() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.disabled {
		return nil
	}

	if err := w.file.Truncate(0); err != nil {
		return fmt.Errorf("wal: truncate: %w", err)
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("wal: seek after truncate: %w", err)
	}
	if w.syncOnAppend {
		if err := w.file.Sync(); err != nil {
			return fmt.Errorf("wal: fsync after truncate: %w", err)
		}
	}
	return nil
}

// ReplayResult carries the outcome of a startup replay.
type ReplayResult struct {
	Records []Record
	Skipped int
}

// Replay reads the entire WAL file line-by-line, decoding each line into a
// Record. Malformed lines are skipped and logged; they never invalidate
// subsequent well-formed lines. Replay is only safe to call at startup,
// before any concurrent producers exist.
func (w *WAL) Replay() (ReplayResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var result ReplayResult
	if w.disabled {
		return result, nil
	}

	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return result, fmt.Errorf("wal: seek for replay: %w", err)
	}

	scanner := bufio.NewScanner(w.file)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			result.Skipped++
			w.logf("wal: skipping malformed line during replay", "error", err)
			continue
		}
		result.Records = append(result.Records, record)
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("wal: scan during replay: %w", err)
	}

	if _, err := w.file.Seek(0, io.SeekEnd); err != nil {
		return result, fmt.Errorf("wal: seek to end after replay: %w", err)
	}

	return result, nil
}

// Close releases the underlying file handle.
func (w *WAL) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.disabled || w.file == nil {
		return nil
	}
	return w.file.Close()
}

func (w *WAL) logf(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Error(msg, args...)
	}
}

// ErrWALDisabled is available to callers that need an error value for a
// degraded (file-unwritable) WAL. The WAL type itself never returns this
// error — operations are silent no-ops when disabled — and Lifecycle checks
// Disabled() rather than this error to decide whether to surface a metric.
var ErrWALDisabled = errors.New("wal: disabled, file unwritable at startup")
