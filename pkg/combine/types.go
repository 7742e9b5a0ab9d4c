package combine

import (
	"time"

	"go.uber.org/multierr"
)

// Constants
const (
	ChunkSize = 64 * 1024 // The size of chunks to read when processing files
	SniffSize = 8 * 1024  // The prefix inspected when classifying binary files
)

// FileTask is a discovered candidate file. It is created by the walker and never modified.
type FileTask struct {
	Path    string // Absolute path on disk
	RelPath string // Slash-separated path relative to the root
	Index   int    // Discovery index, dense and ascending in walk order
	Ext     string // Lower-cased extension without the leading dot ("" if none)
}

// FileMetadata is captured once by the worker that reads the file.
type FileMetadata struct {
	Size     int64
	Created  time.Time
	Modified time.Time
}

// FileRecord is the outcome of an accepted, successfully read file.
type FileRecord struct {
	Task     FileTask
	Meta     FileMetadata
	Content  []byte // nil for binary files
	Binary   bool
	Language string // Human readable language name, empty when unknown
}

// ErrorKind classifies a per-file failure.
type ErrorKind int

const (
	KindIO ErrorKind = iota
	KindPermission
	KindNotExist
)

func (k ErrorKind) String() string {
	switch k {
	case KindPermission:
		return "permission"
	case KindNotExist:
		return "not-exist"
	default:
		return "io"
	}
}

// FileError records a failed read of a single task. It never aborts the run.
type FileError struct {
	Task FileTask
	Kind ErrorKind
	Err  error
}

func (e FileError) Error() string {
	return e.Task.RelPath + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error { return e.Err }

// ResultSlot holds the outcome for one task. Each slot is written by exactly
// one worker and only read after the pool has been joined. A slot with neither
// a record nor an error belongs to a filtered task.
type ResultSlot struct {
	record *FileRecord
	ferr   *FileError
}

// Record returns the file record, or nil.
func (s ResultSlot) Record() *FileRecord { return s.record }

// Failure returns the file error, or nil.
func (s ResultSlot) Failure() *FileError { return s.ferr }

// Empty reports whether the task was filtered out.
func (s ResultSlot) Empty() bool { return s.record == nil && s.ferr == nil }

// Summary describes a finished run.
type Summary struct {
	Root       string        `yaml:"root"`
	Discovered int           `yaml:"discovered"`
	Included   int           `yaml:"included"`
	Excluded   int           `yaml:"excluded"`
	Errored    int           `yaml:"errored"`
	TotalBytes int64         `yaml:"total_bytes"`
	Elapsed    time.Duration `yaml:"elapsed"`
	Errors     []FileError   `yaml:"-"`
}

// Partial reports whether some files could not be read.
func (s *Summary) Partial() bool {
	return s.Errored > 0
}

// Err combines all per-file errors into one, or returns nil.
func (s *Summary) Err() error {
	var err error
	for _, fe := range s.Errors {
		err = multierr.Append(err, fe)
	}
	return err
}

// Document is everything a renderer needs to produce the output.
type Document struct {
	Root        string
	GeneratedAt time.Time
	Records     []FileRecord
	Summary     Summary
}
