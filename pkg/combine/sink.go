package combine

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// Sink receives the finished document in one call.
type Sink interface {
	Write(data []byte) error
	Name() string
}

// FileSink writes the document to a file. The file is written next to its
// destination and renamed into place, so a failed run never leaves partial output.
type FileSink struct {
	Path   string
	Logger *zap.Logger
}

func (s *FileSink) Name() string { return s.Path }

func (s *FileSink) Write(data []byte) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dir := filepath.Dir(s.Path)
	if err := ensureDirectory(dir, logger); err != nil {
		return &SinkError{Sink: s.Path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".tmp-*")
	if err != nil {
		return &SinkError{Sink: s.Path, Err: err}
	}
	tmpName := tmp.Name()
	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		logger.Error("Failed to write output file", zap.String("file", s.Path), zap.Error(err))
		return &SinkError{Sink: s.Path, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &SinkError{Sink: s.Path, Err: err}
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		os.Remove(tmpName)
		return &SinkError{Sink: s.Path, Err: err}
	}
	logger.Debug("Successfully wrote file", zap.String("path", s.Path), zap.Int("bytes", len(data)))
	return nil
}

// WriterSink writes the document to an io.Writer such as stdout.
type WriterSink struct {
	W     io.Writer
	Label string
}

func (s *WriterSink) Name() string {
	if s.Label == "" {
		return "stream"
	}
	return s.Label
}

func (s *WriterSink) Write(data []byte) error {
	if _, err := s.W.Write(data); err != nil {
		return &SinkError{Sink: s.Name(), Err: err}
	}
	return nil
}

// ClipboardSink copies the document to the system clipboard.
type ClipboardSink struct{}

func (ClipboardSink) Name() string { return "clipboard" }

func (ClipboardSink) Write(data []byte) error {
	if clipboard.Unsupported {
		return &SinkError{Sink: "clipboard", Err: fmt.Errorf("no clipboard utility available")}
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		return &SinkError{Sink: "clipboard", Err: err}
	}
	return nil
}

// ensureDirectory ensures a directory exists, creating it if necessary.
func ensureDirectory(path string, logger *zap.Logger) error {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		logger.Error("Failed to create directory", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Ensured directory exists", zap.String("path", path))
	return nil
}
