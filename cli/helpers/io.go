package helpers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Envelope is the JSON document every command prints on success.
type Envelope struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// OutputWriter writes command results as JSON envelopes
type OutputWriter struct {
	writer io.Writer
}

// NewOutputWriter creates a new output writer
func NewOutputWriter(writer io.Writer) *OutputWriter {
	if writer == nil {
		writer = os.Stdout
	}
	return &OutputWriter{writer: writer}
}

// WriteData writes data wrapped in an envelope
func (ow *OutputWriter) WriteData(data any, message string) error {
	encoder := json.NewEncoder(ow.writer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(Envelope{Data: data, Message: message}); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}
	return nil
}

// WriteFile writes data to path through a temporary file in the same directory,
// so readers never observe a partially written file.
func WriteFile(path string, data []byte) (returnErr error) {
	if path == "" {
		return NewCliError(CodeInvalidPath, "File path cannot be empty")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return NewCliError(CodeFileWrite, fmt.Sprintf("Failed to create directory: %s", dir), err.Error())
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return NewCliError(CodeFileWrite, fmt.Sprintf("Failed to create file in: %s", dir), err.Error())
	}
	defer func() {
		if returnErr != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return NewCliError(CodeFileWrite, fmt.Sprintf("Failed to write file: %s", path), err.Error())
	}
	if err := tmp.Close(); err != nil {
		return NewCliError(CodeFileWrite, fmt.Sprintf("Failed to close file: %s", path), err.Error())
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return NewCliError(CodeFileWrite, fmt.Sprintf("Failed to set permissions: %s", path), err.Error())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return NewCliError(CodeFileWrite, fmt.Sprintf("Failed to write file: %s", path), err.Error())
	}
	return nil
}
