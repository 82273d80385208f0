// Package output writes draft documents and the run's error log to disk.
package output

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/bibledraft/core/draft"
	"github.com/FocuswithJustin/bibledraft/core/errors"
	"github.com/FocuswithJustin/bibledraft/internal/validation"
)

// ErrorLogName is the file the error log is flushed to.
const ErrorLogName = "errors.json"

// osRename is a function variable for renaming files (for testing).
var osRename = os.Rename

// tempFileWrite is a function variable for writing to temp files (for testing).
var tempFileWrite = func(f *os.File, data []byte) (int, error) {
	return f.Write(data)
}

// tempFileClose is a function variable for closing temp files (for testing).
var tempFileClose = func(f io.Closer) error {
	return f.Close()
}

// Written describes a file the writer produced.
type Written struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	Digest string `json:"blake3"`
}

// Writer places output files in one directory.
type Writer struct {
	Dir string
}

// NewWriter returns a writer for dir. An empty dir means the working directory.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{Dir: dir}
}

// WriteDocument writes an HTML document under name, replacing any existing
// file. Readers never observe a partially written document.
func (w *Writer) WriteDocument(name, html string) (*Written, error) {
	if err := validation.ValidateFilename(name); err != nil {
		return nil, &errors.ValidationError{Field: "file name", Value: name, Message: err.Error()}
	}
	return w.writeFile(name, []byte(html))
}

// WriteErrorLog rewrites errors.json with every entry in log, as a JSON
// array indented by two spaces. An empty log writes [].
func (w *Writer) WriteErrorLog(log *draft.ErrorLog) (*Written, error) {
	if log == nil {
		log = &draft.ErrorLog{}
	}
	data, err := json.MarshalIndent(log.Entries(), "", "  ")
	if err != nil {
		return nil, errors.NewIO("encode", ErrorLogName, err)
	}
	return w.writeFile(ErrorLogName, data)
}

// Digest returns the hex BLAKE3 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (w *Writer) writeFile(name string, data []byte) (*Written, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return nil, errors.NewIO("create directory", w.Dir, err)
	}

	path := filepath.Join(w.Dir, name)

	tempFile, err := os.CreateTemp(w.Dir, ".draft-*")
	if err != nil {
		return nil, errors.NewIO("create temp file", w.Dir, err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFileWrite(tempFile, data); err != nil {
		tempFileClose(tempFile)
		os.Remove(tempPath)
		return nil, errors.NewIO("write", path, err)
	}

	if err := tempFileClose(tempFile); err != nil {
		os.Remove(tempPath)
		return nil, errors.NewIO("close", path, err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		os.Remove(tempPath)
		return nil, errors.NewIO("chmod", path, err)
	}

	if err := osRename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return nil, errors.NewIO("rename", path, err)
	}

	return &Written{
		Path:   path,
		Size:   int64(len(data)),
		Digest: Digest(data),
	}, nil
}
