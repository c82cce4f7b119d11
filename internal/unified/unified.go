// Package unified dispatches a bare file path to the engine that understands
// its extension, presenting PLTX and CSV files behind one Engine interface.
// Excel, HDF5, and Parquet extensions are recognized, but Open has no engine
// for them and returns ErrFormatNotImplemented. Grounded on
// _examples/original_source/core/reader.py's Reader class.
package unified

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Header is the format-independent metadata a caller needs before reading
// any samples.
type Header struct {
	Version     *uint8
	Compression *uint8
	Created     *float64
	SignalNames []string
}

// Engine is implemented by each file-format backend. IterChunks and
// ReadSignalAll take the signal's *original* name (not a registry-assigned
// public name); the registry package is responsible for that translation.
type Engine interface {
	GetHeader() (Header, error)
	IterChunks(signalName string, chunkSize int) (ChunkIterator, error)
	ReadSignalAll(signalName string) (ts, vals []float64, err error)
	Close() error
}

// ChunkIterator yields one (timestamps, values) batch per call, returning
// io.EOF once exhausted — mirrors pltx.ChunkIterator so the PLTX engine can
// wrap one directly.
type ChunkIterator interface {
	Next() (ts, vals []float64, err error)
}

// extensionEngine maps a lowercase file extension (without the dot) to the
// engine name that serves it, matching the Python source's extension_map.
var extensionEngine = map[string]string{
	"pltx":    "pltx",
	"csv":     "csv",
	"xlsx":    "excel",
	"xls":     "excel",
	"h5":      "hdf5",
	"parquet": "parquet",
}

// ErrUnsupportedExtension is returned by Open for a path whose extension
// isn't in extensionEngine.
var ErrUnsupportedExtension = fmt.Errorf("unified: unsupported file extension")

// ErrUnknownSignal is returned by an Engine's IterChunks/ReadSignalAll (or
// GetHeader-adjacent lookups) when the requested signal name doesn't resolve
// to a column/signal the underlying file actually has. Callers discriminate
// it with errors.Is, mirroring pltx.ErrUnknownSignal for the PLTX engine.
var ErrUnknownSignal = fmt.Errorf("unified: unknown signal")

// DetectEngineName returns the engine name (e.g. "pltx", "csv") for path's
// extension, or "" if unrecognized.
func DetectEngineName(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return extensionEngine[ext]
}

// Open picks and constructs the engine matching path's extension.
func Open(path string) (Engine, error) {
	switch DetectEngineName(path) {
	case "pltx":
		return openPLTXEngine(path)
	case "csv":
		return openCSVEngine(path)
	case "excel":
		return nil, fmt.Errorf("unified: excel engine not available for %s: %w", path, errNotImplemented("excel"))
	case "hdf5":
		return nil, fmt.Errorf("unified: hdf5 engine not available for %s: %w", path, errNotImplemented("hdf5"))
	case "parquet":
		return nil, fmt.Errorf("unified: parquet engine not available for %s: %w", path, errNotImplemented("parquet"))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExtension, path)
	}
}

// ErrFormatNotImplemented is wrapped by Open for recognized-but-unbuilt
// engines (excel/hdf5/parquet): spec.md scopes PLTX as the implemented
// format and names the rest only by interface (§1 Non-goals).
var ErrFormatNotImplemented = fmt.Errorf("unified: format recognized but not implemented")

func errNotImplemented(name string) error {
	return fmt.Errorf("%w: %s", ErrFormatNotImplemented, name)
}
