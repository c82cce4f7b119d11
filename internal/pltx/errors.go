package pltx

import "errors"

// Sentinel errors for the taxonomy in spec.md §7. Wrapped with context via
// fmt.Errorf("...: %w", err) at each call boundary; callers discriminate with
// errors.Is.
var (
	// ErrCorrupt covers magic mismatches, a missing or truncated footer, a
	// record buffer whose length doesn't match its record count, and index
	// entries pointing at the wrong signal. Other short reads are reported
	// with the underlying io error (io.EOF or io.ErrUnexpectedEOF), and a
	// decompressed length mismatch with ErrDecompressedLengthMismatch;
	// neither wraps ErrCorrupt.
	ErrCorrupt = errors.New("pltx: corrupt file")

	// ErrUnknownSignal is returned when a requested signal name isn't present
	// in the file's header. An unknown signal id is not an error: IterChunks
	// and IterTimeRange return an iterator that is already exhausted.
	ErrUnknownSignal = errors.New("pltx: unknown signal")

	// ErrFinalizeFailed is returned when stop_and_save exhausts its retry
	// budget while assembling the final file.
	ErrFinalizeFailed = errors.New("pltx: finalize failed")

	// ErrAlreadySealed is returned when record/flush operations are attempted
	// on a writer that has already completed stop_and_save.
	ErrAlreadySealed = errors.New("pltx: writer already sealed")
)
