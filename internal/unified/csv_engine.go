package unified

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// csvEngine reads "Time, Signal1, Signal2, ..." tables. No third-party CSV
// library appears anywhere in the reference corpus, so this uses
// encoding/csv directly (see DESIGN.md).
type csvEngine struct {
	path    string
	header  []string // raw column names, including "Time"
	timeIdx int
}

func openCSVEngine(path string) (Engine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unified: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	cols, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("unified: read csv header of %s: %w", path, err)
	}
	timeIdx := -1
	for i, c := range cols {
		if strings.EqualFold(c, "time") {
			timeIdx = i
			break
		}
	}
	if timeIdx < 0 {
		return nil, fmt.Errorf("unified: csv file %s has no Time column", path)
	}
	return &csvEngine{path: path, header: cols, timeIdx: timeIdx}, nil
}

func (e *csvEngine) GetHeader() (Header, error) {
	names := make([]string, 0, len(e.header)-1)
	for i, c := range e.header {
		if i != e.timeIdx {
			names = append(names, c)
		}
	}
	return Header{SignalNames: names}, nil
}

func (e *csvEngine) columnIndex(signalName string) (int, error) {
	if strings.EqualFold(signalName, "time") {
		return -1, fmt.Errorf("%w: signal name cannot be %q", ErrUnknownSignal, "Time")
	}
	for i, c := range e.header {
		if c == signalName {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q not found in %s", ErrUnknownSignal, signalName, e.path)
}

type csvChunkIterator struct {
	f         *os.File
	r         *csv.Reader
	timeIdx   int
	valIdx    int
	chunkSize int
}

func (e *csvEngine) IterChunks(signalName string, chunkSize int) (ChunkIterator, error) {
	valIdx, err := e.columnIndex(signalName)
	if err != nil {
		return nil, err
	}
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	f, err := os.Open(e.path)
	if err != nil {
		return nil, fmt.Errorf("unified: reopen %s: %w", e.path, err)
	}
	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // skip header row
		f.Close()
		return nil, fmt.Errorf("unified: reread csv header of %s: %w", e.path, err)
	}
	return &csvChunkIterator{f: f, r: r, timeIdx: e.timeIdx, valIdx: valIdx, chunkSize: chunkSize}, nil
}

func (it *csvChunkIterator) Next() (ts, vals []float64, err error) {
	for len(ts) < it.chunkSize {
		record, err := it.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("unified: csv read: %w", err)
		}
		t, v, perr := parseRow(record, it.timeIdx, it.valIdx)
		if perr != nil {
			return nil, nil, perr
		}
		ts = append(ts, t)
		vals = append(vals, v)
	}
	if len(ts) == 0 {
		it.f.Close()
		return nil, nil, io.EOF
	}
	return ts, vals, nil
}

func parseRow(record []string, timeIdx, valIdx int) (float64, float64, error) {
	t, err := strconv.ParseFloat(record[timeIdx], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("unified: parse time field %q: %w", record[timeIdx], err)
	}
	v, err := strconv.ParseFloat(record[valIdx], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("unified: parse value field %q: %w", record[valIdx], err)
	}
	return t, v, nil
}

func (e *csvEngine) ReadSignalAll(signalName string) (ts, vals []float64, err error) {
	it, err := e.IterChunks(signalName, 4096)
	if err != nil {
		return nil, nil, err
	}
	for {
		chunkTS, chunkVals, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		ts = append(ts, chunkTS...)
		vals = append(vals, chunkVals...)
	}
	return ts, vals, nil
}

func (e *csvEngine) Close() error {
	return nil
}
