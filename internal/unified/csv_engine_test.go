package unified

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVEngineHeaderAndReadAll(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "data.csv", "Time,rpm,temp\n0,100,20\n1,110,21\n2,120,22\n")

	eng, err := Open(path)
	require.NoError(t, err)
	defer eng.Close()

	header, err := eng.GetHeader()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"rpm", "temp"}, header.SignalNames)

	ts, vals, err := eng.ReadSignalAll("rpm")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2}, ts)
	assert.Equal(t, []float64{100, 110, 120}, vals)
}

func TestCSVEngineIterChunks(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "data.csv", "Time,v\n0,1\n1,2\n2,3\n3,4\n4,5\n")

	eng, err := Open(path)
	require.NoError(t, err)
	defer eng.Close()

	it, err := eng.IterChunks("v", 2)
	require.NoError(t, err)

	var all []float64
	for {
		_, vals, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		all = append(all, vals...)
	}
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, all)
}

func TestCSVEngineUnknownSignal(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "data.csv", "Time,v\n0,1\n")

	eng, err := Open(path)
	require.NoError(t, err)
	defer eng.Close()

	_, _, err = eng.ReadSignalAll("missing")
	assert.ErrorIs(t, err, ErrUnknownSignal)
}

func TestCSVEngineTimeAsSignalNameIsUnknownSignal(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "data.csv", "Time,v\n0,1\n")

	eng, err := Open(path)
	require.NoError(t, err)
	defer eng.Close()

	_, _, err = eng.ReadSignalAll("Time")
	assert.ErrorIs(t, err, ErrUnknownSignal)
}

func TestUnsupportedExtension(t *testing.T) {
	_, err := Open("data.bin")
	assert.ErrorIs(t, err, ErrUnsupportedExtension)
}

func TestRecognizedButUnimplementedFormat(t *testing.T) {
	_, err := Open("data.xlsx")
	assert.ErrorIs(t, err, ErrFormatNotImplemented)
}
