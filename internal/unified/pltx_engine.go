package unified

import (
	"fmt"

	"github.com/baksi-org/pltx/internal/pltx"
)

// pltxEngine adapts an *pltx.Reader to the Engine interface.
type pltxEngine struct {
	r *pltx.Reader
}

func openPLTXEngine(path string) (Engine, error) {
	r, err := pltx.Open(path)
	if err != nil {
		return nil, err
	}
	return &pltxEngine{r: r}, nil
}

func (e *pltxEngine) GetHeader() (Header, error) {
	version := e.r.Version()
	comp := e.r.Compression()
	created := e.r.Created()
	names := make([]string, 0)
	for _, sig := range e.r.ListSignals() {
		names = append(names, sig.Name)
	}
	return Header{Version: &version, Compression: &comp, Created: &created, SignalNames: names}, nil
}

func (e *pltxEngine) resolveSID(signalName string) (uint32, error) {
	sig, err := e.r.ResolveSignal(signalName)
	if err != nil {
		return 0, fmt.Errorf("unified: %w: %w", ErrUnknownSignal, err)
	}
	return sig.SID, nil
}

// chunkSize is accepted for interface parity with the other engines but is
// meaningless here: PLTX chunk boundaries are fixed at write time.
func (e *pltxEngine) IterChunks(signalName string, chunkSize int) (ChunkIterator, error) {
	sid, err := e.resolveSID(signalName)
	if err != nil {
		return nil, err
	}
	return e.r.IterChunks(sid), nil
}

func (e *pltxEngine) ReadSignalAll(signalName string) (ts, vals []float64, err error) {
	sid, err := e.resolveSID(signalName)
	if err != nil {
		return nil, nil, err
	}
	return e.r.ReadSignalAll(sid)
}

func (e *pltxEngine) Close() error {
	return e.r.Close()
}
