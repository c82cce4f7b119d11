// Package registry implements the public signal namespace shared across every
// opened timeseries file: ReaderManager gives each signal it encounters a
// public name, suffixed "[k]" when the name is already a key (see
// getSignalName for how k is counted; a third signal sharing a name is given
// the second one's public name again), and remembers which engine/original
// name that public name resolves back to. Grounded on
// _examples/original_source/core/reader.py's ReaderManager.
package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/baksi-org/pltx/internal/unified"
)

// Entry is what a public signal name resolves to.
type Entry struct {
	Original string
	Path     string
	Engine   unified.Engine
}

// Manager is the Go equivalent of ReaderManager. It is safe for concurrent
// use; RegisterFile and Resolve both take the same lock.
type Manager struct {
	mu sync.Mutex

	engines       map[string]unified.Engine // path -> open engine
	signalMap     map[string]Entry          // public name -> entry
	signalInvert  map[string]string         // "path\x00original" -> public name
	pathPublic    map[string][]string       // path -> public names assigned from it, in header order
	publicKeyList []string                  // insertion-ordered public-name keys, mirrors Python's dict key order

	log hclog.Logger
}

// Option configures NewManager.
type Option func(*Manager)

// WithLogger overrides the registry's hclog.Logger (default: a no-op logger).
func WithLogger(l hclog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// NewManager returns an empty registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		engines:      make(map[string]unified.Engine),
		signalMap:    make(map[string]Entry),
		signalInvert: make(map[string]string),
		pathPublic:   make(map[string][]string),
		log:          hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// getSignalName reproduces get_signal_name exactly: it counts how many of the
// currently-registered *public* name keys equal signal verbatim, and if that
// count is nonzero, returns "signal[count+1]". Because collisions beyond the
// second occurrence compare against the original key (not the most recent
// disambiguated one), a third or later collision on the same name reuses the
// second's public name — this mirrors the source's behavior exactly rather
// than correcting it.
func (m *Manager) getSignalName(signal string) string {
	count := 0
	for _, k := range m.publicKeyList {
		if k == signal {
			count++
		}
	}
	if count > 0 {
		public := fmt.Sprintf("%s[%d]", signal, count+1)
		m.log.Debug("signal name collision", "original", signal, "assigned", public, "occurrences", count)
		return public
	}
	return signal
}

// RegisterFile opens path (if not already open), registers every signal it
// exposes under the public name getSignalName picks, and returns the assigned
// public names in header order. A path already registered returns its
// previously-assigned public names unchanged, per SPEC_FULL.md's resolution
// of the duplicate-registration Open Question — unlike the Python source,
// which re-appends a fresh (and colliding) set of assignments on every call.
func (m *Manager) RegisterFile(path string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.pathPublic[path]; ok {
		return append([]string(nil), existing...), nil
	}

	eng, err := unified.Open(path)
	if err != nil {
		return nil, fmt.Errorf("registry: open %s: %w", path, err)
	}

	header, err := eng.GetHeader()
	if err != nil {
		eng.Close()
		return nil, fmt.Errorf("registry: read header of %s: %w", path, err)
	}

	m.engines[path] = eng
	assigned := make([]string, 0, len(header.SignalNames))
	for _, name := range header.SignalNames {
		public := m.getSignalName(name)
		m.signalMap[public] = Entry{Original: name, Path: path, Engine: eng}
		m.signalInvert[invertKey(path, name)] = public
		m.publicKeyList = append(m.publicKeyList, public)
		assigned = append(assigned, public)
	}
	m.pathPublic[path] = assigned
	return assigned, nil
}

func invertKey(path, original string) string {
	var b strings.Builder
	b.WriteString(path)
	b.WriteByte(0)
	b.WriteString(original)
	return b.String()
}

// Resolve maps a public signal name back to its engine and original name.
func (m *Manager) Resolve(publicName string) (unified.Engine, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.signalMap[publicName]
	if !ok {
		return nil, "", fmt.Errorf("registry: unknown public signal %q", publicName)
	}
	return e.Engine, e.Original, nil
}

// PublicNameFor returns the public name path/original was assigned, if any.
func (m *Manager) PublicNameFor(path, original string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.signalInvert[invertKey(path, original)]
	return p, ok
}

// Close closes every engine this registry opened.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var firstErr error
	for path, eng := range m.engines {
		if err := eng.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("registry: close %s: %w", path, err)
		}
	}
	return firstErr
}
