package testutil

import (
	"fmt"
	"sync"

	"github.com/vk/netgraph/internal/layer"
	"github.com/vk/netgraph/internal/registry"
)

// Journal records phase method calls across recorders, in call order.
type Journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *Journal) add(entry string) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
}

// Entries returns the recorded calls as "phase:name".
func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// For returns the names recorded for one phase, in call order.
func (j *Journal) For(phase string) []string {
	var out []string
	prefix := phase + ":"
	for _, e := range j.Entries() {
		if len(e) > len(prefix) && e[:len(prefix)] == prefix {
			out = append(out, e[len(prefix):])
		}
	}
	return out
}

// Reset clears the journal.
func (j *Journal) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
}

// Phase names used in journal entries.
const (
	PhaseSetup   = "setup"
	PhaseForward = "forward"
	PhaseCompare = "compare"
	PhaseLearn   = "learn"
)

// Recorder is a layer that records every phase call in a Journal. Its name
// setting identifies it in entries.
type Recorder struct {
	layer.Base
	journal *Journal

	// Fail makes the named phase return an error.
	Fail map[string]error
	// Panic makes the named phase panic.
	Panic map[string]bool
}

// NewRecorder builds a recorder of type tag named name.
func NewRecorder(j *Journal, tag, name string, inputs ...layer.Node) *Recorder {
	return NewRecorderWithSettings(j, tag, layer.Settings{"name": name}, inputs...)
}

// NewRecorderWithSettings builds a recorder carrying arbitrary settings.
func NewRecorderWithSettings(j *Journal, tag string, settings layer.Settings, inputs ...layer.Node) *Recorder {
	return &Recorder{Base: layer.NewBase(tag, settings, inputs...), journal: j}
}

// Name returns the recorder's name setting.
func (rec *Recorder) Name() string {
	name, _ := rec.Settings()["name"].(string)
	return name
}

func (rec *Recorder) call(phase string) error {
	rec.journal.add(phase + ":" + rec.Name())
	if rec.Panic[phase] {
		panic(fmt.Sprintf("recorder %s panicked in %s", rec.Name(), phase))
	}
	return rec.Fail[phase]
}

func (rec *Recorder) Setup() error   { return rec.call(PhaseSetup) }
func (rec *Recorder) Forward() error { return rec.call(PhaseForward) }
func (rec *Recorder) Compare() error { return rec.call(PhaseCompare) }
func (rec *Recorder) Learn() error   { return rec.call(PhaseLearn) }

// RecorderModule registers recorder constructors for a set of type tags.
type RecorderModule struct {
	Journal *Journal
	Types   []string
	// Built counts constructor calls.
	Built int
}

// Register implements registry.Module.
func (m *RecorderModule) Register(r *registry.Registry) {
	for _, tag := range m.Types {
		tag := tag
		r.Register(tag, func(settings layer.Settings, inputs ...layer.Node) (layer.Node, error) {
			m.Built++
			return NewRecorderWithSettings(m.Journal, tag, settings, inputs...), nil
		})
	}
}
