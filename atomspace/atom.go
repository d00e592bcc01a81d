package atomspace

import (
	"sync"
	"sync/atomic"
	"time"
)

// nextID is the process-wide atom id counter. Ids are unique across every
// Space in the process and are never reused.
var nextID atomic.Uint64

// Type identifies the kind of knowledge an atom carries. Behavior branches
// on the type; atoms of different types share the same structure.
type Type uint32

const (
	// TypeConcept represents a general concept or category.
	TypeConcept Type = iota

	// TypeLink represents an explicit relationship atom.
	TypeLink

	// TypeProcess represents a process or an action plan.
	TypeProcess

	// TypeAgent represents a cognitive agent's self-concept.
	TypeAgent

	// TypeRule represents a learned rule derived from successful plans.
	TypeRule

	// TypeGoal represents a goal an agent works toward.
	TypeGoal

	// TypeMemory represents a recorded perception or message.
	TypeMemory
)

// String returns the string representation of the type.
func (t Type) String() string {
	switch t {
	case TypeConcept:
		return "Concept"
	case TypeLink:
		return "Link"
	case TypeProcess:
		return "Process"
	case TypeAgent:
		return "Agent"
	case TypeRule:
		return "Rule"
	case TypeGoal:
		return "Goal"
	case TypeMemory:
		return "Memory"
	default:
		return "Unknown"
	}
}

// IsValid checks if the type is a recognized value.
func (t Type) IsValid() bool {
	return t <= TypeMemory
}

// Atom is the fundamental unit of knowledge in a Space. Each atom carries a
// truth value and confidence in [0,1], an attention score used for resource
// allocation, and directed links to other atoms.
//
// Atoms are created and owned exclusively by a Space; links reference other
// atoms by id and never imply ownership or lifetime. An atom's scalar fields
// are safe for concurrent access through its accessor methods.
type Atom struct {
	id   uint64
	typ  Type
	name string

	mu           sync.RWMutex
	truth        float64
	confidence   float64
	attention    float64
	createdAt    time.Time
	lastAccessed time.Time
	outgoing     []uint64
	incoming     []uint64
}

// initialAttention is the attention every new atom starts with.
const initialAttention = 0.5

func newAtom(typ Type, name string, truth, confidence float64) *Atom {
	now := time.Now()
	return &Atom{
		id:           nextID.Add(1),
		typ:          typ,
		name:         name,
		truth:        clamp01(truth),
		confidence:   clamp01(confidence),
		attention:    initialAttention,
		createdAt:    now,
		lastAccessed: now,
	}
}

// ID returns the atom's unique identifier.
func (a *Atom) ID() uint64 { return a.id }

// Type returns the atom's type.
func (a *Atom) Type() Type { return a.typ }

// Name returns the atom's name, unique within its Space.
func (a *Atom) Name() string { return a.name }

// TruthValue returns the atom's current truth value.
func (a *Atom) TruthValue() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.truth
}

// Confidence returns the atom's current confidence.
func (a *Atom) Confidence() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.confidence
}

// SetTruthValue updates the truth value and confidence, clamping both to
// [0,1], and stamps the last-accessed time.
func (a *Atom) SetTruthValue(truth, confidence float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.truth = clamp01(truth)
	a.confidence = clamp01(confidence)
	a.lastAccessed = time.Now()
}

// Attention returns the atom's current attention score.
func (a *Atom) Attention() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.attention
}

// SetAttention sets the attention score. The value is not clamped here; the
// Space's maintenance pass floors it at a small positive constant. Attention
// writes do not update the last-accessed time.
func (a *Atom) SetAttention(attention float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.attention = attention
}

// CreatedAt returns the atom's creation time.
func (a *Atom) CreatedAt() time.Time { return a.createdAt }

// LastAccessed returns the time of the last truth-value write or link
// addition.
func (a *Atom) LastAccessed() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastAccessed
}

// OutgoingIDs returns a copy of the atom's outgoing link ids in insertion
// order. Ids of atoms that have since been removed may still appear.
func (a *Atom) OutgoingIDs() []uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]uint64, len(a.outgoing))
	copy(out, a.outgoing)
	return out
}

// IncomingIDs returns a copy of the atom's incoming link ids in insertion
// order. Ids of atoms that have since been removed may still appear.
func (a *Atom) IncomingIDs() []uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	in := make([]uint64, len(a.incoming))
	copy(in, a.incoming)
	return in
}

// addOutgoing appends id to the outgoing links if not already present.
func (a *Atom) addOutgoing(id uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, existing := range a.outgoing {
		if existing == id {
			return
		}
	}
	a.outgoing = append(a.outgoing, id)
	a.lastAccessed = time.Now()
}

// addIncoming appends id to the incoming links if not already present.
func (a *Atom) addIncoming(id uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, existing := range a.incoming {
		if existing == id {
			return
		}
	}
	a.incoming = append(a.incoming, id)
	a.lastAccessed = time.Now()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
