package atomspace

import (
	"log/slog"
	"sync"
)

// Attention maintenance constants. The pass multiplies every atom's
// attention by attentionDecay, spreads attentionSpread of the pre-decay
// value across outgoing links, and floors the decayed value at
// attentionFloor.
const (
	attentionDecay  = 0.95
	attentionSpread = 0.1
	attentionFloor  = 0.01
)

// Space is the exclusive owner of a set of atoms, indexed by id and by
// name. All structural operations (create, remove, link addition, the
// attention maintenance pass) are mutually exclusive with each other and
// with lookups; lookups and queries run concurrently with each other.
//
// Names are unique within a Space: creating an atom under an existing name
// returns the original atom unchanged, regardless of the arguments on the
// later call. Callers relying on get-or-create semantics depend on this.
type Space struct {
	mu     sync.RWMutex
	byID   map[uint64]*Atom
	byName map[string]*Atom
	logger *slog.Logger
}

// Option configures a Space.
type Option func(*Space)

// WithLogger sets the logger used for structural events. If not provided,
// logging is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Space) {
		s.logger = logger
	}
}

// New creates an empty Space and seeds the fundamental system concepts
// ("Self", "System", "Host").
func New(opts ...Option) *Space {
	s := &Space{
		byID:   make(map[uint64]*Atom),
		byName: make(map[string]*Atom),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	s.CreateAtom(TypeConcept, "Self", 1.0, 1.0)
	s.CreateAtom(TypeConcept, "System", 1.0, 1.0)
	s.CreateAtom(TypeConcept, "Host", 1.0, 1.0)

	return s
}

// CreateAtom returns the atom registered under name, creating it with the
// given type, truth value, and confidence if it does not exist. When the
// name is already present the existing atom is returned unchanged and the
// arguments are discarded. Safe under concurrent calls: at most one atom is
// ever created per distinct name.
func (s *Space) CreateAtom(typ Type, name string, truth, confidence float64) *Atom {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byName[name]; ok {
		return existing
	}

	atom := newAtom(typ, name, truth, confidence)
	s.byID[atom.id] = atom
	s.byName[name] = atom

	s.logger.Debug("atom created",
		slog.Uint64("id", atom.id),
		slog.String("name", name),
		slog.String("type", typ.String()),
	)

	return atom
}

// Atom returns the atom with the given id, or nil if it does not exist.
// Absence is a normal outcome, not an error.
func (s *Space) Atom(id uint64) *Atom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[id]
}

// FindAtom returns the atom with the given name, or nil if it does not
// exist.
func (s *Space) FindAtom(name string) *Atom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byName[name]
}

// AtomsByType returns an unordered snapshot of all atoms with the given
// type.
func (s *Space) AtomsByType(typ Type) []*Atom {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Atom
	for _, atom := range s.byID {
		if atom.typ == typ {
			result = append(result, atom)
		}
	}
	return result
}

// Query returns all atoms matching the predicate, evaluated against a
// snapshot of the Space. The predicate must not call back into Space
// methods that take the write lock.
func (s *Space) Query(predicate func(*Atom) bool) []*Atom {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Atom
	for _, atom := range s.byID {
		if predicate(atom) {
			result = append(result, atom)
		}
	}
	return result
}

// AddLink records a directed link from one atom to another: the target is
// appended to the source's outgoing links and the source to the target's
// incoming links, deduplicated by id. Returns false if either atom does not
// exist. Self-links and cycles are allowed.
func (s *Space) AddLink(fromID, toID uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.byID[fromID]
	if !ok {
		return false
	}
	to, ok := s.byID[toID]
	if !ok {
		return false
	}

	from.addOutgoing(toID)
	to.addIncoming(fromID)
	return true
}

// Outgoing resolves the outgoing links of the atom with the given id,
// skipping links to atoms that have been removed. Returns nil if the atom
// does not exist.
func (s *Space) Outgoing(id uint64) []*Atom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	atom, ok := s.byID[id]
	if !ok {
		return nil
	}
	return s.resolveLocked(atom.OutgoingIDs())
}

// Incoming resolves the incoming links of the atom with the given id,
// skipping links to atoms that have been removed. Returns nil if the atom
// does not exist.
func (s *Space) Incoming(id uint64) []*Atom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	atom, ok := s.byID[id]
	if !ok {
		return nil
	}
	return s.resolveLocked(atom.IncomingIDs())
}

// resolveLocked maps link ids to live atoms. Callers must hold at least the
// read lock.
func (s *Space) resolveLocked(ids []uint64) []*Atom {
	var atoms []*Atom
	for _, id := range ids {
		if atom, ok := s.byID[id]; ok {
			atoms = append(atoms, atom)
		}
	}
	return atoms
}

// RemoveAtom deletes the atom with the given id from both indices and
// reports whether it existed. Links held by other atoms are not cascaded:
// they keep the removed id and are skipped on resolution.
func (s *Space) RemoveAtom(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	atom, ok := s.byID[id]
	if !ok {
		return false
	}

	delete(s.byName, atom.name)
	delete(s.byID, id)

	s.logger.Debug("atom removed",
		slog.Uint64("id", id),
		slog.String("name", atom.name),
	)

	return true
}

// Clear removes every atom from the Space.
func (s *Space) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[uint64]*Atom)
	s.byName = make(map[string]*Atom)
}

// Len returns the number of atoms in the Space.
func (s *Space) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// CountByType returns the number of atoms with the given type.
func (s *Space) CountByType(typ Type) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, atom := range s.byID {
		if atom.typ == typ {
			count++
		}
	}
	return count
}

// UpdateAttention runs one attention maintenance pass. Every amount is
// computed from a snapshot of pre-pass values: each atom's attention decays
// by attentionDecay and is floored at attentionFloor, and each atom
// distributes attentionSpread of its pre-decay attention evenly across its
// live outgoing links. Spread contributions land on top of the receiver's
// own decayed value, so a receiving atom may end the pass above its
// pre-pass attention.
func (s *Space) UpdateAttention() {
	s.mu.Lock()
	defer s.mu.Unlock()

	pre := make(map[uint64]float64, len(s.byID))
	for id, atom := range s.byID {
		pre[id] = atom.Attention()
	}

	next := make(map[uint64]float64, len(s.byID))
	for id, a := range pre {
		decayed := a * attentionDecay
		if decayed < attentionFloor {
			decayed = attentionFloor
		}
		next[id] = decayed
	}

	for id, atom := range s.byID {
		var targets []uint64
		for _, out := range atom.OutgoingIDs() {
			if _, ok := s.byID[out]; ok {
				targets = append(targets, out)
			}
		}
		if len(targets) == 0 {
			continue
		}
		share := pre[id] * attentionSpread / float64(len(targets))
		for _, target := range targets {
			next[target] += share
		}
	}

	for id, atom := range s.byID {
		atom.SetAttention(next[id])
	}
}
