package atomspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTypeString tests the string representation of atom types.
func TestTypeString(t *testing.T) {
	tests := []struct {
		typ      Type
		expected string
	}{
		{TypeConcept, "Concept"},
		{TypeLink, "Link"},
		{TypeProcess, "Process"},
		{TypeAgent, "Agent"},
		{TypeRule, "Rule"},
		{TypeGoal, "Goal"},
		{TypeMemory, "Memory"},
		{Type(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.typ.String())
		})
	}
}

// TestTypeIsValid tests type validation.
func TestTypeIsValid(t *testing.T) {
	assert.True(t, TypeConcept.IsValid())
	assert.True(t, TypeMemory.IsValid())
	assert.False(t, Type(7).IsValid())
	assert.False(t, Type(99).IsValid())
}

// TestAtomDefaults tests the initial state of a freshly created atom.
func TestAtomDefaults(t *testing.T) {
	s := New()

	atom := s.CreateAtom(TypeConcept, "Coffee", 0.8, 0.6)
	require.NotNil(t, atom)

	assert.NotZero(t, atom.ID())
	assert.Equal(t, TypeConcept, atom.Type())
	assert.Equal(t, "Coffee", atom.Name())
	assert.Equal(t, 0.8, atom.TruthValue())
	assert.Equal(t, 0.6, atom.Confidence())
	assert.Equal(t, 0.5, atom.Attention())
	assert.False(t, atom.CreatedAt().IsZero())
	assert.False(t, atom.LastAccessed().IsZero())
	assert.Empty(t, atom.OutgoingIDs())
	assert.Empty(t, atom.IncomingIDs())
}

// TestAtomIDsUnique tests that ids are never reused across spaces.
func TestAtomIDsUnique(t *testing.T) {
	s1 := New()
	s2 := New()

	a := s1.CreateAtom(TypeConcept, "A", 1.0, 1.0)
	b := s2.CreateAtom(TypeConcept, "A", 1.0, 1.0)

	assert.NotEqual(t, a.ID(), b.ID())
}

// TestSetTruthValue tests truth updates and clamping.
func TestSetTruthValue(t *testing.T) {
	t.Run("updates both values", func(t *testing.T) {
		s := New()
		atom := s.CreateAtom(TypeConcept, "X", 0.5, 0.5)

		atom.SetTruthValue(0.9, 0.7)
		assert.Equal(t, 0.9, atom.TruthValue())
		assert.Equal(t, 0.7, atom.Confidence())
	})

	t.Run("clamps to unit interval", func(t *testing.T) {
		s := New()
		atom := s.CreateAtom(TypeConcept, "X", 0.5, 0.5)

		atom.SetTruthValue(1.5, -0.3)
		assert.Equal(t, 1.0, atom.TruthValue())
		assert.Equal(t, 0.0, atom.Confidence())
	})

	t.Run("clamps at creation", func(t *testing.T) {
		s := New()
		atom := s.CreateAtom(TypeConcept, "Y", 2.0, -1.0)

		assert.Equal(t, 1.0, atom.TruthValue())
		assert.Equal(t, 0.0, atom.Confidence())
	})

	t.Run("stamps last accessed", func(t *testing.T) {
		s := New()
		atom := s.CreateAtom(TypeConcept, "X", 0.5, 0.5)

		before := atom.LastAccessed()
		atom.SetTruthValue(0.6, 0.6)
		assert.False(t, atom.LastAccessed().Before(before))
	})
}

// TestSetAttention tests that attention writes are taken verbatim.
func TestSetAttention(t *testing.T) {
	s := New()
	atom := s.CreateAtom(TypeConcept, "X", 0.5, 0.5)

	atom.SetAttention(3.7)
	assert.Equal(t, 3.7, atom.Attention())

	atom.SetAttention(-1.0)
	assert.Equal(t, -1.0, atom.Attention())
}

// TestLinkIDsCopied tests that link id accessors return copies.
func TestLinkIDsCopied(t *testing.T) {
	s := New()
	a := s.CreateAtom(TypeConcept, "A", 1.0, 1.0)
	b := s.CreateAtom(TypeConcept, "B", 1.0, 1.0)

	require.True(t, s.AddLink(a.ID(), b.ID()))

	out := a.OutgoingIDs()
	require.Len(t, out, 1)

	out[0] = 0
	assert.Equal(t, []uint64{b.ID()}, a.OutgoingIDs())
}
