package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dowser "github.com/dowser/dowser-go"
)

func TestRuleConstructionErrors(t *testing.T) {
	tests := []struct {
		name string
		lhs  LHS
		rhs  RHS
		kind dowser.Kind
	}{
		{
			name: "dom rule must assign a type",
			lhs:  Dom("p"),
			rhs:  Score(2),
			kind: dowser.KindDomRuleMustAssignType,
		},
		{
			name: "conserve without a guaranteed type",
			lhs:  Dom("a"),
			rhs:  Typed("x").Conserving(),
			kind: dowser.KindConserveScoreWithoutType,
		},
		{
			name: "conserve with more than one guaranteed type",
			lhs:  And(Type("a"), Type("b")),
			rhs:  Typed("x").Conserving(),
			kind: dowser.KindConserveScoreWithoutType,
		},
		{
			name: "score with no inferable type",
			lhs:  And(Type("a"), Type("b")),
			rhs:  Score(2),
			kind: dowser.KindScoreWithoutInferableType,
		},
		{
			name: "note with no inferable type",
			lhs:  And(Type("a"), Type("b")),
			rhs:  Note("hello"),
			kind: dowser.KindNoteWithoutInferableType,
		},
		{
			name: "and over an aggregate",
			lhs:  And(Type("a"), Max("b")),
			rhs:  Typed("x"),
			kind: dowser.KindUnsupportedAnd,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRule(tt.lhs, tt.rhs)
			if assert.Error(t, err) {
				assert.Equal(t, tt.kind, dowser.KindOf(err))
			}
		})
	}
}

// typelessLHS guarantees nothing and is not a dom selector; it exists to
// exercise the underspecified-emission path.
type typelessLHS struct{}

func (typelessLHS) matches(*BoundRuleset) ([]*Fnode, error) { return nil, nil }
func (typelessLHS) guaranteedTypes() []string               { return nil }
func (typelessLHS) mentionedTypes() []string                { return nil }
func (typelessLHS) finalizedTypes() []string                { return nil }
func (l typelessLHS) When(Predicate) LHS                    { return l }
func (typelessLHS) describe() string                        { return "typeless()" }

func TestUnderspecifiedEmission(t *testing.T) {
	_, err := NewRule(typelessLHS{}, Score(2))
	if assert.Error(t, err) {
		assert.Equal(t, dowser.KindUnderspecifiedEmission, dowser.KindOf(err))
	}
}

func TestEmissionMetadata(t *testing.T) {
	t.Run("dom rule emits and adds its type", func(t *testing.T) {
		r, err := NewRule(Dom("a"), Typed("linky"))
		assert.NoError(t, err)
		assert.Equal(t, []string{"linky"}, r.couldEmit)
		assert.Equal(t, []string{"linky"}, r.couldAdd)
		assert.Empty(t, r.finalized)
	})

	t.Run("score-only rule emits but cannot add", func(t *testing.T) {
		r, err := NewRule(Type("linky"), Score(2))
		assert.NoError(t, err)
		assert.Equal(t, []string{"linky"}, r.couldEmit)
		assert.Empty(t, r.couldAdd)
		assert.Empty(t, r.finalized)
	})

	t.Run("retyping rule finalizes its input type", func(t *testing.T) {
		r, err := NewRule(Type("a"), Typed("b"))
		assert.NoError(t, err)
		assert.Equal(t, []string{"b"}, r.couldEmit)
		assert.Equal(t, []string{"b"}, r.couldAdd)
		assert.Equal(t, []string{"a"}, r.finalized)
	})

	t.Run("aggregate LHS finalizes its type", func(t *testing.T) {
		r, err := NewRule(Max("a"), Score(2))
		assert.NoError(t, err)
		assert.Equal(t, []string{"a"}, r.finalized)
	})

	t.Run("outward rule finalizes every mentioned type", func(t *testing.T) {
		r, err := NewOutRule(And(Type("a"), Type("b")), Out("both"))
		assert.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "b"}, r.finalized)
	})

	t.Run("custom facts declare their emissions", func(t *testing.T) {
		r, err := NewRule(Dom("a"), By(func(f *Fnode) Fact {
			return Fact{Type: "linky"}
		}).Emitting("linky"))
		assert.NoError(t, err)
		assert.Equal(t, []string{"linky"}, r.couldEmit)
	})
}

func TestRulesetRejectsDuplicateOutKeys(t *testing.T) {
	r1, err := NewOutRule(Type("a"), Out("result"))
	assert.NoError(t, err)
	r2, err := NewOutRule(Type("b"), Out("result"))
	assert.NoError(t, err)
	_, err = NewRuleset(r1, r2)
	assert.Error(t, err)
}
