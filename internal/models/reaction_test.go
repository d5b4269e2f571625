package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactionKindValid(t *testing.T) {
	for _, kind := range ReactionKinds {
		assert.True(t, kind.Valid(), "kind %q should be valid", kind)
	}
	assert.False(t, ReactionKind("thumbsdown").Valid())
	assert.False(t, ReactionKind("").Valid())
}

func TestToggleSetsReaction(t *testing.T) {
	board := NewReactionBoard("post-1")

	outcome := board.Toggle("uid-1", ReactionLike)

	assert.Equal(t, ReactionSet, outcome)
	kind, ok := board.KindOf("uid-1")
	require.True(t, ok)
	assert.Equal(t, ReactionLike, kind)
	assert.Equal(t, 1, board.Total())
}

func TestToggleSameKindRemoves(t *testing.T) {
	board := NewReactionBoard("post-1")
	board.Toggle("uid-1", ReactionHeart)

	outcome := board.Toggle("uid-1", ReactionHeart)

	assert.Equal(t, ReactionRemoved, outcome)
	_, ok := board.KindOf("uid-1")
	assert.False(t, ok)
	assert.Equal(t, 0, board.Total())
}

func TestToggleDifferentKindSwitches(t *testing.T) {
	board := NewReactionBoard("post-1")
	board.Toggle("uid-1", ReactionLike)

	outcome := board.Toggle("uid-1", ReactionAngry)

	assert.Equal(t, ReactionSwitched, outcome)
	kind, ok := board.KindOf("uid-1")
	require.True(t, ok)
	assert.Equal(t, ReactionAngry, kind)
	assert.Equal(t, 1, board.Total(), "a switch must not grow the board")
}

func TestToggleHoldsAtMostOneKindPerUser(t *testing.T) {
	board := NewReactionBoard("post-1")

	for _, kind := range ReactionKinds {
		board.Toggle("uid-1", kind)
		assert.Equal(t, 1, board.Total())
	}
}

func TestCountsByKindZeroFilled(t *testing.T) {
	board := NewReactionBoard("post-1")
	board.Toggle("uid-1", ReactionLike)
	board.Toggle("uid-2", ReactionLike)
	board.Toggle("uid-3", ReactionSad)

	counts := board.CountsByKind()

	assert.Len(t, counts, len(ReactionKinds))
	assert.Equal(t, 2, counts[ReactionLike])
	assert.Equal(t, 1, counts[ReactionSad])
	assert.Equal(t, 0, counts[ReactionWow])
}

func TestUserIDsByKindSorted(t *testing.T) {
	board := NewReactionBoard("post-1")
	board.Toggle("uid-c", ReactionHaha)
	board.Toggle("uid-a", ReactionHaha)
	board.Toggle("uid-b", ReactionHaha)

	groups := board.UserIDsByKind()

	assert.Equal(t, []string{"uid-a", "uid-b", "uid-c"}, groups[ReactionHaha])
}

func TestToggleOutcomeNotifies(t *testing.T) {
	assert.True(t, ReactionSet.Notifies())
	assert.True(t, ReactionSwitched.Notifies())
	assert.False(t, ReactionRemoved.Notifies())
}
