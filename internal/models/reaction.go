package models

import "sort"

// ReactionKind is one of the six reactions a user can hold on a post.
type ReactionKind string

const (
	ReactionLike  ReactionKind = "like"
	ReactionHeart ReactionKind = "heart"
	ReactionHaha  ReactionKind = "haha"
	ReactionWow   ReactionKind = "wow"
	ReactionSad   ReactionKind = "sad"
	ReactionAngry ReactionKind = "angry"
)

// ReactionKinds lists every reaction kind in display order.
var ReactionKinds = []ReactionKind{
	ReactionLike,
	ReactionHeart,
	ReactionHaha,
	ReactionWow,
	ReactionSad,
	ReactionAngry,
}

// Valid reports whether k is a known reaction kind.
func (k ReactionKind) Valid() bool {
	for _, known := range ReactionKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ToggleOutcome describes what a reaction toggle did.
type ToggleOutcome int

const (
	ReactionRemoved ToggleOutcome = iota
	ReactionSet
	ReactionSwitched
)

// Notifies reports whether the outcome warrants notifying the post author.
// Removing a reaction never does.
func (o ToggleOutcome) Notifies() bool {
	return o == ReactionSet || o == ReactionSwitched
}

// ReactionBoard is the aggregate reaction state of one post: a single document
// mapping each reacting user to the one kind they currently hold.
type ReactionBoard struct {
	PostID string                  `json:"postID" bson:"_id"`
	ByUser map[string]ReactionKind `json:"byUser" bson:"by_user"`
}

// NewReactionBoard creates an empty board for a post.
func NewReactionBoard(postID string) *ReactionBoard {
	return &ReactionBoard{PostID: postID, ByUser: map[string]ReactionKind{}}
}

// KindOf returns the kind the user currently holds, if any.
func (b *ReactionBoard) KindOf(uid string) (ReactionKind, bool) {
	kind, ok := b.ByUser[uid]
	return kind, ok
}

// Toggle applies the user's reaction in place: re-applying the held kind
// clears it, any other kind replaces the prior one. The user always ends under
// exactly one kind or none.
func (b *ReactionBoard) Toggle(uid string, kind ReactionKind) ToggleOutcome {
	prior, had := b.ByUser[uid]
	switch {
	case had && prior == kind:
		delete(b.ByUser, uid)
		return ReactionRemoved
	case had:
		b.ByUser[uid] = kind
		return ReactionSwitched
	default:
		b.ByUser[uid] = kind
		return ReactionSet
	}
}

// Total returns the number of users reacting to the post.
func (b *ReactionBoard) Total() int {
	return len(b.ByUser)
}

// CountsByKind returns the per-kind totals, zero-filled for absent kinds.
func (b *ReactionBoard) CountsByKind() map[ReactionKind]int {
	counts := make(map[ReactionKind]int, len(ReactionKinds))
	for _, kind := range ReactionKinds {
		counts[kind] = 0
	}
	for _, kind := range b.ByUser {
		counts[kind]++
	}
	return counts
}

// UserIDsByKind groups the reacting user IDs by kind, sorted for stable output.
func (b *ReactionBoard) UserIDsByKind() map[ReactionKind][]string {
	groups := make(map[ReactionKind][]string, len(ReactionKinds))
	for uid, kind := range b.ByUser {
		groups[kind] = append(groups[kind], uid)
	}
	for _, uids := range groups {
		sort.Strings(uids)
	}
	return groups
}

// ApplyReactionRequest is the toggle request body.
type ApplyReactionRequest struct {
	Kind ReactionKind `json:"kind" form:"kind"`
}
