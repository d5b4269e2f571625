package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	for _, category := range PostCategories {
		assert.True(t, ValidCategory(category), "category %q should be valid", category)
	}
	assert.False(t, ValidCategory("Memes"))
	assert.False(t, ValidCategory(""))
	assert.False(t, ValidCategory("general"), "categories are case sensitive")
}

func TestSanitizedLeavesNormalPostUntouched(t *testing.T) {
	post := Post{
		PostID:       "post-1",
		Content:      "Look at my dog",
		ImageURLs:    []string{"https://cdn.test/1.png"},
		TaggedPets:   []TaggedPet{{PetID: "pet-1", PetName: "Bantay"}},
		ReportStatus: ReportStatusNone,
	}

	view := post.Sanitized()

	assert.Equal(t, post, view)
}

func TestSanitizedPendingPostStaysVisible(t *testing.T) {
	post := Post{
		PostID:       "post-1",
		Content:      "under review but still up",
		ReportStatus: ReportStatusPending,
	}

	view := post.Sanitized()

	assert.Equal(t, "under review but still up", view.Content)
	assert.False(t, view.TakenDown())
}

func TestSanitizedTakenDownPost(t *testing.T) {
	post := Post{
		PostID:       "post-1",
		AuthorID:     "uid-1",
		Content:      "removed content",
		ImageURLs:    []string{"https://cdn.test/1.png", "https://cdn.test/2.png"},
		TaggedPets:   []TaggedPet{{PetID: "pet-1", PetName: "Bantay"}},
		ReportStatus: ReportStatusVerified,
	}

	view := post.Sanitized()

	assert.True(t, view.TakenDown())
	assert.Equal(t, TakedownNotice, view.Content)
	assert.Nil(t, view.ImageURLs)
	assert.Nil(t, view.TaggedPets)
	// Identity and state survive so the client can still render the frame.
	assert.Equal(t, "post-1", view.PostID)
	assert.Equal(t, "uid-1", view.AuthorID)
	assert.Equal(t, ReportStatusVerified, view.ReportStatus)
}

func TestSanitizedSuppressesTakenDownOriginalInsideRepost(t *testing.T) {
	repost := Post{
		PostID:               "repost-1",
		Content:              "sharing this",
		PostType:             PostTypeRepost,
		ReportStatus:         ReportStatusNone,
		OriginalPostID:       "post-1",
		OriginalPostContent:  "the removed original",
		OriginalPostMedia:    []string{"https://cdn.test/1.png"},
		OriginalReportStatus: ReportStatusVerified,
	}

	view := repost.Sanitized()

	// The repost's own commentary survives; only the embedded original is hidden.
	assert.Equal(t, "sharing this", view.Content)
	assert.Equal(t, TakedownNotice, view.OriginalPostContent)
	assert.Nil(t, view.OriginalPostMedia)
}
