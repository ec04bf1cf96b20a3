package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateReturnsSameConversationForBothOrders(t *testing.T) {
	g := newTestDB(t)
	repo := NewConversationRepo(g)

	first, err := repo.GetOrCreate("user-a", "user-b", nil)
	require.NoError(t, err)

	second, err := repo.GetOrCreate("user-b", "user-a", nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// repeated calls stay idempotent
	for i := 0; i < 5; i++ {
		again, err := repo.GetOrCreate("user-a", "user-b", nil)
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
	}

	assert.Equal(t, "user-a", first.LeastUserID)
	assert.Equal(t, "user-b", first.GreatestUserID)
}

func TestGetOrCreateKeepsListingFromFirstContact(t *testing.T) {
	g := newTestDB(t)
	repo := NewConversationRepo(g)

	listingID := "listing-1"
	first, err := repo.GetOrCreate("user-a", "user-b", &listingID)
	require.NoError(t, err)
	require.NotNil(t, first.ListingID)
	assert.Equal(t, listingID, *first.ListingID)

	otherListing := "listing-2"
	again, err := repo.GetOrCreate("user-b", "user-a", &otherListing)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	require.NotNil(t, again.ListingID)
	assert.Equal(t, listingID, *again.ListingID, "existing conversation keeps its original listing")
}

func TestIsParticipant(t *testing.T) {
	g := newTestDB(t)
	repo := NewConversationRepo(g)

	conv, err := repo.GetOrCreate("user-a", "user-b", nil)
	require.NoError(t, err)

	ok, err := repo.IsParticipant(conv.ID, "user-a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsParticipant(conv.ID, "user-b")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsParticipant(conv.ID, "user-c")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.IsParticipant("no-such-conversation", "user-a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListVisibleForUserExcludesHidden(t *testing.T) {
	g := newTestDB(t)
	convRepo := NewConversationRepo(g)
	msgRepo := NewMessageRepo(g)

	withB, err := convRepo.GetOrCreate("user-a", "user-b", nil)
	require.NoError(t, err)
	withC, err := convRepo.GetOrCreate("user-a", "user-c", nil)
	require.NoError(t, err)

	convs, err := convRepo.ListVisibleForUser("user-a", 20)
	require.NoError(t, err)
	require.Len(t, convs, 2)

	_, err = msgRepo.HideConversation(withB.ID, "user-a")
	require.NoError(t, err)

	convs, err = convRepo.ListVisibleForUser("user-a", 20)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, withC.ID, convs[0].ID)

	// hiding is one-sided: user-b still sees the conversation
	convs, err = convRepo.ListVisibleForUser("user-b", 20)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, withB.ID, convs[0].ID)
}
