package services

import (
	"context"
	"testing"

	errs "github.com/ekremdev/pazarca/errors"
	"github.com/ekremdev/pazarca/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPublishesFanoutAfterCommit(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", "Ayşe", "Yılmaz")
	f.seedUser(t, "u2", "Mehmet", "Demir")
	ctx := context.Background()

	conv, err := f.conversations.GetOrCreate("u1", "u2", nil)
	require.NoError(t, err)

	msg, err := f.messages.Send(ctx, conv.ID, "u1", "merhaba")
	require.NoError(t, err)
	require.NotNil(t, msg)

	convEvents := f.publisher.EventsFor(realtime.ConversationChannel(conv.ID))
	require.Len(t, convEvents, 1)
	assert.Equal(t, realtime.EventMessageNew, convEvents[0].Event)

	userEvents := f.publisher.EventsFor(realtime.UserChannel("u2"))
	require.Len(t, userEvents, 2)
	assert.Equal(t, realtime.EventBadgeUpdate, userEvents[0].Event)
	badge, ok := userEvents[0].Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, int64(1), badge["total_unread"])
	assert.Equal(t, realtime.EventConversationUpsert, userEvents[1].Event)

	// nothing is pushed at the sender on a plain send
	assert.Empty(t, f.publisher.EventsFor(realtime.UserChannel("u1")))
}

func TestSendValidation(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", "Ayşe", "Yılmaz")
	f.seedUser(t, "u2", "Mehmet", "Demir")
	f.seedUser(t, "u3", "Ali", "Kaya")
	ctx := context.Background()

	conv, err := f.conversations.GetOrCreate("u1", "u2", nil)
	require.NoError(t, err)

	_, err = f.messages.Send(ctx, conv.ID, "u1", "   ")
	assert.ErrorIs(t, err, errs.ErrEmptyMessageBody)

	_, err = f.messages.Send(ctx, conv.ID, "u3", "ben de geleyim")
	assert.ErrorIs(t, err, errs.ErrNotParticipant)

	_, err = f.messages.Send(ctx, "no-such-conversation", "u1", "selam")
	assert.ErrorIs(t, err, errs.ErrConversationNotFound)

	// outsiders cannot read, mark or hide either
	_, err = f.conversations.GetMessages(conv.ID, "u3")
	assert.ErrorIs(t, err, errs.ErrNotParticipant)
	assert.ErrorIs(t, f.messages.MarkRead(ctx, conv.ID, "u3"), errs.ErrNotParticipant)
	assert.ErrorIs(t, f.messages.Hide(ctx, conv.ID, "u3"), errs.ErrNotParticipant)

	// no partial effects leaked from the rejected operations
	msgs, err := f.conversations.GetMessages(conv.ID, "u1")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestMarkReadAndHidePublishBadge(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", "Ayşe", "Yılmaz")
	f.seedUser(t, "u2", "Mehmet", "Demir")
	ctx := context.Background()

	conv, err := f.conversations.GetOrCreate("u1", "u2", nil)
	require.NoError(t, err)
	_, err = f.messages.Send(ctx, conv.ID, "u1", "merhaba")
	require.NoError(t, err)

	require.NoError(t, f.messages.MarkRead(ctx, conv.ID, "u2"))
	events := f.publisher.EventsFor(realtime.UserChannel("u2"))
	last := events[len(events)-1]
	assert.Equal(t, realtime.EventBadgeUpdate, last.Event)
	payload := last.Payload.(map[string]interface{})
	assert.Equal(t, int64(0), payload["total_unread"])

	require.NoError(t, f.messages.Hide(ctx, conv.ID, "u2"))
	events = f.publisher.EventsFor(realtime.UserChannel("u2"))
	last = events[len(events)-1]
	assert.Equal(t, realtime.EventBadgeUpdate, last.Event)
}

// The end-to-end flow: first contact over a listing, unread bookkeeping,
// one-sided hide and the automatic re-surface on new inbound activity.
func TestListingConversationLifecycle(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", "Ayşe", "Yılmaz")
	f.seedUser(t, "u2", "Mehmet", "Demir")
	f.seedListing(t, "l1", "u2", "2018 Ford Cargo")
	ctx := context.Background()

	// the owner cannot open a conversation on their own listing
	_, err := f.conversations.CreateFromListing("l1", "u2")
	assert.ErrorIs(t, err, errs.ErrSelfConversation)

	_, err = f.conversations.CreateFromListing("missing", "u1")
	assert.ErrorIs(t, err, errs.ErrListingNotFound)

	conv, err := f.conversations.CreateFromListing("l1", "u1")
	require.NoError(t, err)
	require.NotNil(t, conv.ListingID)
	assert.Equal(t, "l1", *conv.ListingID)
	assert.True(t, conv.HasParticipant("u1"))
	assert.True(t, conv.HasParticipant("u2"))

	_, err = f.messages.Send(ctx, conv.ID, "u1", "merhaba")
	require.NoError(t, err)

	total, err := f.messages.UnreadTotal("u2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	summaries, err := f.conversations.ListForUser("u2")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(1), summaries[0].UnreadCount)
	require.NotNil(t, summaries[0].OtherParticipant)
	assert.Equal(t, "u1", summaries[0].OtherParticipant.ID)
	require.NotNil(t, summaries[0].Listing)
	assert.Equal(t, "2018 Ford Cargo", summaries[0].Listing.Title)
	require.NotNil(t, summaries[0].LastMessage)
	assert.Equal(t, "merhaba", summaries[0].LastMessage.Content)
	assert.Equal(t, "Ayşe Yılmaz", summaries[0].LastMessage.SenderName)

	require.NoError(t, f.messages.MarkRead(ctx, conv.ID, "u2"))
	total, err = f.messages.UnreadTotal("u2")
	require.NoError(t, err)
	assert.Zero(t, total)

	require.NoError(t, f.messages.Hide(ctx, conv.ID, "u2"))
	summaries, err = f.conversations.ListForUser("u2")
	require.NoError(t, err)
	assert.Empty(t, summaries)

	_, err = f.messages.Send(ctx, conv.ID, "u1", "hâlâ var mısın?")
	require.NoError(t, err)

	summaries, err = f.conversations.ListForUser("u2")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(1), summaries[0].UnreadCount)

	// creating again over the same listing reuses the conversation
	again, err := f.conversations.CreateFromListing("l1", "u1")
	require.NoError(t, err)
	assert.Equal(t, conv.ID, again.ID)

	// as does a direct get-or-create from the other side
	direct, err := f.conversations.GetOrCreate("u2", "u1", nil)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, direct.ID)

	_, err = f.conversations.GetOrCreate("u1", "u1", nil)
	assert.ErrorIs(t, err, errs.ErrSelfConversation)
}

func TestOwnLastMessageLabeledSen(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", "Ayşe", "Yılmaz")
	f.seedUser(t, "u2", "Mehmet", "Demir")
	ctx := context.Background()

	conv, err := f.conversations.GetOrCreate("u1", "u2", nil)
	require.NoError(t, err)
	_, err = f.messages.Send(ctx, conv.ID, "u1", "ben yazdım")
	require.NoError(t, err)

	summaries, err := f.conversations.ListForUser("u1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.NotNil(t, summaries[0].LastMessage)
	assert.Equal(t, "Sen", summaries[0].LastMessage.SenderName)
}
