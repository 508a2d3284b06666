package service

import (
	"context"
	"testing"

	"github.com/haierkeys/objective-share-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectiveService_CreateAndOwnership(t *testing.T) {
	f := newFixture()
	defer f.close()
	ctx := context.Background()

	_, err := f.objectives.Create(ctx, 1, "  ", "")
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)

	o, err := f.objectives.Create(ctx, 1, " Launch ", "q3")
	require.NoError(t, err)
	assert.Equal(t, "Launch", o.Title)
	assert.Len(t, o.ID, 36)

	got, err := f.objectives.GetOwned(ctx, 1, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	_, err = f.objectives.GetOwned(ctx, 2, o.ID)
	assert.ErrorIs(t, err, domain.ErrResourceNotFound)

	assert.NoError(t, f.objectives.Exists(ctx, o.ID))
	assert.ErrorIs(t, f.objectives.Exists(ctx, "missing"), domain.ErrResourceNotFound)
}

func TestObjectiveService_ApplyGuestAction(t *testing.T) {
	f := newFixture()
	defer f.close()
	f.objective("obj-1", 1)
	ctx := context.Background()

	linkID := int64(7)
	res, err := f.objectives.ApplyGuestAction(ctx, "obj-1", domain.GuestAction{
		Action: domain.ActionComment,
		Author: "guest",
		Body:   " nice ",
		LinkID: &linkID,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Comment)
	assert.Equal(t, "nice", res.Comment.Body)

	comments, err := f.objectives.ListComments(ctx, "obj-1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, linkID, *comments[0].LinkID)

	title := "Ship v2"
	res, err = f.objectives.ApplyGuestAction(ctx, "obj-1", domain.GuestAction{Action: domain.ActionEdit, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Ship v2", res.Objective.Title)

	stored, err := f.objectives.Get(ctx, "obj-1")
	require.NoError(t, err)
	assert.Equal(t, "Ship v2", stored.Title)

	_, err = f.objectives.ApplyGuestAction(ctx, "obj-9", domain.GuestAction{Action: domain.ActionView})
	assert.ErrorIs(t, err, domain.ErrResourceNotFound)
}
