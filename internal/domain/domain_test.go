package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Editor ")
	require.NoError(t, err)
	assert.Equal(t, RoleEditor, r)

	_, err = ParseRole("owner")
	assert.True(t, errors.Is(err, ErrInvalidRole))
}

func TestRoleAllows(t *testing.T) {
	tests := []struct {
		role   Role
		action Action
		want   bool
	}{
		{RoleViewer, ActionView, true},
		{RoleViewer, ActionComment, true},
		{RoleViewer, ActionEdit, false},
		{RoleEditor, ActionView, true},
		{RoleEditor, ActionComment, true},
		{RoleEditor, ActionEdit, true},
		{Role("owner"), ActionView, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Allows(tt.action))
		})
	}
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("")
	require.NoError(t, err)
	assert.Equal(t, ActionComment, a)

	_, err = ParseAction("delete")
	assert.True(t, errors.Is(err, ErrInvalidAction))
}

func TestShareLinkCheckOrder(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	var missing *ShareLink
	assert.Equal(t, ErrLinkNotFound, missing.Check(now))

	// 已撤销且已过期时 Revoked 优先
	assert.Equal(t, ErrLinkRevoked, (&ShareLink{Revoked: true, ExpiresAt: &past}).Check(now))
	assert.Equal(t, ErrLinkExpired, (&ShareLink{ExpiresAt: &past}).Check(now))
	assert.Equal(t, ErrLinkExpired, (&ShareLink{ExpiresAt: &now}).Check(now))
	assert.NoError(t, (&ShareLink{ExpiresAt: &future}).Check(now))
	assert.NoError(t, (&ShareLink{}).Check(now))
}

func TestErrors(t *testing.T) {
	assert.True(t, errors.Is(ErrInviteUsed, ErrInvalidToken))
	assert.True(t, IsGuestRejection(ErrLinkRevoked))
	assert.False(t, IsGuestRejection(ErrRoleMismatch))

	se := NewStorageError("share_link.create", errors.New("disk full"))
	assert.True(t, IsStorageError(se))
	assert.True(t, IsStorageError(errors.Join(errors.New("x"), se)))
	assert.Nil(t, NewStorageError("noop", nil))
	assert.Contains(t, se.Error(), "share_link.create")
}

func TestLocalCapabilitySlot(t *testing.T) {
	c := &LocalCapability{}
	tok := "abc"
	*c.Slot(RoleEditor) = &tok
	assert.Equal(t, "abc", *c.Editor)
	assert.Nil(t, c.Viewer)

	c.Accepted = []string{"abc"}
	assert.True(t, c.IsAccepted("abc"))
	assert.False(t, c.IsAccepted("zzz"))
}

func TestGuestActionValidate(t *testing.T) {
	title := "new"
	blank := "  "
	tests := []struct {
		name   string
		action GuestAction
		want   error
	}{
		{"view", GuestAction{Action: ActionView}, nil},
		{"comment", GuestAction{Action: ActionComment, Body: "hi"}, nil},
		{"empty comment", GuestAction{Action: ActionComment, Body: " \n"}, ErrEmptyComment},
		{"edit title", GuestAction{Action: ActionEdit, Title: &title}, nil},
		{"edit nothing", GuestAction{Action: ActionEdit}, ErrEmptyEdit},
		{"edit blank title", GuestAction{Action: ActionEdit, Title: &blank}, ErrInvalidTitle},
		{"unknown", GuestAction{Action: "delete"}, ErrInvalidAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.action.Validate(), tt.want)
		})
	}
}
