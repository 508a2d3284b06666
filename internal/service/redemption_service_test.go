package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/haierkeys/objective-share-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var visitor = domain.Visitor{IP: "203.0.113.7", UserAgent: "test-agent"}

func TestResolve_CheckOrder(t *testing.T) {
	f := newFixture()
	defer f.close()
	f.objective("obj-1", 1)
	f.config.Share.LinkExpiry = time.Hour
	ctx := context.Background()

	link, _, err := f.linkSvc.GetOrCreateLink(ctx, 1, "obj-1", domain.RoleViewer)
	require.NoError(t, err)

	got, err := f.redeemSvc.Resolve(ctx, link.Token, visitor)
	require.NoError(t, err)
	assert.Equal(t, link.ID, got.ID)
	assert.Equal(t, domain.RoleViewer, got.Role)

	_, err = f.redeemSvc.Resolve(ctx, "nonexistent-token", visitor)
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
	assert.True(t, domain.IsGuestRejection(err))
	assert.False(t, domain.IsStorageError(err))

	f.clock.Advance(2 * time.Hour)
	_, err = f.redeemSvc.Resolve(ctx, link.Token, visitor)
	assert.ErrorIs(t, err, domain.ErrLinkExpired)

	// 已撤销且已过期时 Revoked 优先
	_, err = f.linkSvc.Revoke(ctx, link.Token)
	require.NoError(t, err)
	_, err = f.redeemSvc.Resolve(ctx, link.Token, visitor)
	assert.ErrorIs(t, err, domain.ErrLinkRevoked)
}

func TestResolve_ExpiresExactlyAtExpiresAt(t *testing.T) {
	f := newFixture()
	defer f.close()
	f.objective("obj-1", 1)
	f.config.Share.LinkExpiry = time.Minute
	ctx := context.Background()

	link, _, err := f.linkSvc.GetOrCreateLink(ctx, 1, "obj-1", domain.RoleViewer)
	require.NoError(t, err)

	f.clock.Advance(time.Minute - time.Millisecond)
	_, err = f.redeemSvc.Resolve(ctx, link.Token, visitor)
	require.NoError(t, err)

	f.clock.Advance(time.Millisecond)
	_, err = f.redeemSvc.Resolve(ctx, link.Token, visitor)
	assert.ErrorIs(t, err, domain.ErrLinkExpired)
}

func TestResolve_AppendsAccessRecord(t *testing.T) {
	f := newFixture()
	defer f.close()
	f.objective("obj-1", 1)
	ctx := context.Background()

	link, _, err := f.linkSvc.GetOrCreateLink(ctx, 1, "obj-1", domain.RoleViewer)
	require.NoError(t, err)

	_, err = f.redeemSvc.Resolve(ctx, link.Token, visitor)
	require.NoError(t, err)
	require.Equal(t, 1, f.access.count())

	rec := f.access.records[0]
	require.NotNil(t, rec.LinkID)
	assert.Equal(t, link.ID, *rec.LinkID)
	assert.Equal(t, visitor.IP, rec.IP)
	assert.Equal(t, visitor.UserAgent, rec.UserAgent)
	assert.Equal(t, domain.ActionView, rec.Action)

	// 拒绝的访问不写记录
	_, _ = f.redeemSvc.Resolve(ctx, "nonexistent-token", visitor)
	assert.Equal(t, 1, f.access.count())
}

func TestResolve_MissingResourceIsNotRecorded(t *testing.T) {
	f := newFixture()
	defer f.close()
	f.objective("obj-1", 1)
	ctx := context.Background()

	link, _, err := f.linkSvc.GetOrCreateLink(ctx, 1, "obj-1", domain.RoleEditor)
	require.NoError(t, err)

	delete(f.objRepo.objs, "obj-1")
	_, err = f.redeemSvc.Resolve(ctx, link.Token, visitor)
	assert.ErrorIs(t, err, domain.ErrResourceNotFound)
	_, err = f.redeemSvc.Authorize(ctx, link.Token, domain.ActionComment, visitor)
	assert.ErrorIs(t, err, domain.ErrResourceNotFound)
	assert.Equal(t, 0, f.access.count())
}

func TestResolve_FailsClosedOnAuditFailure(t *testing.T) {
	f := newFixture()
	defer f.close()
	f.objective("obj-1", 1)
	ctx := context.Background()

	link, _, err := f.linkSvc.GetOrCreateLink(ctx, 1, "obj-1", domain.RoleViewer)
	require.NoError(t, err)

	f.access.err = errors.New("database is locked")
	_, err = f.redeemSvc.Resolve(ctx, link.Token, visitor)
	require.Error(t, err)
	assert.True(t, domain.IsStorageError(err))
	assert.False(t, domain.IsGuestRejection(err))
}

func TestResolve_StorageErrorIsNotRejection(t *testing.T) {
	f := newFixture()
	defer f.close()
	f.links.getErr = errors.New("connection refused")

	_, err := f.redeemSvc.Resolve(context.Background(), "any-token", visitor)
	require.Error(t, err)
	assert.True(t, domain.IsStorageError(err))
	assert.False(t, domain.IsGuestRejection(err))
}

func TestAuthorize(t *testing.T) {
	f := newFixture()
	defer f.close()
	f.objective("obj-1", 1)
	ctx := context.Background()

	viewer, _, err := f.linkSvc.GetOrCreateLink(ctx, 1, "obj-1", domain.RoleViewer)
	require.NoError(t, err)
	editor, _, err := f.linkSvc.GetOrCreateLink(ctx, 1, "obj-1", domain.RoleEditor)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		action domain.Action
		want   error
	}{
		{"viewer view", viewer.Token, domain.ActionView, nil},
		{"viewer comment", viewer.Token, domain.ActionComment, nil},
		{"viewer edit", viewer.Token, domain.ActionEdit, domain.ErrRoleMismatch},
		{"editor edit", editor.Token, domain.ActionEdit, nil},
		{"unknown token", "nope", domain.ActionComment, domain.ErrLinkNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.redeemSvc.Authorize(ctx, tt.token, tt.action, visitor)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthorize_RevocationBetweenLoadAndWrite(t *testing.T) {
	f := newFixture()
	defer f.close()
	f.objective("obj-1", 1)
	ctx := context.Background()

	link, _, err := f.linkSvc.GetOrCreateLink(ctx, 1, "obj-1", domain.RoleEditor)
	require.NoError(t, err)

	// 访客加载页面
	_, err = f.redeemSvc.Resolve(ctx, link.Token, visitor)
	require.NoError(t, err)

	// owner 在访客提交前撤销
	_, err = f.linkSvc.Revoke(ctx, link.Token)
	require.NoError(t, err)

	_, err = f.redeemSvc.Authorize(ctx, link.Token, domain.ActionComment, visitor)
	assert.ErrorIs(t, err, domain.ErrLinkRevoked)
}

func TestRecordView_FlushOnShutdown(t *testing.T) {
	f := newFixture()
	f.objective("obj-1", 1)
	ctx := context.Background()

	link, _, err := f.linkSvc.GetOrCreateLink(ctx, 1, "obj-1", domain.RoleViewer)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := f.redeemSvc.Resolve(ctx, link.Token, visitor)
		require.NoError(t, err)
	}
	assert.Zero(t, f.links.stats[link.ID], "stats are buffered until flush")

	require.NoError(t, f.redeemSvc.Shutdown(ctx))
	assert.Equal(t, int64(3), f.links.stats[link.ID])

	// 重复 Shutdown 安全
	require.NoError(t, f.redeemSvc.Shutdown(ctx))
}
