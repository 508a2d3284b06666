package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/haierkeys/objective-share-service/internal/dao"
	"github.com/haierkeys/objective-share-service/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newLocalStore(t *testing.T) (*LocalShareLinkStore, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	repo := dao.NewLocalCapabilityRepository(filepath.Join(t.TempDir(), "local", "shares.json"))
	return NewLocalShareLinkStore(repo, &sequenceCodec{}, zap.New(core)), logs
}

// acceptedSubsetOfSlots Accepted 中的 Token 只能是当前槽位的值
func acceptedSubsetOfSlots(rec *domain.LocalCapability) bool {
	if rec == nil {
		return true
	}
	for _, tok := range rec.Accepted {
		if (rec.Viewer == nil || *rec.Viewer != tok) && (rec.Editor == nil || *rec.Editor != tok) {
			return false
		}
	}
	return true
}

func TestLocalShareLinkStore(t *testing.T) {
	store, logs := newLocalStore(t)
	ctx := context.Background()
	assert.False(t, store.Authoritative())

	viewer, err := store.GetOrCreateToken(ctx, "obj-1", domain.RoleViewer)
	require.NoError(t, err)
	again, err := store.GetOrCreateToken(ctx, "obj-1", domain.RoleViewer)
	require.NoError(t, err)
	assert.Equal(t, viewer, again)

	editor, err := store.GetOrCreateToken(ctx, "obj-1", domain.RoleEditor)
	require.NoError(t, err)
	assert.NotEqual(t, viewer, editor)

	// 角色不匹配时不做修改
	ok, err := store.AcceptShare(ctx, viewer, domain.RoleEditor, "obj-1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.AcceptShare(ctx, viewer, domain.RoleViewer, "obj-1")
	require.NoError(t, err)
	assert.True(t, ok)

	rec, err := store.Show(ctx, "obj-1")
	require.NoError(t, err)
	assert.Equal(t, []string{viewer}, rec.Accepted)

	require.NoError(t, store.RevokeShare(ctx, "obj-1", viewer))
	rec, err = store.Show(ctx, "obj-1")
	require.NoError(t, err)
	assert.Nil(t, rec.Viewer)
	require.NotNil(t, rec.Editor)
	assert.Equal(t, editor, *rec.Editor)
	assert.Empty(t, rec.Accepted)

	ok, err = store.AcceptShare(ctx, viewer, domain.RoleViewer, "obj-1")
	require.NoError(t, err)
	assert.False(t, ok)

	// 未知资源撤销不报错
	require.NoError(t, store.RevokeShare(ctx, "obj-9", viewer))

	assert.NotZero(t, logs.FilterMessage("local capability store is not an access-control boundary").Len())
}

func TestLocalShareLinkStore_AcceptedSubsetProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	properties.Property("accepted tokens always equal a current role slot", prop.ForAll(
		func(ops []int) bool {
			store, _ := newLocalStore(t)
			ctx := context.Background()
			var issued []string

			for _, op := range ops {
				role := domain.RoleViewer
				if op%2 == 1 {
					role = domain.RoleEditor
				}
				switch op % 3 {
				case 0:
					tok, err := store.GetOrCreateToken(ctx, "obj-1", role)
					if err != nil {
						return false
					}
					issued = append(issued, tok)
				case 1:
					if len(issued) > 0 {
						if _, err := store.AcceptShare(ctx, issued[op%len(issued)], role, "obj-1"); err != nil {
							return false
						}
					}
				case 2:
					if len(issued) > 0 {
						if err := store.RevokeShare(ctx, "obj-1", issued[op%len(issued)]); err != nil {
							return false
						}
					}
				}
			}
			rec, err := store.Show(ctx, "obj-1")
			return err == nil && acceptedSubsetOfSlots(rec)
		},
		gen.SliceOf(gen.IntRange(0, 11)),
	))

	properties.TestingRun(t)
}

func TestRemoteShareLinkStore(t *testing.T) {
	f := newFixture()
	defer f.close()
	f.objective("obj-1", 1)
	f.objective("obj-2", 1)
	ctx := context.Background()

	store := NewRemoteShareLinkStore(f.linkSvc, f.redeemSvc, 1)
	assert.True(t, store.Authoritative())

	tok, err := store.GetOrCreateToken(ctx, "obj-1", domain.RoleEditor)
	require.NoError(t, err)
	again, err := store.GetOrCreateToken(ctx, "obj-1", domain.RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, tok, again)

	ok, err := store.AcceptShare(ctx, tok, domain.RoleEditor, "obj-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.AcceptShare(ctx, tok, domain.RoleViewer, "obj-1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.AcceptShare(ctx, tok, domain.RoleEditor, "obj-2")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, store.RevokeShare(ctx, "obj-2", tok), domain.ErrLinkNotFound)
	require.NoError(t, store.RevokeShare(ctx, "obj-1", tok))

	ok, err = store.AcceptShare(ctx, tok, domain.RoleEditor, "obj-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
