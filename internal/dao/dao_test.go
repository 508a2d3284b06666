package dao

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/objective-share-service/internal/domain"
	"github.com/haierkeys/objective-share-service/pkg/writequeue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func newTestDao(t *testing.T) *Dao {
	t.Helper()
	db, err := NewDBEngineWithConfig(DatabaseConfig{
		Type:        "sqlite",
		Path:        filepath.Join(t.TempDir(), "data", "share.db"),
		AutoMigrate: true,
	}, nil)
	require.NoError(t, err)

	wq := writequeue.New(nil, nil)
	t.Cleanup(func() {
		_ = wq.Shutdown(context.Background())
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return New(db, wq, nil)
}

func TestShareLinkRepository_ActiveKeyUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewShareLinkRepository(newTestDao(t))

	first, err := repo.Create(ctx, &domain.ShareLink{ResourceID: "obj-1", Role: domain.RoleViewer, Token: "tok-1", CreatedBy: 1})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	// 同一对再插入一个有效链接必须失败
	_, err = repo.Create(ctx, &domain.ShareLink{ResourceID: "obj-1", Role: domain.RoleViewer, Token: "tok-2"})
	assert.Error(t, err)

	// 不同角色互不影响
	_, err = repo.Create(ctx, &domain.ShareLink{ResourceID: "obj-1", Role: domain.RoleEditor, Token: "tok-3"})
	require.NoError(t, err)

	active, err := repo.GetActive(ctx, "obj-1", domain.RoleViewer)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", active.Token)

	// 撤销后释放唯一键
	changed, err := repo.Revoke(ctx, first, time.Now())
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.Revoke(ctx, first, time.Now())
	require.NoError(t, err)
	assert.False(t, changed, "second revoke is a no-op")

	_, err = repo.GetActive(ctx, "obj-1", domain.RoleViewer)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	second, err := repo.Create(ctx, &domain.ShareLink{ResourceID: "obj-1", Role: domain.RoleViewer, Token: "tok-4"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	revoked, err := repo.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked.Revoked)
	assert.NotNil(t, revoked.RevokedAt)

	links, err := repo.ListByResource(ctx, "obj-1")
	require.NoError(t, err)
	assert.Len(t, links, 3, "revoked links are kept for audit")
}

func TestShareLinkRepository_ConcurrentCreateSingleWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewShareLinkRepository(newTestDao(t))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(ctx, &domain.ShareLink{
				ResourceID: "obj-race",
				Role:       domain.RoleEditor,
				Token:      "race-" + string(rune('a'+i)),
			})
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, success)
}

func TestShareLinkRepository_RetireExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewShareLinkRepository(newTestDao(t))

	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	_, err := repo.Create(ctx, &domain.ShareLink{ResourceID: "a", Role: domain.RoleViewer, Token: "t-a", ExpiresAt: &past})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.ShareLink{ResourceID: "b", Role: domain.RoleViewer, Token: "t-b", ExpiresAt: &future})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.ShareLink{ResourceID: "c", Role: domain.RoleViewer, Token: "t-c"})
	require.NoError(t, err)

	n, err := repo.RetireExpired(ctx, "", now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetActive(ctx, "a", domain.RoleViewer)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	_, err = repo.GetActive(ctx, "b", domain.RoleViewer)
	assert.NoError(t, err)

	// 过期链接保留，不视为撤销
	expired, err := repo.GetByToken(ctx, "t-a")
	require.NoError(t, err)
	assert.False(t, expired.Revoked)
	assert.True(t, expired.IsExpired(now))
}

func TestShareLinkRepository_ViewStats(t *testing.T) {
	ctx := context.Background()
	repo := NewShareLinkRepository(newTestDao(t))

	link, err := repo.Create(ctx, &domain.ShareLink{ResourceID: "obj", Role: domain.RoleViewer, Token: "t"})
	require.NoError(t, err)

	at := time.UnixMilli(time.Now().UnixMilli())
	require.NoError(t, repo.UpdateViewStats(ctx, link.ID, 3, at))
	require.NoError(t, repo.UpdateViewStats(ctx, link.ID, 2, at))

	got, err := repo.GetByToken(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ViewCount)
	require.NotNil(t, got.LastViewedAt)
	assert.True(t, at.Equal(*got.LastViewedAt))
}

func TestInviteRepository_MarkUsedOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewInviteRepository(newTestDao(t))

	inv, err := repo.Create(ctx, &domain.Invite{
		ResourceID: "obj",
		Email:      "guest@example.com",
		Role:       domain.RoleViewer,
		Token:      "inv-1",
		SingleUse:  true,
		ExpiresAt:  time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Nil(t, inv.UsedAt)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		claim int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.MarkUsed(ctx, inv.ID, time.Now())
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				claim++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, claim)

	got, err := repo.GetByToken(ctx, "inv-1")
	require.NoError(t, err)
	assert.NotNil(t, got.UsedAt)
	assert.True(t, got.SingleUse)
	require.NotNil(t, got.UsedAt)

	// 只撤回 used_at 匹配的标记
	released, err := repo.ReleaseUsed(ctx, inv.ID, time.UnixMilli(1))
	require.NoError(t, err)
	assert.False(t, released)

	released, err = repo.ReleaseUsed(ctx, inv.ID, *got.UsedAt)
	require.NoError(t, err)
	assert.True(t, released)

	got, err = repo.GetByToken(ctx, "inv-1")
	require.NoError(t, err)
	assert.Nil(t, got.UsedAt)

	reclaimed, err := repo.MarkUsed(ctx, inv.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, reclaimed)

	_, err = repo.GetByToken(ctx, "missing")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestAccessRecordRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAccessRecordRepository(newTestDao(t))

	linkID := int64(7)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Append(ctx, &domain.AccessRecord{LinkID: &linkID, Action: domain.ActionView, IP: "127.0.0.1"}))
	}
	n, err := repo.CountByLink(ctx, linkID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	records, err := repo.ListByLink(ctx, linkID, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Nil(t, records[0].Email)
}

func TestObjectiveAndCommentRepository(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t)
	objectives := NewObjectiveRepository(d)
	comments := NewCommentRepository(d)

	o, err := objectives.Create(ctx, &domain.Objective{ID: "obj-1", OwnerUID: 1, Title: "Grow"})
	require.NoError(t, err)
	assert.False(t, o.CreatedAt.IsZero())

	o.Title = "Grow faster"
	require.NoError(t, objectives.Update(ctx, o))
	got, err := objectives.GetByID(ctx, "obj-1")
	require.NoError(t, err)
	assert.Equal(t, "Grow faster", got.Title)

	assert.True(t, errors.Is(objectives.Update(ctx, &domain.Objective{ID: "nope"}), gorm.ErrRecordNotFound))

	list, err := objectives.ListByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = comments.Create(ctx, &domain.Comment{ObjectiveID: "obj-1", Author: "a@example.com (guest)", Body: "first"})
	require.NoError(t, err)
	_, err = comments.Create(ctx, &domain.Comment{ObjectiveID: "obj-1", Author: "owner", Body: "second"})
	require.NoError(t, err)

	cs, err := comments.ListByObjective(ctx, "obj-1")
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, "first", cs[0].Body)
}

func TestLocalCapabilityRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewLocalCapabilityRepository(filepath.Join(t.TempDir(), "local", "shares.json"))

	records, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	tok := "abc"
	records["obj-1"] = &domain.LocalCapability{Viewer: &tok, Accepted: []string{"abc"}}
	require.NoError(t, repo.Save(ctx, records))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Contains(t, loaded, "obj-1")
	assert.Equal(t, "abc", *loaded["obj-1"].Viewer)
	assert.Nil(t, loaded["obj-1"].Editor)
	assert.Equal(t, []string{"abc"}, loaded["obj-1"].Accepted)
}

func TestNewDBEngine_UnsupportedType(t *testing.T) {
	_, err := NewDBEngineWithConfig(DatabaseConfig{Type: "oracle"}, nil)
	assert.Error(t, err)
}

func TestRegisterTracing_LogsFailure(t *testing.T) {
	d := newTestDao(t)
	core, logs := observer.New(zap.WarnLevel)

	// NewDBEngineWithConfig 已注册过一次，再次注册返回 gorm.ErrRegistered
	registerTracing(d.db, zap.New(core))

	entries := logs.FilterMessage("register gorm tracing plugin failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, gorm.ErrRegistered.Error(), entries[0].ContextMap()["error"])

	assert.NotPanics(t, func() { registerTracing(d.db, nil) })
}
