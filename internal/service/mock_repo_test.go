package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/haierkeys/objective-share-service/internal/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errUniqueActive = errors.New("UNIQUE constraint failed: share_link.active_key")

// memShareLinkRepo 内存实现，唯一键语义与数据库一致
type memShareLinkRepo struct {
	domain.ShareLinkRepository
	mu      sync.Mutex
	nextID  int64
	links   map[int64]*domain.ShareLink
	active  map[string]int64
	creates int
	stats   map[int64]int64

	getErr    error
	createErr error
}

func newMemShareLinkRepo() *memShareLinkRepo {
	return &memShareLinkRepo{
		links:  map[int64]*domain.ShareLink{},
		active: map[string]int64{},
		stats:  map[int64]int64{},
	}
}

func cloneLink(l *domain.ShareLink) *domain.ShareLink {
	c := *l
	return &c
}

func (m *memShareLinkRepo) Create(ctx context.Context, link *domain.ShareLink) (*domain.ShareLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.createErr != nil {
		return nil, m.createErr
	}
	key := domain.ActiveKey(link.ResourceID, link.Role)
	if _, ok := m.active[key]; ok {
		return nil, errUniqueActive
	}
	m.nextID++
	c := cloneLink(link)
	c.ID = m.nextID
	m.links[c.ID] = c
	m.active[key] = c.ID
	return cloneLink(c), nil
}

func (m *memShareLinkRepo) GetByToken(ctx context.Context, token string) (*domain.ShareLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, l := range m.links {
		if l.Token == token {
			return cloneLink(l), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memShareLinkRepo) GetActive(ctx context.Context, resourceID string, role domain.Role) (*domain.ShareLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	id, ok := m.active[domain.ActiveKey(resourceID, role)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneLink(m.links[id]), nil
}

func (m *memShareLinkRepo) Revoke(ctx context.Context, link *domain.ShareLink, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.links[link.ID]
	if !ok || l.Revoked {
		return false, nil
	}
	l.Revoked = true
	l.RevokedAt = &at
	key := domain.ActiveKey(l.ResourceID, l.Role)
	if m.active[key] == l.ID {
		delete(m.active, key)
	}
	return true, nil
}

func (m *memShareLinkRepo) RetireExpired(ctx context.Context, resourceID string, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for key, id := range m.active {
		l := m.links[id]
		if resourceID != "" && l.ResourceID != resourceID {
			continue
		}
		if l.IsExpired(now) {
			delete(m.active, key)
			n++
		}
	}
	return n, nil
}

func (m *memShareLinkRepo) ListByResource(ctx context.Context, resourceID string) ([]*domain.ShareLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.ShareLink
	for _, l := range m.links {
		if l.ResourceID == resourceID {
			out = append(out, cloneLink(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memShareLinkRepo) UpdateViewStats(ctx context.Context, id int64, incr int64, lastViewedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats[id] += incr
	if l, ok := m.links[id]; ok {
		l.ViewCount += incr
		t := lastViewedAt
		l.LastViewedAt = &t
	}
	return nil
}

func (m *memShareLinkRepo) activeCount(resourceID string, role domain.Role) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.links {
		if l.ResourceID == resourceID && l.Role == role && !l.Revoked {
			n++
		}
	}
	return n
}

// racingLinkRepo 模拟另一实例在 GetActive 与 Create 之间插入了链接
type racingLinkRepo struct {
	*memShareLinkRepo
	winner *domain.ShareLink
}

func (r *racingLinkRepo) Create(ctx context.Context, link *domain.ShareLink) (*domain.ShareLink, error) {
	if r.winner == nil {
		w := cloneLink(link)
		w.Token = "winner-token-000000000000000000000000000"
		created, err := r.memShareLinkRepo.Create(ctx, w)
		if err != nil {
			return nil, err
		}
		r.winner = created
	}
	return r.memShareLinkRepo.Create(ctx, link)
}

// blockingLinkRepo GetActive 阻塞到 release 关闭或 ctx 结束
type blockingLinkRepo struct {
	*memShareLinkRepo
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingLinkRepo(m *memShareLinkRepo) *blockingLinkRepo {
	return &blockingLinkRepo{memShareLinkRepo: m, entered: make(chan struct{}), release: make(chan struct{})}
}

func (r *blockingLinkRepo) GetActive(ctx context.Context, resourceID string, role domain.Role) (*domain.ShareLink, error) {
	r.once.Do(func() { close(r.entered) })
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-r.release:
	}
	return r.memShareLinkRepo.GetActive(ctx, resourceID, role)
}

type memAccessRepo struct {
	domain.AccessRecordRepository
	mu      sync.Mutex
	records []*domain.AccessRecord
	err     error
}

func (m *memAccessRepo) Append(ctx context.Context, record *domain.AccessRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	c := *record
	c.ID = int64(len(m.records) + 1)
	m.records = append(m.records, &c)
	return nil
}

func (m *memAccessRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

type memInviteRepo struct {
	domain.InviteRepository
	mu      sync.Mutex
	invites map[int64]*domain.Invite
	nextID  int64
}

func newMemInviteRepo() *memInviteRepo {
	return &memInviteRepo{invites: map[int64]*domain.Invite{}}
}

func (m *memInviteRepo) Create(ctx context.Context, invite *domain.Invite) (*domain.Invite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c := *invite
	c.ID = m.nextID
	m.invites[c.ID] = &c
	out := c
	return &out, nil
}

func (m *memInviteRepo) GetByToken(ctx context.Context, token string) (*domain.Invite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invites {
		if inv.Token == token {
			c := *inv
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memInviteRepo) MarkUsed(ctx context.Context, id int64, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invites[id]
	if !ok || inv.UsedAt != nil {
		return false, nil
	}
	inv.UsedAt = &at
	return true, nil
}

func (m *memInviteRepo) ReleaseUsed(ctx context.Context, id int64, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invites[id]
	if !ok || inv.UsedAt == nil || !inv.UsedAt.Equal(at) {
		return false, nil
	}
	inv.UsedAt = nil
	return true, nil
}

func (m *memInviteRepo) ListByResource(ctx context.Context, resourceID string) ([]*domain.Invite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Invite
	for _, inv := range m.invites {
		if inv.ResourceID == resourceID {
			c := *inv
			out = append(out, &c)
		}
	}
	return out, nil
}

type memObjectiveRepo struct {
	domain.ObjectiveRepository
	mu   sync.Mutex
	objs map[string]*domain.Objective
}

func (m *memObjectiveRepo) Create(ctx context.Context, o *domain.Objective) (*domain.Objective, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *o
	m.objs[o.ID] = &c
	out := c
	return &out, nil
}

func (m *memObjectiveRepo) GetByID(ctx context.Context, id string) (*domain.Objective, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *o
	return &c, nil
}

func (m *memObjectiveRepo) Update(ctx context.Context, o *domain.Objective) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objs[o.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	c := *o
	m.objs[o.ID] = &c
	return nil
}

type memCommentRepo struct {
	domain.CommentRepository
	mu       sync.Mutex
	comments []*domain.Comment
	err      error
}

func (m *memCommentRepo) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *memCommentRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.comments)
}

func (m *memCommentRepo) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	cc := *c
	cc.ID = int64(len(m.comments) + 1)
	m.comments = append(m.comments, &cc)
	out := cc
	return &out, nil
}

func (m *memCommentRepo) ListByObjective(ctx context.Context, objectiveID string) ([]*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Comment
	for _, c := range m.comments {
		if c.ObjectiveID == objectiveID {
			out = append(out, c)
		}
	}
	return out, nil
}

// fakeClock 可控时钟
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// sequenceCodec 按顺序生成可预测的 Token
type sequenceCodec struct {
	mu sync.Mutex
	n  int
}

func (c *sequenceCodec) Generate() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return tokenN(c.n), nil
}

func (c *sequenceCodec) EntropyBits() float64 { return 0 }

func tokenN(n int) string {
	const base = "tok00000000000000000000000000000000000000"
	s := []byte(base)
	for i := len(s) - 1; n > 0 && i >= 3; i-- {
		s[i] = byte('0' + n%10)
		n /= 10
	}
	return string(s)
}

// fixture 组装一套使用内存仓储的服务
type fixture struct {
	clock      *fakeClock
	links      *memShareLinkRepo
	access     *memAccessRepo
	invites    *memInviteRepo
	objRepo    *memObjectiveRepo
	comments   *memCommentRepo
	config     *ServiceConfig
	objectives *objectiveService
	linkSvc    *linkService
	redeemSvc  *redemptionService
	inviteSvc  *inviteService
}

func newFixture() *fixture {
	f := &fixture{
		clock:    newFakeClock(),
		links:    newMemShareLinkRepo(),
		access:   &memAccessRepo{},
		invites:  newMemInviteRepo(),
		objRepo:  &memObjectiveRepo{objs: map[string]*domain.Objective{}},
		comments: &memCommentRepo{},
		config: &ServiceConfig{Share: ShareServiceConfig{
			BaseURL:            "https://share.example.com/",
			StatsFlushInterval: time.Hour,
		}},
	}
	lg := zap.NewNop()
	codec := &sequenceCodec{}

	f.objectives = NewObjectiveService(f.objRepo, f.comments, lg).(*objectiveService)
	f.objectives.now = f.clock.Now

	f.linkSvc = NewLinkService(f.links, f.objectives, codec, lg, f.config).(*linkService)
	f.linkSvc.now = f.clock.Now

	f.redeemSvc = NewRedemptionService(f.links, f.access, f.objectives, lg, f.config).(*redemptionService)
	f.redeemSvc.now = f.clock.Now

	f.inviteSvc = NewInviteService(f.invites, f.access, f.objectives, codec, nil, nil, lg, f.config).(*inviteService)
	f.inviteSvc.now = f.clock.Now
	return f
}

func (f *fixture) close() {
	_ = f.redeemSvc.Shutdown(context.Background())
}

func (f *fixture) objective(id string, owner int64) {
	f.objRepo.objs[id] = &domain.Objective{ID: id, OwnerUID: owner, Title: "Ship v1", CreatedAt: f.clock.Now()}
}
