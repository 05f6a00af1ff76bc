package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/learnkit/quizrec/core"
)

// RecommendationCache 是按用户维度的推荐结果缓存。
//
// 语义：
//   - Get 命中的条件是"未过期 且 条目数 >= 本次请求数量"；
//     过短的缓存宁可强制重算，也不静默返回不够数量的结果
//   - Put 为 last-writer-wins
//   - Invalidate 在记录反馈时同步调用，保证下一次请求重算
//
// key 之间相互独立，原子性由底层 Store 保证，不需要跨用户锁。
type RecommendationCache struct {
	store core.Store
	ttl   time.Duration

	// now 可注入的时钟，便于测试过期逻辑
	now func() time.Time
}

// entry 是缓存条目的序列化载体。
type entry struct {
	Candidates []*core.Candidate `json:"candidates"`
	CreatedAt  time.Time         `json:"created_at"`
}

// New 创建一个推荐结果缓存。ttl <= 0 时使用 1 小时。
func New(store core.Store, ttl time.Duration) *RecommendationCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RecommendationCache{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

func cacheKey(userID string) string {
	return "rec:result:" + userID
}

// Get 读取用户的缓存结果；未命中（不存在/已过期/数量不足）返回 (nil, false)。
func (c *RecommendationCache) Get(ctx context.Context, userID string, minCount int) ([]*core.Candidate, bool) {
	if c.store == nil || userID == "" {
		return nil, false
	}

	data, err := c.store.Get(ctx, cacheKey(userID))
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}

	// Store 的 TTL 之外再做一次显式检查，内存实现和 Redis 行为一致
	if c.now().Sub(e.CreatedAt) >= c.ttl {
		return nil, false
	}
	if len(e.Candidates) < minCount {
		return nil, false
	}
	return e.Candidates, true
}

// Put 写入用户的缓存结果（覆盖旧值）。
func (c *RecommendationCache) Put(ctx context.Context, userID string, cands []*core.Candidate) error {
	if c.store == nil || userID == "" || len(cands) == 0 {
		return nil
	}

	data, err := json.Marshal(entry{
		Candidates: cands,
		CreatedAt:  c.now(),
	})
	if err != nil {
		return err
	}
	return c.store.Set(ctx, cacheKey(userID), data, int(c.ttl/time.Second))
}

// Invalidate 立刻失效用户的缓存结果。
func (c *RecommendationCache) Invalidate(ctx context.Context, userID string) error {
	if c.store == nil || userID == "" {
		return nil
	}
	return c.store.Delete(ctx, cacheKey(userID))
}
