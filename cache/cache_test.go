package cache

import (
	"context"
	"testing"
	"time"

	"github.com/learnkit/quizrec/core"
	"github.com/learnkit/quizrec/store"
)

func testCands(n int) []*core.Candidate {
	cands := make([]*core.Candidate, 0, n)
	for i := 0; i < n; i++ {
		qid := string(rune('a' + i))
		cands = append(cands, core.NewCandidate(
			&core.Question{ID: qid, Difficulty: 3},
			0.9-float64(i)*0.1, "test", 0.8, core.StrategyKnowledge,
		))
	}
	return cands
}

func TestCache_PutGet(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()
	c := New(s, time.Hour)

	ctx := context.Background()
	if err := c.Put(ctx, "u1", testCands(3)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok := c.Get(ctx, "u1", 3)
	if !ok {
		t.Fatal("写入后应命中缓存")
	}
	if len(got) != 3 {
		t.Fatalf("应返回 3 个候选，got %d", len(got))
	}
	if got[0].QuestionID != "a" || got[0].Score != 0.9 {
		t.Errorf("缓存应保留原始顺序与分数，got %s score=%v", got[0].QuestionID, got[0].Score)
	}
}

func TestCache_MissWhenCountInsufficient(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()
	c := New(s, time.Hour)

	ctx := context.Background()
	if err := c.Put(ctx, "u1", testCands(3)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// 缓存 3 条可以服务数量 <= 3 的请求
	if _, ok := c.Get(ctx, "u1", 2); !ok {
		t.Error("请求数量小于缓存条目数时应命中")
	}
	// 但不能服务更大的请求
	if _, ok := c.Get(ctx, "u1", 5); ok {
		t.Error("缓存条目数不足时应视为未命中")
	}
}

func TestCache_Expiry(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()
	c := New(s, time.Hour)

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	ctx := context.Background()
	if err := c.Put(ctx, "u1", testCands(2)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	c.now = func() time.Time { return base.Add(59 * time.Minute) }
	if _, ok := c.Get(ctx, "u1", 2); !ok {
		t.Error("未满 1 小时应命中")
	}

	c.now = func() time.Time { return base.Add(time.Hour) }
	if _, ok := c.Get(ctx, "u1", 2); ok {
		t.Error("满 1 小时应视为过期")
	}
}

func TestCache_Invalidate(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()
	c := New(s, time.Hour)

	ctx := context.Background()
	if err := c.Put(ctx, "u1", testCands(2)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := c.Invalidate(ctx, "u1"); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if _, ok := c.Get(ctx, "u1", 1); ok {
		t.Error("失效后不应命中")
	}
}

func TestCache_UsersIsolated(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()
	c := New(s, time.Hour)

	ctx := context.Background()
	if err := c.Put(ctx, "u1", testCands(2)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, ok := c.Get(ctx, "u2", 1); ok {
		t.Error("不同用户的缓存应相互隔离")
	}
}

func TestCache_NilStoreIsNoop(t *testing.T) {
	c := New(nil, time.Hour)
	ctx := context.Background()
	if err := c.Put(ctx, "u1", testCands(1)); err != nil {
		t.Errorf("nil store 的 Put 应为空操作，got %v", err)
	}
	if _, ok := c.Get(ctx, "u1", 1); ok {
		t.Error("nil store 不应命中")
	}
}
