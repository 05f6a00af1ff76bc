package filter

import (
	"context"

	"github.com/learnkit/quizrec/core"
)

// Exposure 是过曝过滤器：同一道题对同一个用户的累计曝光达到上限后
// 不再出现在结果里，避免推荐被反复出现的题目占据。
//
// 曝光计数由编排层在每次返回结果后写入：按用户维度的 zset，
// member 为题目 ID，score 为累计曝光次数。计数不存在视为零曝光。
type Exposure struct {
	Store core.KeyValueStore

	// Limit 单题曝光上限（<= 0 时不过滤）
	Limit int

	// KeyPrefix 计数 zset 的 key 前缀，默认 "rec:exposure:"
	KeyPrefix string
}

func (f *Exposure) Name() string { return "filter.exposure" }

func (f *Exposure) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	cand *core.Candidate,
) (bool, error) {
	if f.Store == nil || f.Limit <= 0 || cand == nil || rctx == nil || rctx.Request == nil {
		return false, nil
	}

	prefix := f.KeyPrefix
	if prefix == "" {
		prefix = "rec:exposure:"
	}

	cnt, err := f.Store.ZScore(ctx, prefix+rctx.Request.UserID, cand.QuestionID)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return cnt >= float64(f.Limit), nil
}
