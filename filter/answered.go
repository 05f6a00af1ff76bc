package filter

import (
	"context"

	"github.com/learnkit/quizrec/core"
)

// Answered 是已作答过滤器：请求要求剔除已答题目时，把用户作答历史
// 覆盖的题目从结果中移除。
//
// 作答历史在单次请求内只加载一次（惰性），避免对每个候选都查一遍网关。
type Answered struct {
	Gateway core.QuestionGateway

	loaded   bool
	answered map[string]struct{}
}

// NewAnswered 创建一个已作答过滤器。每次请求应使用新实例，
// 历史快照不跨请求复用。
func NewAnswered(gateway core.QuestionGateway) *Answered {
	return &Answered{Gateway: gateway}
}

func (f *Answered) Name() string { return "filter.answered" }

func (f *Answered) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	cand *core.Candidate,
) (bool, error) {
	if cand == nil || rctx == nil || rctx.Request == nil || !rctx.Request.ExcludeAnswered {
		return false, nil
	}
	if f.Gateway == nil {
		return false, nil
	}

	if !f.loaded {
		history, err := f.Gateway.GetAnswerHistory(ctx, rctx.Request.UserID)
		if err != nil {
			return false, err
		}
		f.answered = make(map[string]struct{}, len(history))
		for _, rec := range history {
			f.answered[rec.QuestionID] = struct{}{}
		}
		f.loaded = true
	}

	_, ok := f.answered[cand.QuestionID]
	return ok, nil
}
