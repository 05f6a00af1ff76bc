package rerank

import (
	"context"

	"github.com/learnkit/quizrec/core"
	"github.com/learnkit/quizrec/pipeline"
)

// TopN 是截断 Node，保留序列前 N 个候选。
// 通常放在过滤之后，把最终结果收敛到请求数量。
// N <= 0 时按请求的 Count 截断。
type TopN struct {
	N int
}

func (n *TopN) Name() string        { return "rerank.topn" }
func (n *TopN) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopN) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	limit := n.N
	if limit <= 0 && rctx != nil && rctx.Request != nil {
		limit = rctx.Request.Count
	}
	if limit <= 0 || len(cands) <= limit {
		return cands, nil
	}
	return cands[:limit], nil
}
