package pipeline

import (
	"context"

	"github.com/learnkit/quizrec/core"
)

// Pipeline 把推荐逻辑拆成可组合的 Node 链：
// 召回 fan-out → 融合 → 多样性重排 → 业务过滤。
// 任一 Node 出错即中断并向上返回，由编排层决定是否降级。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	cur := cands
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
