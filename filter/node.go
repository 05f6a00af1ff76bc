package filter

import (
	"context"

	"github.com/learnkit/quizrec/core"
	"github.com/learnkit/quizrec/pipeline"
	"github.com/learnkit/quizrec/pkg/utils"
)

// Node 是过滤 Node，组合多个过滤器依次检查。
// 任何一个过滤器命中，候选即被剔除。过滤发生在多样性重排之后，
// 结果可能少于请求数量——这是合法的、可感知的结果，不做回填。
type Node struct {
	Filters []Filter
}

func (n *Node) Name() string        { return "filter.node" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Filters) == 0 || len(cands) == 0 {
		return cands, nil
	}

	out := make([]*core.Candidate, 0, len(cands))
	for _, cand := range cands {
		if cand == nil {
			continue
		}

		filtered := false
		reason := ""
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, cand)
			if err != nil {
				// 过滤器错误时保守放行，不中断流程
				continue
			}
			if ok {
				filtered = true
				reason = f.Name()
				break
			}
		}

		if filtered {
			cand.PutLabel("filtered", utils.Label{Value: "true", Source: reason})
			continue
		}
		out = append(out, cand)
	}
	return out, nil
}
