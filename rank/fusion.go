package rank

import (
	"context"
	"sort"

	"github.com/learnkit/quizrec/core"
	"github.com/learnkit/quizrec/pipeline"
	"github.com/learnkit/quizrec/pkg/utils"
)

// Fusion 是融合 Node：把各策略的候选合并成一个去重的降序序列。
//
// 规则：
//  1. 按题目 ID 分组
//  2. 重复时保留分数最高的候选，其余丢弃；分数完全相同保留先出现的
//     （输入顺序由 fan-out 按策略声明顺序固定，因此结果确定）
//  3. 按分数降序排序（稳定排序，同分保持融合前的相对顺序）
//
// 被取代的候选不会被修改，只是不再进入后续链路。
type Fusion struct{}

func (n *Fusion) Name() string        { return "rank.fusion" }
func (n *Fusion) Kind() pipeline.Kind { return pipeline.KindFusion }

func (n *Fusion) Process(
	_ context.Context,
	_ *core.RecommendContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(cands) == 0 {
		return nil, nil
	}

	seen := make(map[string]int, len(cands)) // question_id -> 下标
	out := make([]*core.Candidate, 0, len(cands))

	for _, c := range cands {
		if c == nil {
			continue
		}
		idx, ok := seen[c.QuestionID]
		if !ok {
			seen[c.QuestionID] = len(out)
			out = append(out, c)
			continue
		}
		kept := out[idx]
		if c.Score > kept.Score {
			// 记录被取代的来源，便于解释"这道题为什么是这个分数"
			c.PutLabel("superseded", utils.Label{Value: kept.Strategy, Source: "fusion"})
			out[idx] = c
		} else {
			kept.PutLabel("superseded", utils.Label{Value: c.Strategy, Source: "fusion"})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}
