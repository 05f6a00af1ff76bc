package rerank

import (
	"context"

	"github.com/learnkit/quizrec/core"
	"github.com/learnkit/quizrec/pipeline"
)

// MMR 是多样性重排 Node（Maximal Marginal Relevance）。
//
// 目标：避免结果被单一知识点、单一难度或单一题型占满，同时尽量保留
// 高相关候选。
//
// 算法：输入为融合后的降序序列，目标数量为请求的 Count：
//   - 输入不超过 Count 个时原样返回
//   - 否则贪心构建：先取最高分候选作为种子；之后每轮从剩余池中选
//     RelevanceWeight × 相关分 + DiversityWeight × 多样分 最大的候选，
//     多样分是与已选集合逐一比较的平均值，单对多样性取三个归一化
//     子分的均值：
//       知识点多样性 = 1 - 知识点集合的 Jaccard 相似度
//       难度多样性   = |难度差| / 最大难度跨度
//       题型多样性   = 题型不同为 1，相同为 0
//   - 组合分并列时保留融合序靠前的候选
//
// 每轮是 O(已选 × 剩余)，剩余规模被上游策略的 2×Count 抓取上限约束。
type MMR struct {
	// RelevanceWeight / DiversityWeight 相关性与多样性的权衡系数
	RelevanceWeight float64
	DiversityWeight float64
}

func (n *MMR) Name() string        { return "rerank.mmr" }
func (n *MMR) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *MMR) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	k := 0
	if rctx != nil && rctx.Request != nil {
		k = rctx.Request.Count
	}
	return n.Select(cands, k), nil
}

// Select 在 cands（融合后降序）中选出 min(k, len) 个多样性优化的候选。
func (n *MMR) Select(cands []*core.Candidate, k int) []*core.Candidate {
	if k <= 0 || len(cands) <= k {
		return cands
	}

	relW := n.RelevanceWeight
	divW := n.DiversityWeight
	if relW == 0 && divW == 0 {
		relW, divW = 0.7, 0.3
	}

	selected := make([]*core.Candidate, 0, k)
	remaining := make([]*core.Candidate, len(cands))
	copy(remaining, cands)

	// 种子：最高分候选
	selected = append(selected, remaining[0])
	remaining = remaining[1:]

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := -1
		bestScore := 0.0

		// 按融合序遍历，严格大于才替换 → 并列时自然保留靠前者
		for i, c := range remaining {
			combined := relW*c.Score + divW*diversityScore(c, selected)
			if bestIdx == -1 || combined > bestScore {
				bestIdx = i
				bestScore = combined
			}
		}

		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}

// diversityScore 计算候选与已选集合的平均多样性，位于 [0,1]。
func diversityScore(c *core.Candidate, selected []*core.Candidate) float64 {
	if len(selected) == 0 {
		return 1.0
	}
	sum := 0.0
	for _, s := range selected {
		sum += pairDiversity(c.Question, s.Question)
	}
	return sum / float64(len(selected))
}

// pairDiversity 计算两道题的单对多样性：三个归一化子分的均值。
func pairDiversity(a, b *core.Question) float64 {
	if a == nil || b == nil {
		return 0
	}

	knowledge := 1 - core.KnowledgeOverlap(a, b)

	span := float64(core.MaxDifficulty - core.MinDifficulty)
	diff := float64(a.Difficulty - b.Difficulty)
	if diff < 0 {
		diff = -diff
	}
	difficulty := diff / span

	typ := 0.0
	if a.Type != b.Type {
		typ = 1.0
	}

	return (knowledge + difficulty + typ) / 3.0
}
