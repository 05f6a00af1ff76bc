package strategy

import (
	"context"
	"sort"

	"github.com/learnkit/quizrec/core"
)

// Strategy 表示一个独立的打分策略（协同/内容/知识缺口/偏好）。
// 你可以把它理解为"可并发 fan-out 的策略单元"：
//   - 纯函数形态：(请求, 画像) → 候选列表
//   - 无信号时返回空列表而不是错误（新用户没有历史不算失败）
//   - 内部失败返回 error，由 fan-out 吞掉并记为零候选
type Strategy interface {
	Name() string
	Recommend(ctx context.Context, rctx *core.RecommendContext) ([]*core.Candidate, error)
}

// sortCandidates 按分数降序排序，分数相同按题目 ID 升序，保证确定性。
func sortCandidates(cands []*core.Candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		return cands[i].QuestionID < cands[j].QuestionID
	})
}

// capCandidates 截断到 limit（<=0 表示不截断）。
func capCandidates(cands []*core.Candidate, limit int) []*core.Candidate {
	if limit > 0 && len(cands) > limit {
		return cands[:limit]
	}
	return cands
}
