package strategy

import (
	"context"

	"github.com/learnkit/quizrec/core"
)

// Content 是内容特征相似策略。
//
// 核心思想："用户做过并掌握的题目，其内容特征刻画了他的偏好"
//
// 流程：
//  1. 读取作答历史；没有历史直接返回空（新用户无信号，不算失败）
//  2. 用答对题目的内容特征聚合出用户偏好向量
//  3. 通过相似度服务找特征最近的题目，按 相似度 × 内容权重 打分
type Content struct {
	Gateway    core.QuestionGateway
	Similarity core.SimilarityService

	// Weight 内容策略的融合权重
	Weight float64
}

func (s *Content) Name() string { return core.StrategyContent }

func (s *Content) Recommend(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if s.Gateway == nil || s.Similarity == nil || rctx == nil {
		return nil, nil
	}
	req := rctx.Request

	history, err := s.Gateway.GetAnswerHistory(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, nil
	}

	prefs := s.extractPreferredFeatures(ctx, history)
	if len(prefs) == 0 {
		return nil, nil
	}

	sims, err := s.Similarity.FindSimilarQuestions(ctx, prefs, core.QuestionFilter{
		Subjects: req.SubjectFilter,
		Limit:    req.FetchLimit(),
	})
	if err != nil {
		return nil, err
	}

	cands := make([]*core.Candidate, 0, len(sims))
	for _, sim := range sims {
		q, err := s.Gateway.GetQuestion(ctx, sim.QuestionID)
		if err != nil || q == nil {
			continue
		}
		cands = append(cands, core.NewCandidate(
			q,
			sim.Similarity*s.Weight,
			"基于题目内容相似度推荐",
			0.75,
			core.StrategyContent,
		))
	}

	sortCandidates(cands)
	return capCandidates(cands, req.FetchLimit()), nil
}

// extractPreferredFeatures 从历史中聚合用户偏好向量。
// 答对的题目贡献全部权重，答错的贡献弱权重；特征按贡献题数取均值。
func (s *Content) extractPreferredFeatures(
	ctx context.Context,
	history []core.AnswerRecord,
) map[string]float64 {
	sum := make(map[string]float64)
	n := 0
	for _, rec := range history {
		q, err := s.Gateway.GetQuestion(ctx, rec.QuestionID)
		if err != nil || q == nil || len(q.Features) == 0 {
			continue
		}
		w := 0.3
		if rec.Correct {
			w = 1.0
		}
		for k, v := range q.Features {
			sum[k] += v * w
		}
		n++
	}
	if n == 0 {
		return nil
	}
	for k := range sum {
		sum[k] /= float64(n)
	}
	return sum
}
