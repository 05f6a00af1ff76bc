package strategy

import (
	"context"

	"github.com/learnkit/quizrec/core"
)

// Knowledge 是知识缺口定向策略。
//
// 核心思想："哪里薄弱补哪里"
//
// 薄弱知识点来自两个信号：
//  1. 画像中掌握度低于阈值的知识点
//  2. 近期答错题目覆盖的知识点（画像可能滞后，用实时行为补充）
//
// 找不到薄弱点返回空列表，不算错误。
type Knowledge struct {
	Gateway core.QuestionGateway

	// Weight 知识缺口策略的融合权重
	Weight float64

	// WeakThreshold 掌握度阈值，低于该值视为薄弱
	WeakThreshold float64

	// RecentWindow 参与薄弱点识别的近期作答条数
	RecentWindow int
}

func (s *Knowledge) Name() string { return core.StrategyKnowledge }

func (s *Knowledge) Recommend(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if s.Gateway == nil || rctx == nil || rctx.Profile == nil {
		return nil, nil
	}
	req := rctx.Request

	threshold := s.WeakThreshold
	if threshold <= 0 {
		threshold = 0.6
	}

	// 薄弱点 → 紧迫度（1 - 掌握度）
	urgency := make(map[string]float64)
	for _, point := range rctx.Profile.WeakPoints(threshold) {
		urgency[point] = 1 - rctx.Profile.Mastery[point]
	}

	// 请求要求优先薄弱点时，把近期答错的知识点也补充进来
	// （掌握度未知时按阈值紧迫度处理），弥补画像的滞后
	window := s.RecentWindow
	if window <= 0 {
		window = 20
	}
	if req.PrioritizeWeakPoints {
		if history, err := s.Gateway.GetAnswerHistory(ctx, req.UserID); err == nil {
			if len(history) > window {
				history = history[len(history)-window:]
			}
			for _, rec := range history {
				if rec.Correct {
					continue
				}
				q, err := s.Gateway.GetQuestion(ctx, rec.QuestionID)
				if err != nil || q == nil {
					continue
				}
				for _, point := range q.KnowledgePoints {
					if _, ok := urgency[point]; !ok {
						urgency[point] = 1 - threshold
					}
				}
			}
		}
	}

	if len(urgency) == 0 {
		return nil, nil
	}

	points := make([]string, 0, len(urgency))
	for point := range urgency {
		points = append(points, point)
	}

	questions, err := s.Gateway.QueryQuestions(ctx, core.QuestionFilter{
		KnowledgePoints: points,
		Subjects:        req.SubjectFilter,
		Limit:           req.FetchLimit(),
	})
	if err != nil {
		return nil, err
	}

	cands := make([]*core.Candidate, 0, len(questions))
	for _, q := range questions {
		// 相关度取题目覆盖的薄弱点中最高的紧迫度
		relevance := 0.0
		for _, point := range q.KnowledgePoints {
			if u, ok := urgency[point]; ok && u > relevance {
				relevance = u
			}
		}
		if relevance == 0 {
			continue
		}
		cands = append(cands, core.NewCandidate(
			q,
			relevance*s.Weight,
			"针对薄弱知识点的定向推荐",
			0.85,
			core.StrategyKnowledge,
		))
	}

	sortCandidates(cands)
	return capCandidates(cands, req.FetchLimit()), nil
}
