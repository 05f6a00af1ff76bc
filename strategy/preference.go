package strategy

import (
	"context"
	"math"

	"github.com/learnkit/quizrec/core"
)

// Preference 是声明偏好匹配策略。
//
// 把用户声明的偏好（难度档位、学科白名单）转成题库过滤条件，
// 按匹配强度 × 偏好权重打分。请求里的偏好覆盖画像里的偏好。
// 用户没有任何声明偏好时返回空列表，不算错误。
type Preference struct {
	Gateway core.QuestionGateway

	// Weight 偏好策略的融合权重
	Weight float64
}

func (s *Preference) Name() string { return core.StrategyPreference }

func (s *Preference) Recommend(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if s.Gateway == nil || rctx == nil || rctx.Profile == nil {
		return nil, nil
	}
	req := rctx.Request

	difficulty := req.DifficultyPreference
	if difficulty == 0 {
		difficulty = rctx.Profile.Preference.PreferredDifficulty
	}
	subjects := req.SubjectFilter
	if len(subjects) == 0 {
		subjects = rctx.Profile.Preference.Subjects
	}

	if difficulty == 0 && len(subjects) == 0 {
		return nil, nil
	}

	filter := core.QuestionFilter{
		Subjects: subjects,
		Limit:    req.FetchLimit(),
	}
	if difficulty > 0 {
		// 偏好难度 ±1 的窄带
		filter.MinDifficulty = maxInt(core.MinDifficulty, difficulty-1)
		filter.MaxDifficulty = minInt(core.MaxDifficulty, difficulty+1)
	}

	questions, err := s.Gateway.QueryQuestions(ctx, filter)
	if err != nil {
		return nil, err
	}

	span := float64(core.MaxDifficulty - core.MinDifficulty)
	cands := make([]*core.Candidate, 0, len(questions))
	for _, q := range questions {
		match := 1.0
		if difficulty > 0 {
			match = 1 - math.Abs(float64(q.Difficulty-difficulty))/span
		}
		cands = append(cands, core.NewCandidate(
			q,
			match*s.Weight,
			"基于个人学习偏好推荐",
			0.7,
			core.StrategyPreference,
		))
	}

	sortCandidates(cands)
	return capCandidates(cands, req.FetchLimit()), nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
