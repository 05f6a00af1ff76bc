package engine

import (
	"context"

	"github.com/learnkit/quizrec/core"
	"github.com/learnkit/quizrec/pkg/utils"
)

// coldStart 是无画像用户的确定性推荐策略。
//
// 选题规则：难度不超过入门阈值、历史作答样本充足的题目，
// 按正确率降序、作答次数次级降序排列；分数按名次递减合成，
// 置信度固定为低值，标记这是一个弱信号。
func (e *Engine) coldStart(ctx context.Context, req *core.RecommendRequest) ([]*core.Candidate, error) {
	cs := e.cfg.ColdStart

	questions, err := e.gateway.QueryQuestions(ctx, core.QuestionFilter{
		Subjects:      req.SubjectFilter,
		MaxDifficulty: cs.MaxDifficulty,
		MinAttempts:   cs.MinAttempts,
		SortBy:        core.SortByCorrectRate,
		Limit:         req.FetchLimit(),
	})
	if err != nil {
		return nil, err
	}

	if len(questions) > req.Count {
		questions = questions[:req.Count]
	}

	cands := make([]*core.Candidate, 0, len(questions))
	for i, q := range questions {
		score := cs.BaseScore - float64(i)*cs.ScoreStep
		if score < 0 {
			score = 0
		}
		c := core.NewCandidate(
			q,
			score,
			"推荐给新用户的优质入门题目",
			cs.Confidence,
			core.StrategyNewUser,
		)
		c.PutLabel("cold_start", utils.Label{Value: "true", Source: "engine"})
		cands = append(cands, c)
	}
	return cands, nil
}
