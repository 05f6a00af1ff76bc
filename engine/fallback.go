package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/learnkit/quizrec/core"
	"github.com/learnkit/quizrec/pkg/utils"
)

// fallbackRecommend 是主链路失败后的降级策略。
//
// 选题规则：历史正确率落在适中区间（不太难也不太容易）、被使用过的
// 题目，按更新时间降序、正确率次级排列；统一打固定的中等分数和低
// 置信度，并带上 fallback 来源标识，让调用方和监控能区分降级结果。
//
// 降级是请求的最后一跳：如果降级查询也失败，返回空列表而不是错误，
// 由调用方展示"暂无推荐"。
func (e *Engine) fallbackRecommend(
	ctx context.Context,
	req *core.RecommendRequest,
	eventID string,
	start time.Time,
) []*core.Candidate {
	fb := e.cfg.Fallback

	questions, err := e.gateway.QueryQuestions(ctx, core.QuestionFilter{
		Subjects:       req.SubjectFilter,
		MinCorrectRate: fb.MinCorrectRate,
		MaxCorrectRate: fb.MaxCorrectRate,
		MinUsageCount:  1,
		SortBy:         core.SortByRecent,
		Limit:          req.Count,
	})
	if err != nil {
		e.logger.Error("fallback query failed",
			zap.String("event_id", eventID),
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		e.logEvent(eventID, req, nil, false, true, start)
		return []*core.Candidate{}
	}

	cands := make([]*core.Candidate, 0, len(questions))
	for _, q := range questions {
		c := core.NewCandidate(
			q,
			fb.Score,
			"系统推荐的优质题目",
			fb.Confidence,
			core.StrategyFallback,
		)
		c.PutLabel("degraded", utils.Label{Value: "true", Source: "engine"})
		cands = append(cands, c)
	}

	e.recordExposure(ctx, req.UserID, cands)
	e.logEvent(eventID, req, cands, false, true, start)
	return cands
}
