package strategy

import (
	"context"

	"github.com/learnkit/quizrec/core"
)

// Collaborative 是同伴协同过滤策略（User-CF）。
//
// 核心思想："学习情况相似的用户，适合相似的题目"
//
// 流程：
//  1. 通过相似度服务找 TopK 相似用户
//  2. 聚合这些用户答对/高分的题目，按 相似度 × 表现 加权
//  3. 归一化后乘以协同权重
//
// 找不到相似用户返回空列表，不算错误。
type Collaborative struct {
	Gateway    core.QuestionGateway
	Similarity core.SimilarityService

	// Weight 协同策略的融合权重
	Weight float64

	// MaxPeers 参与聚合的相似用户上限
	MaxPeers int
}

func (s *Collaborative) Name() string { return core.StrategyCollaborative }

func (s *Collaborative) Recommend(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if s.Gateway == nil || s.Similarity == nil || rctx == nil || rctx.Profile == nil {
		return nil, nil
	}
	req := rctx.Request

	peers, err := s.Similarity.FindSimilarUsers(ctx, req.UserID, rctx.Profile)
	if err != nil {
		return nil, err
	}
	if len(peers) == 0 {
		return nil, nil
	}

	maxPeers := s.MaxPeers
	if maxPeers <= 0 {
		maxPeers = 10
	}
	if len(peers) > maxPeers {
		peers = peers[:maxPeers]
	}

	// 聚合同伴偏好：答对计满权，答错仍保留弱信号
	agg := make(map[string]float64)
	for _, peer := range peers {
		history, err := s.Gateway.GetAnswerHistory(ctx, peer.UserID)
		if err != nil {
			continue
		}
		for _, rec := range history {
			w := 0.3
			if rec.Correct {
				w = 1.0
			}
			agg[rec.QuestionID] += peer.Similarity * w
		}
	}
	if len(agg) == 0 {
		return nil, nil
	}

	// 归一化到 [0,1]，保证与其他策略量纲可比
	maxScore := 0.0
	for _, v := range agg {
		if v > maxScore {
			maxScore = v
		}
	}
	// 相似度全为 0 时聚合值也全为 0，等同于没有协同信号
	if maxScore <= 0 {
		return nil, nil
	}

	cands := make([]*core.Candidate, 0, len(agg))
	for qid, v := range agg {
		q, err := s.Gateway.GetQuestion(ctx, qid)
		if err != nil || q == nil {
			continue
		}
		cands = append(cands, core.NewCandidate(
			q,
			v/maxScore*s.Weight,
			"基于相似用户的学习偏好推荐",
			0.8,
			core.StrategyCollaborative,
		))
	}

	sortCandidates(cands)
	return capCandidates(cands, req.FetchLimit()), nil
}
