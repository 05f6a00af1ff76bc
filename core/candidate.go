package core

import "github.com/learnkit/quizrec/pkg/utils"

// 候选来源策略标识。融合阶段的并列裁决顺序即按此处声明的顺序：
// collaborative → content_based → knowledge_graph → user_preference。
const (
	StrategyCollaborative = "collaborative"   // 同伴协同过滤
	StrategyContent       = "content_based"   // 内容特征相似
	StrategyKnowledge     = "knowledge_graph" // 知识缺口定向
	StrategyPreference    = "user_preference" // 声明偏好匹配
	StrategyNewUser       = "new_user"        // 冷启动
	StrategyFallback      = "fallback"        // 降级兜底
)

// Candidate 是推荐链路中的统一承载结构：题目、分数、解释、置信度、来源。
//
// 一个 Candidate 由且仅由一个策略产出；同一题目来自不同策略的多个候选
// 在融合阶段合并——合并后不再修改，只会被更高分的候选取代。
type Candidate struct {
	QuestionID string    `json:"question_id"`
	Question   *Question `json:"question"`

	// Score 策略加权后的原始分数（非负，量纲由策略权重拉齐）
	Score float64 `json:"score"`

	// Reason 推荐理由（面向用户/运营的可读解释）
	Reason string `json:"reason"`

	// Confidence 置信度 [0,1]
	Confidence float64 `json:"confidence"`

	// Strategy 来源策略标识
	Strategy string `json:"strategy"`

	// Labels 是可解释标签，记录召回来源、过滤原因等链路信息
	Labels map[string]utils.Label `json:"labels,omitempty"`
}

// NewCandidate 创建一个候选并打上来源标签。
func NewCandidate(q *Question, score float64, reason string, confidence float64, strategy string) *Candidate {
	c := &Candidate{
		QuestionID: q.ID,
		Question:   q,
		Score:      score,
		Reason:     reason,
		Confidence: confidence,
		Strategy:   strategy,
		Labels:     make(map[string]utils.Label),
	}
	c.PutLabel("strategy", utils.Label{Value: strategy, Source: "strategy"})
	return c
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// RecommendContext 承载一次推荐请求的贯穿上下文，在 Pipeline 各节点间透传。
type RecommendContext struct {
	Request *RecommendRequest

	// Profile 用户画像；冷启动路径下为 nil
	Profile *UserProfile

	// Labels 请求级标签（降级标记、实验桶等）
	Labels map[string]utils.Label
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}
