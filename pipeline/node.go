package pipeline

import (
	"context"

	"github.com/learnkit/quizrec/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindRecall Kind = "recall" // 召回阶段：策略并发产出候选集
	KindFusion Kind = "fusion" // 融合阶段：去重 + 按分数排序
	KindReRank Kind = "rerank" // 重排阶段：多样性/业务调优
	KindFilter Kind = "filter" // 过滤阶段：剔除不符合业务约束的候选
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用"输入 candidates -> 输出 candidates"的形态，方便召回生成、
// 融合去重、重排截断、过滤剔除等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		cands []*core.Candidate,
	) ([]*core.Candidate, error)
}
