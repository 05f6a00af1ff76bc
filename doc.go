// Package quizrec 是一个面向学习平台的题目推荐引擎。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（策略 fan-out → 融合 → 多样性重排 → 业务过滤）
// - 多信号融合: 协同 / 内容 / 知识缺口 / 偏好四个策略并发打分，权重拉齐后去重合并
// - 可降级: 策略失败只减少候选，链路失败走 fallback，降级也失败返回空列表，从不抛给进程
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测
package quizrec

import "github.com/learnkit/quizrec/pipeline"

// 轻量 facade：便于用户直接 import "quizrec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall = pipeline.KindRecall
	KindFusion = pipeline.KindFusion
	KindReRank = pipeline.KindReRank
	KindFilter = pipeline.KindFilter
)
