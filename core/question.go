package core

import "time"

// QuestionType 是题目类型（单选/多选/案例/论述等）。
type QuestionType string

const (
	QuestionTypeSingleChoice QuestionType = "single_choice"
	QuestionTypeMultiChoice  QuestionType = "multi_choice"
	QuestionTypeCase         QuestionType = "case"
	QuestionTypeEssay        QuestionType = "essay"
)

// 难度等级为 1-5 的序数刻度。
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// Question 是推荐链路中的物品实体。
//
// 创建后内容不可变；只有聚合统计（CorrectRate / UsageCount）由外部的
// 学习记录链路更新，推荐引擎只读。
type Question struct {
	ID string `json:"id"`

	// Subject 学科/科目，用于偏好过滤
	Subject string `json:"subject"`

	// Difficulty 难度等级（1-5）
	Difficulty int `json:"difficulty"`

	// Type 题目类型
	Type QuestionType `json:"type"`

	// KnowledgePoints 关联的知识点标签集合
	KnowledgePoints []string `json:"knowledge_points"`

	// Features 内容特征向量（关键词/类别权重），用于内容相似度召回
	Features map[string]float64 `json:"features,omitempty"`

	// 聚合统计（由学习记录链路维护）
	CorrectRate  float64 `json:"correct_rate"`  // 历史正确率 [0,1]
	AttemptCount int     `json:"attempt_count"` // 历史作答次数
	UsageCount   int     `json:"usage_count"`   // 被推荐/使用次数

	UpdatedAt time.Time `json:"updated_at"`
}

// HasKnowledgePoint 判断题目是否覆盖某个知识点。
func (q *Question) HasKnowledgePoint(point string) bool {
	for _, p := range q.KnowledgePoints {
		if p == point {
			return true
		}
	}
	return false
}

// KnowledgeOverlap 计算两道题知识点集合的 Jaccard 相似度。
// 返回值位于 [0,1]：完全相同为 1，无交集为 0。
func KnowledgeOverlap(a, b *Question) float64 {
	if len(a.KnowledgePoints) == 0 && len(b.KnowledgePoints) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a.KnowledgePoints))
	for _, p := range a.KnowledgePoints {
		set[p] = struct{}{}
	}
	inter := 0
	for _, p := range b.KnowledgePoints {
		if _, ok := set[p]; ok {
			inter++
		}
	}
	union := len(a.KnowledgePoints) + len(b.KnowledgePoints) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
