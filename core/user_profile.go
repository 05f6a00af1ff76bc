package core

import "time"

// LearningPreference 是用户声明的学习偏好。
type LearningPreference struct {
	// PreferredDifficulty 偏好难度（0 表示未设置）
	PreferredDifficulty int `json:"preferred_difficulty"`

	// Subjects 学科白名单（空表示不限）
	Subjects []string `json:"subjects,omitempty"`
}

// UserProfile 是用户画像。
//
// 画像由外部的用户画像链路产出和更新，推荐引擎只读：
//
//	维度          作用
//	知识点掌握度   知识缺口策略的核心信号
//	学习偏好      偏好策略的过滤条件
//	更新时间      画像新鲜度判断
type UserProfile struct {
	UserID string `json:"user_id"`

	// Mastery 知识点掌握度，key 为知识点，value 为 [0,1] 的掌握分
	Mastery map[string]float64 `json:"mastery"`

	// Preference 学习偏好
	Preference LearningPreference `json:"preference"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserProfile 创建一个空画像。
func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:    userID,
		Mastery:   make(map[string]float64),
		UpdatedAt: time.Now(),
	}
}

// WeakPoints 返回掌握度低于 threshold 的知识点，按掌握度升序排列。
func (p *UserProfile) WeakPoints(threshold float64) []string {
	type weak struct {
		point string
		score float64
	}
	weaks := make([]weak, 0, len(p.Mastery))
	for point, score := range p.Mastery {
		if score < threshold {
			weaks = append(weaks, weak{point, score})
		}
	}
	// 插入排序，知识点数量很小
	for i := 1; i < len(weaks); i++ {
		for j := i; j > 0; j-- {
			a, b := weaks[j-1], weaks[j]
			if a.score > b.score || (a.score == b.score && a.point > b.point) {
				weaks[j-1], weaks[j] = b, a
			}
		}
	}
	out := make([]string, len(weaks))
	for i, w := range weaks {
		out[i] = w.point
	}
	return out
}

// AnswerRecord 是一条作答记录（答题历史的元素）。
type AnswerRecord struct {
	QuestionID string    `json:"question_id"`
	Correct    bool      `json:"correct"`
	Score      float64   `json:"score"` // 得分或评分，语义由业务定义
	AnsweredAt time.Time `json:"answered_at"`
}
