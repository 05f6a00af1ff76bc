package core

import (
	"context"
	"time"
)

// QuestionFilter 是题库查询条件。零值字段表示不限制。
type QuestionFilter struct {
	// KnowledgePoints 命中任一知识点即可
	KnowledgePoints []string

	// Subjects 学科白名单
	Subjects []string

	// 难度区间（0 表示不限制）
	MinDifficulty int
	MaxDifficulty int

	// MinAttempts 最小历史作答次数
	MinAttempts int

	// 历史正确率区间（0 表示不限制）
	MinCorrectRate float64
	MaxCorrectRate float64

	// MinUsageCount 最小使用次数
	MinUsageCount int

	// SortBy 排序方式：correct_rate（正确率降序，作答数次级）/
	// recent（更新时间降序，正确率次级）/ 空（不保证顺序）
	SortBy string

	// Limit 返回条数上限（0 表示不限制）
	Limit int
}

// 排序方式常量。
const (
	SortByCorrectRate = "correct_rate"
	SortByRecent      = "recent"
)

// Feedback 是一条推荐反馈。
type Feedback struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	QuestionID string    `json:"question_id"`
	Feedback   string    `json:"feedback"` // like / dislike / too_easy / too_hard ...
	Rating     *int      `json:"rating,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// QuestionGateway 是题库与用户数据的读写网关。
//
// 题库、画像、作答历史由外部存储（关系库等）持有，推荐引擎只通过
// 此窄接口访问；store.MemoryGateway 提供内存实现用于测试与原型。
type QuestionGateway interface {
	// GetProfile 获取用户画像；画像不存在时返回 (nil, nil)
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)

	// GetQuestion 获取题目；不存在时返回 (nil, nil)
	GetQuestion(ctx context.Context, questionID string) (*Question, error)

	// GetAnswerHistory 获取用户作答历史（按作答时间升序）
	GetAnswerHistory(ctx context.Context, userID string) ([]AnswerRecord, error)

	// QueryQuestions 按条件查询题目
	QueryQuestions(ctx context.Context, filter QuestionFilter) ([]*Question, error)

	// RecordFeedback 记录推荐反馈
	RecordFeedback(ctx context.Context, fb Feedback) error
}
