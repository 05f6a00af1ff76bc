package core

import "context"

// UserSimilarity 是一个相似用户及其相似度。
type UserSimilarity struct {
	UserID     string  `json:"user_id"`
	Similarity float64 `json:"similarity"` // [0,1]
}

// QuestionSimilarity 是一道相似题目及其相似度。
type QuestionSimilarity struct {
	QuestionID string  `json:"question_id"`
	Similarity float64 `json:"similarity"` // [0,1]
}

// SimilarityService 是相似度服务的领域接口。
//
// 具体实现可以是内存余弦计算（similarity.MemoryService）、向量库 ANN、
// 或远程服务；协同策略与内容策略通过此接口消费相似度信号。
type SimilarityService interface {
	// FindSimilarUsers 查找与目标用户相似的用户（按相似度降序）
	FindSimilarUsers(ctx context.Context, userID string, profile *UserProfile) ([]UserSimilarity, error)

	// FindSimilarQuestions 按特征向量查找相似题目（按相似度降序）
	FindSimilarQuestions(ctx context.Context, features map[string]float64, filter QuestionFilter) ([]QuestionSimilarity, error)
}
