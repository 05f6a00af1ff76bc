package core

// RecommendRequest 是一次推荐请求，构造后不可变。
type RecommendRequest struct {
	UserID string

	// Count 期望返回的题目数量（>= 1）
	Count int

	// DifficultyPreference 本次请求的难度偏好（0 表示沿用画像偏好）
	DifficultyPreference int

	// SubjectFilter 学科过滤（空表示不限）
	SubjectFilter []string

	// ExcludeAnswered 是否剔除已作答题目
	ExcludeAnswered bool

	// PrioritizeWeakPoints 是否优先薄弱知识点：开启后知识缺口策略
	// 会把近期答错的知识点也纳入定向范围
	PrioritizeWeakPoints bool
}

// Validate 校验请求参数；非法请求直接拒绝，不进入推荐链路。
func (r *RecommendRequest) Validate() error {
	if r == nil || r.UserID == "" {
		return ErrInvalidRequest
	}
	if r.Count < 1 {
		return ErrInvalidRequest
	}
	if r.DifficultyPreference != 0 &&
		(r.DifficultyPreference < MinDifficulty || r.DifficultyPreference > MaxDifficulty) {
		return ErrInvalidRequest
	}
	return nil
}

// FetchLimit 返回策略内部的候选抓取上限（2 × Count），
// 用于控制下游融合的计算成本。
func (r *RecommendRequest) FetchLimit() int {
	return r.Count * 2
}
