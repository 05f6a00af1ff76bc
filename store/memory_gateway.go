package store

import (
	"context"
	"sort"
	"sync"

	"github.com/learnkit/quizrec/core"
)

// MemoryGateway 是内存实现的题库网关，用于测试/开发/原型。
// 生产环境由关系库等外部存储实现 core.QuestionGateway。
type MemoryGateway struct {
	mu        sync.RWMutex
	questions map[string]*core.Question
	profiles  map[string]*core.UserProfile
	history   map[string][]core.AnswerRecord
	feedbacks []core.Feedback
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		questions: make(map[string]*core.Question),
		profiles:  make(map[string]*core.UserProfile),
		history:   make(map[string][]core.AnswerRecord),
	}
}

var _ core.QuestionGateway = (*MemoryGateway)(nil)

// AddQuestion 写入题目（测试数据准备）。
func (g *MemoryGateway) AddQuestion(q *core.Question) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.questions[q.ID] = q
}

// SetProfile 写入用户画像（测试数据准备）。
func (g *MemoryGateway) SetProfile(p *core.UserProfile) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.profiles[p.UserID] = p
}

// AddAnswer 追加一条作答记录（测试数据准备）。
func (g *MemoryGateway) AddAnswer(userID string, rec core.AnswerRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.history[userID] = append(g.history[userID], rec)
}

// Feedbacks 返回已记录的反馈快照。
func (g *MemoryGateway) Feedbacks() []core.Feedback {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]core.Feedback, len(g.feedbacks))
	copy(out, g.feedbacks)
	return out
}

func (g *MemoryGateway) GetProfile(ctx context.Context, userID string) (*core.UserProfile, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.profiles[userID], nil
}

func (g *MemoryGateway) GetQuestion(ctx context.Context, questionID string) (*core.Question, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.questions[questionID], nil
}

func (g *MemoryGateway) GetAnswerHistory(ctx context.Context, userID string) ([]core.AnswerRecord, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	records := g.history[userID]
	out := make([]core.AnswerRecord, len(records))
	copy(out, records)
	return out, nil
}

func (g *MemoryGateway) QueryQuestions(ctx context.Context, filter core.QuestionFilter) ([]*core.Question, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*core.Question, 0)
	for _, q := range g.questions {
		if matchFilter(q, filter) {
			out = append(out, q)
		}
	}

	sortQuestions(out, filter.SortBy)

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (g *MemoryGateway) RecordFeedback(ctx context.Context, fb core.Feedback) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.feedbacks = append(g.feedbacks, fb)
	return nil
}

func matchFilter(q *core.Question, f core.QuestionFilter) bool {
	if len(f.KnowledgePoints) > 0 {
		hit := false
		for _, point := range f.KnowledgePoints {
			if q.HasKnowledgePoint(point) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if len(f.Subjects) > 0 {
		hit := false
		for _, s := range f.Subjects {
			if q.Subject == s {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if f.MinDifficulty > 0 && q.Difficulty < f.MinDifficulty {
		return false
	}
	if f.MaxDifficulty > 0 && q.Difficulty > f.MaxDifficulty {
		return false
	}
	if f.MinAttempts > 0 && q.AttemptCount < f.MinAttempts {
		return false
	}
	if f.MinCorrectRate > 0 && q.CorrectRate < f.MinCorrectRate {
		return false
	}
	if f.MaxCorrectRate > 0 && q.CorrectRate > f.MaxCorrectRate {
		return false
	}
	if f.MinUsageCount > 0 && q.UsageCount < f.MinUsageCount {
		return false
	}
	return true
}

// sortQuestions 按网关约定的排序方式排序，ID 作为最终裁决保证确定性。
func sortQuestions(qs []*core.Question, sortBy string) {
	switch sortBy {
	case core.SortByCorrectRate:
		sort.Slice(qs, func(i, j int) bool {
			if qs[i].CorrectRate != qs[j].CorrectRate {
				return qs[i].CorrectRate > qs[j].CorrectRate
			}
			if qs[i].AttemptCount != qs[j].AttemptCount {
				return qs[i].AttemptCount > qs[j].AttemptCount
			}
			return qs[i].ID < qs[j].ID
		})
	case core.SortByRecent:
		sort.Slice(qs, func(i, j int) bool {
			if !qs[i].UpdatedAt.Equal(qs[j].UpdatedAt) {
				return qs[i].UpdatedAt.After(qs[j].UpdatedAt)
			}
			if qs[i].CorrectRate != qs[j].CorrectRate {
				return qs[i].CorrectRate > qs[j].CorrectRate
			}
			return qs[i].ID < qs[j].ID
		})
	default:
		sort.Slice(qs, func(i, j int) bool { return qs[i].ID < qs[j].ID })
	}
}
