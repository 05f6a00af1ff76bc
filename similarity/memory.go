package similarity

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/learnkit/quizrec/core"
)

// MemoryService 是内存实现的相似度服务，用于测试/开发/原型。
//
// 用户相似度基于注册的用户向量（通常是知识点掌握度），题目相似度
// 基于注册的题目特征向量；度量支持 cosine / pearson。
// 生产环境可换成向量库 ANN 或远程服务，接口不变。
type MemoryService struct {
	mu        sync.RWMutex
	users     map[string]map[string]float64
	questions map[string]map[string]float64

	// Metric 相似度度量方式：cosine（默认）/ pearson
	Metric string

	// MinSimilarity 低于该值的结果被丢弃
	MinSimilarity float64
}

func NewMemoryService() *MemoryService {
	return &MemoryService{
		users:     make(map[string]map[string]float64),
		questions: make(map[string]map[string]float64),
	}
}

var _ core.SimilarityService = (*MemoryService)(nil)

// SetUserVector 注册用户向量（测试数据准备）。
func (s *MemoryService) SetUserVector(userID string, vec map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = vec
}

// SetQuestionVector 注册题目特征向量（测试数据准备）。
func (s *MemoryService) SetQuestionVector(questionID string, vec map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[questionID] = vec
}

func (s *MemoryService) FindSimilarUsers(
	ctx context.Context,
	userID string,
	profile *core.UserProfile,
) ([]core.UserSimilarity, error) {
	target := map[string]float64{}
	if profile != nil {
		target = profile.Mastery
	}
	s.mu.RLock()
	if len(target) == 0 {
		target = s.users[userID]
	}
	if len(target) == 0 {
		s.mu.RUnlock()
		return nil, nil
	}

	out := make([]core.UserSimilarity, 0, len(s.users))
	for id, vec := range s.users {
		if id == userID {
			continue
		}
		sim := s.similarity(target, vec)
		if sim > s.MinSimilarity && sim > 0 {
			out = append(out, core.UserSimilarity{UserID: id, Similarity: sim})
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (s *MemoryService) FindSimilarQuestions(
	ctx context.Context,
	features map[string]float64,
	filter core.QuestionFilter,
) ([]core.QuestionSimilarity, error) {
	if len(features) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	out := make([]core.QuestionSimilarity, 0, len(s.questions))
	for id, vec := range s.questions {
		sim := s.similarity(features, vec)
		if sim > s.MinSimilarity && sim > 0 {
			out = append(out, core.QuestionSimilarity{QuestionID: id, Similarity: sim})
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].QuestionID < out[j].QuestionID
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *MemoryService) similarity(a, b map[string]float64) float64 {
	if s.Metric == "pearson" {
		return pearsonCorrelation(a, b)
	}
	return cosineSimilarity(a, b)
}

// cosineSimilarity 计算两个稀疏向量的余弦相似度。
func cosineSimilarity(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for k, va := range a {
		normA += va * va
		if vb, ok := b[k]; ok {
			dot += va * vb
		}
	}
	for _, vb := range b {
		normB += vb * vb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// pearsonCorrelation 计算两个稀疏向量在公共维度上的皮尔逊相关系数，
// 负相关按 0 处理。
func pearsonCorrelation(a, b map[string]float64) float64 {
	var xs, ys []float64
	for k, va := range a {
		if vb, ok := b[k]; ok {
			xs = append(xs, va)
			ys = append(ys, vb)
		}
	}
	n := float64(len(xs))
	if n < 2 {
		return 0
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	r := cov / math.Sqrt(varX*varY)
	if r < 0 {
		return 0
	}
	return r
}
