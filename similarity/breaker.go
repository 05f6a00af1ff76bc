package similarity

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/learnkit/quizrec/core"
)

// Breaker 是 SimilarityService 的熔断装饰器。
//
// 相似度后端抖动时，协同/内容两个策略如果每次请求都等到超时，
// 会拖慢整个召回 fan-out；熔断开启后直接快速失败，让策略立即
// 降级为零候选，由其余策略撑起结果。
type Breaker struct {
	inner     core.SimilarityService
	users     *gobreaker.CircuitBreaker[[]core.UserSimilarity]
	questions *gobreaker.CircuitBreaker[[]core.QuestionSimilarity]
}

// NewBreaker 创建熔断装饰器：连续 5 次失败后开启，30 秒后进入半开试探。
func NewBreaker(inner core.SimilarityService) *Breaker {
	settings := gobreaker.Settings{
		Name:    "similarity",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &Breaker{
		inner:     inner,
		users:     gobreaker.NewCircuitBreaker[[]core.UserSimilarity](settings),
		questions: gobreaker.NewCircuitBreaker[[]core.QuestionSimilarity](settings),
	}
}

var _ core.SimilarityService = (*Breaker)(nil)

func (b *Breaker) FindSimilarUsers(
	ctx context.Context,
	userID string,
	profile *core.UserProfile,
) ([]core.UserSimilarity, error) {
	out, err := b.users.Execute(func() ([]core.UserSimilarity, error) {
		return b.inner.FindSimilarUsers(ctx, userID, profile)
	})
	return out, wrapBreakerErr(err)
}

func (b *Breaker) FindSimilarQuestions(
	ctx context.Context,
	features map[string]float64,
	filter core.QuestionFilter,
) ([]core.QuestionSimilarity, error) {
	out, err := b.questions.Execute(func() ([]core.QuestionSimilarity, error) {
		return b.inner.FindSimilarQuestions(ctx, features, filter)
	})
	return out, wrapBreakerErr(err)
}

func wrapBreakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return core.ErrSimilarityUnavailable
	}
	return err
}
