package strategy

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/learnkit/quizrec/core"
	"github.com/learnkit/quizrec/pipeline"
)

// Fanout 是召回 Node：并发执行所有策略，按声明顺序拼接结果。
//
// 部分失败语义：单个策略出错（包括超时/取消）只记一条警告日志并
// 贡献零候选，不中断其余策略，也不让整个请求失败。
//
// 确定性保证：无论各策略完成的先后顺序如何，输出始终按 Strategies
// 的声明顺序拼接，融合阶段的并列裁决因此与调度无关。
type Fanout struct {
	// Strategies 策略列表，声明顺序即融合的并列裁决顺序
	Strategies []Strategy

	// Timeout 单个策略的超时时间（0 表示不限制）
	Timeout time.Duration

	// Logger 用于策略失败告警（nil 时静默）
	Logger *zap.Logger
}

func (n *Fanout) Name() string        { return "strategy.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Strategies) == 0 {
		return nil, nil
	}

	logger := n.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// 每个策略写自己的槽位，拼接顺序与完成顺序解耦
	results := make([][]*core.Candidate, len(n.Strategies))

	var eg errgroup.Group
	for i, s := range n.Strategies {
		slot, strat := i, s
		eg.Go(func() error {
			recCtx := ctx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recCtx, cancel = context.WithTimeout(ctx, n.Timeout)
				defer cancel()
			}

			cands, err := strat.Recommend(recCtx, rctx)
			if err != nil {
				// 策略内部失败只降级为零候选，不中断其他策略
				logger.Warn("strategy failed",
					zap.String("strategy", strat.Name()),
					zap.String("user_id", rctx.Request.UserID),
					zap.Error(err),
				)
				return nil
			}
			results[slot] = cands
			return nil
		})
	}
	// 各 goroutine 都返回 nil，Wait 只起汇合作用
	_ = eg.Wait()

	var all []*core.Candidate
	for _, cands := range results {
		all = append(all, cands...)
	}
	return all, nil
}
