package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/learnkit/quizrec/cache"
	"github.com/learnkit/quizrec/config"
	"github.com/learnkit/quizrec/core"
	"github.com/learnkit/quizrec/feature"
	"github.com/learnkit/quizrec/filter"
	"github.com/learnkit/quizrec/pipeline"
	"github.com/learnkit/quizrec/rank"
	"github.com/learnkit/quizrec/rerank"
	"github.com/learnkit/quizrec/strategy"
)

// Engine 是推荐编排器，对外只暴露两个入口：
//
//	Recommend      缓存检查 → 画像加载 → 策略 fan-out → 融合 →
//	               多样性重排 → 业务过滤 → 缓存更新 → 返回
//	SubmitFeedback 记录反馈并同步失效该用户的结果缓存
//
// 错误语义（对齐调用方的三种可感知状态）：
//   - 请求非法：返回 ErrInvalidRequest，不做任何链路工作
//   - 链路失败：降级为 fallback 候选（Strategy == "fallback"），error 为 nil
//   - 降级也失败：返回空列表，error 为 nil，由调用方展示"暂无推荐"
//
// Engine 在进程启动时构造一次，显式注入全部依赖，之后只读、并发安全。
type Engine struct {
	cfg        *config.Config
	gateway    core.QuestionGateway
	similarity core.SimilarityService
	cache      *cache.RecommendationCache
	mastery    feature.MasteryProvider
	logger     *zap.Logger

	fanout   *strategy.Fanout
	fusion   *rank.Fusion
	mmr      *rerank.MMR
	rules    []filter.Filter
	exposure *exposureTracker
}

// Option 配置 Engine 的可选依赖。
type Option func(*Engine)

// WithLogger 注入日志器（默认静默）。
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMasteryProvider 注入在线掌握度特征源（Feast 等），
// 画像缺少掌握度时用它补齐。
func WithMasteryProvider(p feature.MasteryProvider) Option {
	return func(e *Engine) { e.mastery = p }
}

// New 构造推荐引擎。cfg 为 nil 时使用默认配置；配置或过滤规则非法
// 时构造失败。
func New(
	cfg *config.Config,
	gateway core.QuestionGateway,
	sim core.SimilarityService,
	kv core.Store,
	opts ...Option,
) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:        cfg,
		gateway:    gateway,
		similarity: sim,
		cache:      cache.New(kv, cfg.CacheTTL()),
		logger:     zap.NewNop(),
	}
	// 曝光记录需要 zset 能力，普通 Store 下自动关闭
	if kvz, ok := kv.(core.KeyValueStore); ok {
		e.exposure = &exposureTracker{kv: kvz}
	}
	for _, opt := range opts {
		opt(e)
	}

	// 策略声明顺序即融合的并列裁决顺序，不随完成顺序变化
	e.fanout = &strategy.Fanout{
		Strategies: []strategy.Strategy{
			&strategy.Collaborative{Gateway: gateway, Similarity: sim, Weight: cfg.Weights.Collaborative},
			&strategy.Content{Gateway: gateway, Similarity: sim, Weight: cfg.Weights.Content},
			&strategy.Knowledge{Gateway: gateway, Weight: cfg.Weights.Knowledge, WeakThreshold: cfg.WeakThreshold},
			&strategy.Preference{Gateway: gateway, Weight: cfg.Weights.Preference},
		},
		Timeout: cfg.StrategyTimeout(),
		Logger:  e.logger,
	}
	e.fusion = &rank.Fusion{}
	e.mmr = &rerank.MMR{
		RelevanceWeight: cfg.Diversity.RelevanceWeight,
		DiversityWeight: cfg.Diversity.DiversityWeight,
	}

	for _, expr := range cfg.Rules {
		rule, err := filter.NewRule(expr)
		if err != nil {
			return nil, err
		}
		e.rules = append(e.rules, rule)
	}

	return e, nil
}

// Recommend 为用户推荐题目，返回不超过 req.Count 个候选。
// 结果可能少于请求数量（过滤后不回填），这是合法结果而非错误。
func (e *Engine) Recommend(ctx context.Context, req *core.RecommendRequest) ([]*core.Candidate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	eventID := uuid.NewString()
	start := time.Now()

	// 缓存命中要求条目数量覆盖本次请求，宁可重算也不返回短列表
	if cands, ok := e.cache.Get(ctx, req.UserID, req.Count); ok {
		cands = cands[:req.Count]
		e.recordExposure(ctx, req.UserID, cands)
		e.logEvent(eventID, req, cands, true, false, start)
		return cands, nil
	}

	profile, err := e.gateway.GetProfile(ctx, req.UserID)
	if err != nil {
		e.logger.Error("profile lookup failed",
			zap.String("event_id", eventID),
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		return e.fallbackRecommend(ctx, req, eventID, start), nil
	}

	// 无画像 → 冷启动路径（不经过策略 fan-out，也不写缓存）
	if profile == nil {
		cands, err := e.coldStart(ctx, req)
		if err != nil {
			e.logger.Error("cold start failed",
				zap.String("event_id", eventID),
				zap.String("user_id", req.UserID),
				zap.Error(err),
			)
			return e.fallbackRecommend(ctx, req, eventID, start), nil
		}
		e.recordExposure(ctx, req.UserID, cands)
		e.logEvent(eventID, req, cands, false, false, start)
		return cands, nil
	}

	e.enrichMastery(ctx, profile)

	rctx := &core.RecommendContext{Request: req, Profile: profile}
	out, err := e.pipelineFor().Run(ctx, rctx, nil)
	if err != nil {
		e.logger.Error("recommendation pipeline failed",
			zap.String("event_id", eventID),
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		return e.fallbackRecommend(ctx, req, eventID, start), nil
	}

	if err := e.cache.Put(ctx, req.UserID, out); err != nil {
		// 缓存写失败不影响本次结果
		e.logger.Warn("cache put failed",
			zap.String("event_id", eventID),
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
	}

	e.recordExposure(ctx, req.UserID, out)
	e.logEvent(eventID, req, out, false, false, start)
	return out, nil
}

// SubmitFeedback 记录一条推荐反馈，并同步失效该用户的结果缓存，
// 保证下一次推荐重算而不是复用过期偏好。
func (e *Engine) SubmitFeedback(ctx context.Context, userID, questionID, feedback string, rating *int) error {
	if userID == "" || questionID == "" {
		return core.ErrInvalidRequest
	}

	fb := core.Feedback{
		ID:         uuid.NewString(),
		UserID:     userID,
		QuestionID: questionID,
		Feedback:   feedback,
		Rating:     rating,
		CreatedAt:  time.Now(),
	}
	if err := e.gateway.RecordFeedback(ctx, fb); err != nil {
		return err
	}

	if err := e.cache.Invalidate(ctx, userID); err != nil {
		e.logger.Warn("cache invalidate failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	e.logger.Info("feedback recorded",
		zap.String("feedback_id", fb.ID),
		zap.String("user_id", userID),
		zap.String("question_id", questionID),
		zap.String("feedback", feedback),
	)
	return nil
}

// pipelineFor 组装主链路。Answered 过滤器带请求内历史快照，
// 每次请求新建，其余 Node 无状态可复用。
// 末位的 TopN 在主链路里通常不截断（MMR 已收敛到 Count、过滤只做减法），
// 只对替换了重排 Node 的自定义组合实际生效。
func (e *Engine) pipelineFor() *pipeline.Pipeline {
	filters := make([]filter.Filter, 0, len(e.rules)+2)
	filters = append(filters, filter.NewAnswered(e.gateway))
	if e.cfg.MaxExposure > 0 && e.exposure != nil {
		filters = append(filters, &filter.Exposure{Store: e.exposure.kv, Limit: e.cfg.MaxExposure})
	}
	filters = append(filters, e.rules...)

	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			e.fanout,
			e.fusion,
			e.mmr,
			&filter.Node{Filters: filters},
			&rerank.TopN{},
		},
	}
}

// recordExposure 把返回给用户的结果计入曝光；记账失败不影响本次结果。
func (e *Engine) recordExposure(ctx context.Context, userID string, cands []*core.Candidate) {
	if e.exposure == nil || len(cands) == 0 {
		return
	}
	if err := e.exposure.Record(ctx, userID, cands); err != nil {
		e.logger.Warn("exposure record failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}

// MostExposed 返回某用户曝光次数最多的前 n 道题（运营/调试入口）。
// 未启用曝光记录（底层 Store 不支持 zset）时返回空。
func (e *Engine) MostExposed(ctx context.Context, userID string, n int) ([]string, error) {
	if e.exposure == nil {
		return nil, nil
	}
	return e.exposure.MostExposed(ctx, userID, n)
}

// enrichMastery 画像缺少掌握度时，从在线特征存储补齐。
// 特征源失败只降级为"沿用画像"，不影响主链路。
func (e *Engine) enrichMastery(ctx context.Context, profile *core.UserProfile) {
	if e.mastery == nil || len(profile.Mastery) > 0 {
		return
	}
	scores, err := e.mastery.MasteryScores(ctx, profile.UserID)
	if err != nil {
		e.logger.Warn("mastery feature lookup failed",
			zap.String("user_id", profile.UserID),
			zap.Error(err),
		)
		return
	}
	if len(scores) > 0 {
		profile.Mastery = scores
	}
}

func (e *Engine) logEvent(
	eventID string,
	req *core.RecommendRequest,
	cands []*core.Candidate,
	cacheHit, degraded bool,
	start time.Time,
) {
	// 按来源策略统计，便于观测各策略的实际贡献
	mix := make(map[string]int, 4)
	for _, c := range cands {
		mix[c.Strategy]++
	}

	e.logger.Info("recommendation served",
		zap.String("event_id", eventID),
		zap.String("user_id", req.UserID),
		zap.Int("requested", req.Count),
		zap.Int("returned", len(cands)),
		zap.Bool("cache_hit", cacheHit),
		zap.Bool("degraded", degraded),
		zap.Any("strategy_mix", mix),
		zap.Duration("elapsed", time.Since(start)),
	)
}
