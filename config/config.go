package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Weights 是四个策略的融合权重，每个权重位于 [0,1]。
// 权重把各策略的分数拉齐到可比量纲；不要求和为 1，按部署固定。
type Weights struct {
	Collaborative float64 `yaml:"collaborative"` // 同伴协同
	Content       float64 `yaml:"content"`       // 内容相似
	Knowledge     float64 `yaml:"knowledge"`     // 知识缺口
	Preference    float64 `yaml:"preference"`    // 声明偏好
}

// ColdStart 是冷启动策略参数。
type ColdStart struct {
	// MaxDifficulty 入门题难度上限
	MaxDifficulty int `yaml:"max_difficulty"`

	// MinAttempts 最小历史作答次数（样本不足的题不进冷启动池）
	MinAttempts int `yaml:"min_attempts"`

	// BaseScore / ScoreStep 合成分数：第 i 名得 BaseScore - i*ScoreStep
	BaseScore float64 `yaml:"base_score"`
	ScoreStep float64 `yaml:"score_step"`

	// Confidence 固定置信度（弱信号）
	Confidence float64 `yaml:"confidence"`
}

// Fallback 是降级策略参数。
type Fallback struct {
	// 正确率区间：不挑太难也不挑太容易的题
	MinCorrectRate float64 `yaml:"min_correct_rate"`
	MaxCorrectRate float64 `yaml:"max_correct_rate"`

	// Score / Confidence 所有降级候选的固定分数与置信度
	Score      float64 `yaml:"score"`
	Confidence float64 `yaml:"confidence"`
}

// Diversity 是 MMR 重排的权衡系数。
type Diversity struct {
	// RelevanceWeight × 相关性 + DiversityWeight × 多样性
	RelevanceWeight float64 `yaml:"relevance_weight"`
	DiversityWeight float64 `yaml:"diversity_weight"`
}

// Config 是推荐引擎的完整配置。
//
// 按显式校验的结构体承载所有策略权重与阈值，启动时加载并 Validate 一次，
// 之后只读；不使用松散的 map 配置。
type Config struct {
	// CacheTTLSeconds 推荐结果缓存的过期秒数
	CacheTTLSeconds int `yaml:"cache_ttl"`

	// StrategyTimeoutSeconds 单个策略的超时秒数
	StrategyTimeoutSeconds int `yaml:"strategy_timeout"`

	// WeakThreshold 掌握度低于该值的知识点视为薄弱
	WeakThreshold float64 `yaml:"weak_threshold"`

	// MaxExposure 同一道题对同一个用户的最大曝光次数（0 表示不限制）
	MaxExposure int `yaml:"max_exposure"`

	Weights   Weights   `yaml:"weights"`
	ColdStart ColdStart `yaml:"cold_start"`
	Fallback  Fallback  `yaml:"fallback"`
	Diversity Diversity `yaml:"diversity"`

	// Rules 业务过滤规则（CEL 表达式，命中即剔除），在引擎构造时编译
	Rules []string `yaml:"rules"`
}

// Default 返回默认配置。
func Default() *Config {
	return &Config{
		CacheTTLSeconds:        3600,
		StrategyTimeoutSeconds: 2,
		WeakThreshold:          0.6,
		Weights: Weights{
			Collaborative: 0.3,
			Content:       0.3,
			Knowledge:     0.25,
			Preference:    0.15,
		},
		ColdStart: ColdStart{
			MaxDifficulty: 3,
			MinAttempts:   10,
			BaseScore:     0.8,
			ScoreStep:     0.05,
			Confidence:    0.6,
		},
		Fallback: Fallback{
			MinCorrectRate: 0.3,
			MaxCorrectRate: 0.8,
			Score:          0.5,
			Confidence:     0.4,
		},
		Diversity: Diversity{
			RelevanceWeight: 0.7,
			DiversityWeight: 0.3,
		},
	}
}

// LoadFromYAML 从 YAML 文件加载配置：以默认值为基底，文件字段覆盖，
// 最后整体校验。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CacheTTL 返回缓存 TTL。
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// StrategyTimeout 返回单策略超时。
func (c *Config) StrategyTimeout() time.Duration {
	return time.Duration(c.StrategyTimeoutSeconds) * time.Second
}

// Validate 校验配置合法性。
func (c *Config) Validate() error {
	if c.CacheTTLSeconds <= 0 {
		return fmt.Errorf("config: cache_ttl must be positive, got %d", c.CacheTTLSeconds)
	}
	if c.StrategyTimeoutSeconds <= 0 {
		return fmt.Errorf("config: strategy_timeout must be positive, got %d", c.StrategyTimeoutSeconds)
	}
	if c.WeakThreshold <= 0 || c.WeakThreshold > 1 {
		return fmt.Errorf("config: weak_threshold must be in (0,1], got %v", c.WeakThreshold)
	}
	if c.MaxExposure < 0 {
		return fmt.Errorf("config: max_exposure must be >= 0, got %d", c.MaxExposure)
	}

	for name, w := range map[string]float64{
		"collaborative": c.Weights.Collaborative,
		"content":       c.Weights.Content,
		"knowledge":     c.Weights.Knowledge,
		"preference":    c.Weights.Preference,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("config: weight %s must be in [0,1], got %v", name, w)
		}
	}

	if c.ColdStart.MaxDifficulty < 1 || c.ColdStart.MaxDifficulty > 5 {
		return fmt.Errorf("config: cold_start.max_difficulty must be in [1,5], got %d", c.ColdStart.MaxDifficulty)
	}
	if c.ColdStart.MinAttempts < 0 {
		return fmt.Errorf("config: cold_start.min_attempts must be >= 0, got %d", c.ColdStart.MinAttempts)
	}
	if c.ColdStart.BaseScore <= 0 || c.ColdStart.ScoreStep < 0 {
		return fmt.Errorf("config: cold_start score parameters invalid")
	}

	if c.Fallback.MinCorrectRate < 0 || c.Fallback.MaxCorrectRate > 1 ||
		c.Fallback.MinCorrectRate > c.Fallback.MaxCorrectRate {
		return fmt.Errorf("config: fallback correct-rate band invalid: [%v, %v]",
			c.Fallback.MinCorrectRate, c.Fallback.MaxCorrectRate)
	}

	if c.Diversity.RelevanceWeight < 0 || c.Diversity.DiversityWeight < 0 ||
		c.Diversity.RelevanceWeight+c.Diversity.DiversityWeight == 0 {
		return fmt.Errorf("config: diversity weights invalid: %v/%v",
			c.Diversity.RelevanceWeight, c.Diversity.DiversityWeight)
	}

	return nil
}
