package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/learnkit/quizrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("question", cel.DynType),
		cel.Variable("candidate", cel.DynType),
		cel.Variable("request", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Program 是编译后的业务规则表达式，使用 CEL (Common Expression Language) 实现。
// 表达式一次编译、多次求值，线程安全。
//
// 表达式语法（CEL 标准语法），可用变量：
//   - question: 题目字段，例如 question.difficulty > 4 / question.subject == "math"
//   - candidate: 候选字段，例如 candidate.score < 0.1 / candidate.strategy == "fallback"
//   - request: 请求字段，例如 request.count > 5
//
// 示例：
//   - `question.difficulty >= 5 && question.correct_rate < 0.2` → 过滤超纲难题
//   - `candidate.confidence < 0.3` → 过滤低置信候选
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译一条规则表达式。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return nil, fmt.Errorf("dsl: empty expression")
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("dsl: init env: %w", err)
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("dsl: compile %q: %w", expr, iss.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("dsl: program %q: %w", expr, err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// Expr 返回原始表达式（用于日志/过滤原因标签）。
func (p *Program) Expr() string { return p.expr }

// Match 对单个候选求值；表达式结果非 bool 时视为不匹配。
func (p *Program) Match(cand *core.Candidate, rctx *core.RecommendContext) (bool, error) {
	if cand == nil {
		return false, nil
	}

	question := map[string]any{}
	if q := cand.Question; q != nil {
		question = map[string]any{
			"id":               q.ID,
			"subject":          q.Subject,
			"difficulty":       q.Difficulty,
			"type":             string(q.Type),
			"knowledge_points": q.KnowledgePoints,
			"correct_rate":     q.CorrectRate,
			"attempt_count":    q.AttemptCount,
			"usage_count":      q.UsageCount,
		}
	}
	candidate := map[string]any{
		"question_id": cand.QuestionID,
		"score":       cand.Score,
		"confidence":  cand.Confidence,
		"strategy":    cand.Strategy,
	}
	request := map[string]any{}
	if rctx != nil && rctx.Request != nil {
		request = map[string]any{
			"user_id":          rctx.Request.UserID,
			"count":            rctx.Request.Count,
			"exclude_answered": rctx.Request.ExcludeAnswered,
		}
	}

	out, _, err := p.prg.Eval(map[string]any{
		"question":  question,
		"candidate": candidate,
		"request":   request,
	})
	if err != nil {
		return false, fmt.Errorf("dsl: eval %q: %w", p.expr, err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, nil
	}
	return matched, nil
}
