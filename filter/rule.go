package filter

import (
	"context"

	"github.com/learnkit/quizrec/core"
	"github.com/learnkit/quizrec/pkg/dsl"
)

// Rule 是规则过滤器：用 CEL 表达式描述的业务规则，命中即剔除。
// 规则在构造时编译一次，求值线程安全，可跨请求复用。
//
// 示例规则：
//   - `question.difficulty >= 5 && question.correct_rate < 0.2`
//   - `candidate.confidence < 0.3`
type Rule struct {
	prg *dsl.Program
}

// NewRule 编译一条规则表达式；表达式非法时返回错误。
func NewRule(expr string) (*Rule, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Rule{prg: prg}, nil
}

func (f *Rule) Name() string { return "filter.rule:" + f.prg.Expr() }

func (f *Rule) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	cand *core.Candidate,
) (bool, error) {
	return f.prg.Match(cand, rctx)
}
