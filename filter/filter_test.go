package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/learnkit/quizrec/core"
	"github.com/learnkit/quizrec/store"
)

func filterCand(qid string, difficulty int, rate float64) *core.Candidate {
	return core.NewCandidate(
		&core.Question{ID: qid, Difficulty: difficulty, CorrectRate: rate},
		0.5, "test", 0.8, core.StrategyKnowledge,
	)
}

func filterRctx(excludeAnswered bool) *core.RecommendContext {
	return &core.RecommendContext{
		Request: &core.RecommendRequest{UserID: "u1", Count: 5, ExcludeAnswered: excludeAnswered},
	}
}

func TestAnswered_NoopWhenNotRequested(t *testing.T) {
	g := store.NewMemoryGateway()
	g.AddAnswer("u1", core.AnswerRecord{QuestionID: "q1", Correct: true})

	f := NewAnswered(g)
	ok, err := f.ShouldFilter(context.Background(), filterRctx(false), filterCand("q1", 3, 0.5))
	if err != nil {
		t.Fatalf("ShouldFilter() error = %v", err)
	}
	if ok {
		t.Error("未要求剔除已答题目时应放行")
	}
}

func TestAnswered_FiltersAnsweredQuestions(t *testing.T) {
	g := store.NewMemoryGateway()
	g.AddAnswer("u1", core.AnswerRecord{QuestionID: "q1", Correct: true})
	g.AddAnswer("u1", core.AnswerRecord{QuestionID: "q2", Correct: false})

	f := NewAnswered(g)
	rctx := filterRctx(true)
	ctx := context.Background()

	tests := []struct {
		qid  string
		want bool
	}{
		{"q1", true},
		{"q2", true},
		{"q3", false},
	}
	for _, tt := range tests {
		ok, err := f.ShouldFilter(ctx, rctx, filterCand(tt.qid, 3, 0.5))
		if err != nil {
			t.Fatalf("ShouldFilter(%s) error = %v", tt.qid, err)
		}
		if ok != tt.want {
			t.Errorf("ShouldFilter(%s) = %v, want %v", tt.qid, ok, tt.want)
		}
	}
}

func TestRule_FiltersByExpression(t *testing.T) {
	f, err := NewRule("question.difficulty >= 5 && question.correct_rate < 0.2")
	if err != nil {
		t.Fatalf("NewRule() error = %v", err)
	}
	rctx := filterRctx(false)
	ctx := context.Background()

	ok, err := f.ShouldFilter(ctx, rctx, filterCand("hard", 5, 0.1))
	if err != nil {
		t.Fatalf("ShouldFilter() error = %v", err)
	}
	if !ok {
		t.Error("超纲难题应被规则命中")
	}

	ok, err = f.ShouldFilter(ctx, rctx, filterCand("normal", 3, 0.6))
	if err != nil {
		t.Fatalf("ShouldFilter() error = %v", err)
	}
	if ok {
		t.Error("普通题不应被规则命中")
	}
}

func TestRule_InvalidExpression(t *testing.T) {
	if _, err := NewRule("question.difficulty >=&&"); err == nil {
		t.Error("非法表达式应编译失败")
	}
	if _, err := NewRule(""); err == nil {
		t.Error("空表达式应编译失败")
	}
}

func TestExposure_FiltersAtLimit(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	// u1 对 q1 已曝光 2 次，q2 曝光 1 次，q3 无计数
	if err := s.ZAdd(ctx, "rec:exposure:u1", 2, "q1"); err != nil {
		t.Fatal(err)
	}
	if err := s.ZAdd(ctx, "rec:exposure:u1", 1, "q2"); err != nil {
		t.Fatal(err)
	}

	f := &Exposure{Store: s, Limit: 2}
	rctx := filterRctx(false)

	tests := []struct {
		qid  string
		want bool
	}{
		{"q1", true},
		{"q2", false},
		{"q3", false},
	}
	for _, tt := range tests {
		ok, err := f.ShouldFilter(ctx, rctx, filterCand(tt.qid, 3, 0.5))
		if err != nil {
			t.Fatalf("ShouldFilter(%s) error = %v", tt.qid, err)
		}
		if ok != tt.want {
			t.Errorf("ShouldFilter(%s) = %v, want %v", tt.qid, ok, tt.want)
		}
	}
}

func TestExposure_DisabledWhenNoLimit(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()
	ctx := context.Background()
	if err := s.ZAdd(ctx, "rec:exposure:u1", 100, "q1"); err != nil {
		t.Fatal(err)
	}

	f := &Exposure{Store: s, Limit: 0}
	ok, err := f.ShouldFilter(ctx, filterRctx(false), filterCand("q1", 3, 0.5))
	if err != nil {
		t.Fatalf("ShouldFilter() error = %v", err)
	}
	if ok {
		t.Error("上限为 0 时不应过滤")
	}
}

// errFilter 总是返回错误，用于验证保守放行。
type errFilter struct{}

func (errFilter) Name() string { return "filter.err" }
func (errFilter) ShouldFilter(context.Context, *core.RecommendContext, *core.Candidate) (bool, error) {
	return true, errors.New("filter backend down")
}

func TestNode_ErrorFilterPassesThrough(t *testing.T) {
	n := &Node{Filters: []Filter{errFilter{}}}
	in := []*core.Candidate{filterCand("q1", 3, 0.5)}

	out, err := n.Process(context.Background(), filterRctx(false), in)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 1 {
		t.Errorf("过滤器出错时应保守放行，got %d", len(out))
	}
}

func TestNode_FilteredCandidateGetsLabel(t *testing.T) {
	rule, err := NewRule("question.difficulty >= 5")
	if err != nil {
		t.Fatalf("NewRule() error = %v", err)
	}
	n := &Node{Filters: []Filter{rule}}

	hard := filterCand("hard", 5, 0.5)
	easy := filterCand("easy", 2, 0.5)
	out, err := n.Process(context.Background(), filterRctx(false), []*core.Candidate{hard, easy})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(out) != 1 || out[0].QuestionID != "easy" {
		t.Fatalf("应只保留 easy，got %+v", out)
	}
	label, ok := hard.Labels["filtered"]
	if !ok {
		t.Fatal("被剔除的候选应带 filtered 标签")
	}
	if label.Source != rule.Name() {
		t.Errorf("filtered 标签来源应为规则名，got %s", label.Source)
	}
}
