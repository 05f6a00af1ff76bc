package rerank

import (
	"context"
	"testing"

	"github.com/learnkit/quizrec/core"
)

func TestTopN_Truncates(t *testing.T) {
	in := []*core.Candidate{
		kgCand("q1", 0.9, []string{"K1"}, 3, core.QuestionTypeSingleChoice),
		kgCand("q2", 0.8, []string{"K2"}, 2, core.QuestionTypeMultiChoice),
		kgCand("q3", 0.7, []string{"K3"}, 1, core.QuestionTypeEssay),
	}

	n := &TopN{N: 2}
	out, err := n.Process(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 2 || out[0].QuestionID != "q1" || out[1].QuestionID != "q2" {
		t.Errorf("应保留前 2 个候选，got %+v", out)
	}
}

func TestTopN_FallsBackToRequestCount(t *testing.T) {
	in := []*core.Candidate{
		kgCand("q1", 0.9, []string{"K1"}, 3, core.QuestionTypeSingleChoice),
		kgCand("q2", 0.8, []string{"K2"}, 2, core.QuestionTypeMultiChoice),
	}
	rctx := &core.RecommendContext{Request: &core.RecommendRequest{UserID: "u1", Count: 1}}

	n := &TopN{}
	out, err := n.Process(context.Background(), rctx, in)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 1 || out[0].QuestionID != "q1" {
		t.Errorf("N 未设置时应按请求数量截断，got %+v", out)
	}
}

func TestTopN_PassthroughWhenShort(t *testing.T) {
	in := []*core.Candidate{
		kgCand("q1", 0.9, []string{"K1"}, 3, core.QuestionTypeSingleChoice),
	}

	n := &TopN{N: 5}
	out, err := n.Process(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 1 {
		t.Errorf("候选不足时应原样返回，got %d", len(out))
	}

	// 既无 N 也无请求上下文时不截断
	n = &TopN{}
	out, err = n.Process(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 1 {
		t.Errorf("无截断依据时应原样返回，got %d", len(out))
	}
}
