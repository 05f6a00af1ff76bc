package strategy

import (
	"context"
	"math"
	"testing"

	"github.com/learnkit/quizrec/core"
	"github.com/learnkit/quizrec/similarity"
	"github.com/learnkit/quizrec/store"
)

func rctxFor(profile *core.UserProfile, req *core.RecommendRequest) *core.RecommendContext {
	return &core.RecommendContext{Request: req, Profile: profile}
}

func TestKnowledge_TargetsWeakPoints(t *testing.T) {
	g := store.NewMemoryGateway()
	g.AddQuestion(&core.Question{ID: "q1", Difficulty: 3, KnowledgePoints: []string{"K7"}})
	g.AddQuestion(&core.Question{ID: "q2", Difficulty: 2, KnowledgePoints: []string{"K9"}})
	g.AddQuestion(&core.Question{ID: "q3", Difficulty: 2, KnowledgePoints: []string{"K1"}})

	profile := core.NewUserProfile("u1")
	profile.Mastery = map[string]float64{"K7": 0.2, "K9": 0.5, "K1": 0.9}

	s := &Knowledge{Gateway: g, Weight: 0.25, WeakThreshold: 0.6}
	out, err := s.Recommend(context.Background(), rctxFor(profile, &core.RecommendRequest{UserID: "u1", Count: 5}))
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if len(out) != 2 {
		t.Fatalf("两个薄弱点应产出 2 个候选，got %d", len(out))
	}
	// 紧迫度 = 1 - 掌握度：K7 (0.8) 排在 K9 (0.5) 之前
	if out[0].QuestionID != "q1" || out[1].QuestionID != "q2" {
		t.Errorf("应按紧迫度排序 q1, q2，got %s, %s", out[0].QuestionID, out[1].QuestionID)
	}
	if math.Abs(out[0].Score-0.8*0.25) > 1e-9 {
		t.Errorf("q1 分数应为紧迫度×权重 = 0.2，got %v", out[0].Score)
	}
	if out[0].Confidence != 0.85 {
		t.Errorf("知识缺口置信度应为 0.85，got %v", out[0].Confidence)
	}
}

func TestKnowledge_RecentWrongAnswersSupplementProfile(t *testing.T) {
	g := store.NewMemoryGateway()
	g.AddQuestion(&core.Question{ID: "wrong1", Difficulty: 3, KnowledgePoints: []string{"K5"}})
	g.AddQuestion(&core.Question{ID: "q1", Difficulty: 2, KnowledgePoints: []string{"K5"}})
	g.AddAnswer("u1", core.AnswerRecord{QuestionID: "wrong1", Correct: false})

	// 画像没有任何薄弱点，信号完全来自近期错题
	profile := core.NewUserProfile("u1")
	profile.Mastery = map[string]float64{"K1": 0.9}

	s := &Knowledge{Gateway: g, Weight: 0.25, WeakThreshold: 0.6}
	out, err := s.Recommend(context.Background(), rctxFor(profile, &core.RecommendRequest{
		UserID: "u1", Count: 5, PrioritizeWeakPoints: true,
	}))
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if len(out) == 0 {
		t.Fatal("近期错题覆盖的知识点应产出候选")
	}
	for _, c := range out {
		if !c.Question.HasKnowledgePoint("K5") {
			t.Errorf("候选应覆盖错题知识点 K5，got %s", c.QuestionID)
		}
	}

	// 未要求优先薄弱点时不挖掘错题，画像又无薄弱点 → 空
	out, err = s.Recommend(context.Background(), rctxFor(profile, &core.RecommendRequest{UserID: "u1", Count: 5}))
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(out) != 0 {
		t.Errorf("未要求优先薄弱点时不应产出错题候选，got %d", len(out))
	}
}

func TestKnowledge_NoWeakPointsReturnsEmpty(t *testing.T) {
	g := store.NewMemoryGateway()
	g.AddQuestion(&core.Question{ID: "q1", KnowledgePoints: []string{"K1"}})

	profile := core.NewUserProfile("u1")
	profile.Mastery = map[string]float64{"K1": 0.9}

	s := &Knowledge{Gateway: g, Weight: 0.25, WeakThreshold: 0.6}
	out, err := s.Recommend(context.Background(), rctxFor(profile, &core.RecommendRequest{UserID: "u1", Count: 5}))
	if err != nil {
		t.Fatalf("无薄弱点不应是错误，got %v", err)
	}
	if len(out) != 0 {
		t.Errorf("无薄弱点应返回空列表，got %d", len(out))
	}
}

func TestCollaborative_AggregatesPeerHistory(t *testing.T) {
	g := store.NewMemoryGateway()
	g.AddQuestion(&core.Question{ID: "q1", Difficulty: 3})
	g.AddQuestion(&core.Question{ID: "q2", Difficulty: 3})

	// 同伴答对 q1、答错 q2：q1 信号更强
	g.AddAnswer("peer", core.AnswerRecord{QuestionID: "q1", Correct: true})
	g.AddAnswer("peer", core.AnswerRecord{QuestionID: "q2", Correct: false})

	sim := similarity.NewMemoryService()
	sim.SetUserVector("peer", map[string]float64{"K1": 0.3, "K2": 0.8})

	profile := core.NewUserProfile("u1")
	profile.Mastery = map[string]float64{"K1": 0.3, "K2": 0.8}

	s := &Collaborative{Gateway: g, Similarity: sim, Weight: 0.3}
	out, err := s.Recommend(context.Background(), rctxFor(profile, &core.RecommendRequest{UserID: "u1", Count: 5}))
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if len(out) != 2 {
		t.Fatalf("应返回 2 个候选，got %d", len(out))
	}
	if out[0].QuestionID != "q1" {
		t.Errorf("同伴答对的 q1 应排在前面，got %s", out[0].QuestionID)
	}
	// 归一化后最强信号 × 权重
	if math.Abs(out[0].Score-0.3) > 1e-9 {
		t.Errorf("q1 分数应为 0.3，got %v", out[0].Score)
	}
	if math.Abs(out[1].Score-0.3*0.3) > 1e-9 {
		t.Errorf("q2 分数应为 0.09，got %v", out[1].Score)
	}
	if out[0].Confidence != 0.8 {
		t.Errorf("协同置信度应为 0.8，got %v", out[0].Confidence)
	}
}

// zeroSimService 返回相似度为 0 的同伴（[0,1] 契约的下界）。
type zeroSimService struct{}

func (zeroSimService) FindSimilarUsers(context.Context, string, *core.UserProfile) ([]core.UserSimilarity, error) {
	return []core.UserSimilarity{{UserID: "peer", Similarity: 0}}, nil
}

func (zeroSimService) FindSimilarQuestions(context.Context, map[string]float64, core.QuestionFilter) ([]core.QuestionSimilarity, error) {
	return nil, nil
}

func TestCollaborative_ZeroSimilarityPeersYieldNoCandidates(t *testing.T) {
	g := store.NewMemoryGateway()
	g.AddQuestion(&core.Question{ID: "q1", Difficulty: 3})
	g.AddAnswer("peer", core.AnswerRecord{QuestionID: "q1", Correct: true})

	profile := core.NewUserProfile("u1")
	profile.Mastery = map[string]float64{"K1": 0.3}

	s := &Collaborative{Gateway: g, Similarity: zeroSimService{}, Weight: 0.3}
	out, err := s.Recommend(context.Background(), rctxFor(profile, &core.RecommendRequest{UserID: "u1", Count: 5}))
	if err != nil {
		t.Fatalf("零相似度同伴不应是错误，got %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("零相似度同伴应视为无信号，got %d 个候选", len(out))
	}
	for _, c := range out {
		if math.IsNaN(c.Score) || c.Score < 0 {
			t.Errorf("候选分数必须非负：%s = %v", c.QuestionID, c.Score)
		}
	}
}

func TestCollaborative_NoPeersReturnsEmpty(t *testing.T) {
	profile := core.NewUserProfile("u1")
	profile.Mastery = map[string]float64{"K1": 0.3}

	s := &Collaborative{Gateway: store.NewMemoryGateway(), Similarity: similarity.NewMemoryService(), Weight: 0.3}
	out, err := s.Recommend(context.Background(), rctxFor(profile, &core.RecommendRequest{UserID: "u1", Count: 5}))
	if err != nil {
		t.Fatalf("无相似用户不应是错误，got %v", err)
	}
	if len(out) != 0 {
		t.Errorf("无相似用户应返回空列表，got %d", len(out))
	}
}

func TestContent_RecommendsByFeatureSimilarity(t *testing.T) {
	g := store.NewMemoryGateway()
	g.AddQuestion(&core.Question{
		ID: "done", Difficulty: 3,
		Features: map[string]float64{"algebra": 1.0, "geometry": 0.2},
	})
	g.AddQuestion(&core.Question{
		ID: "near", Difficulty: 3,
		Features: map[string]float64{"algebra": 0.9, "geometry": 0.3},
	})
	g.AddQuestion(&core.Question{
		ID: "far", Difficulty: 3,
		Features: map[string]float64{"algebra": 0.1, "geometry": 1.0},
	})
	g.AddAnswer("u1", core.AnswerRecord{QuestionID: "done", Correct: true})

	sim := similarity.NewMemoryService()
	sim.SetQuestionVector("near", map[string]float64{"algebra": 0.9, "geometry": 0.3})
	sim.SetQuestionVector("far", map[string]float64{"algebra": 0.1, "geometry": 1.0})

	s := &Content{Gateway: g, Similarity: sim, Weight: 0.3}
	out, err := s.Recommend(context.Background(), rctxFor(core.NewUserProfile("u1"), &core.RecommendRequest{UserID: "u1", Count: 5}))
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if len(out) == 0 {
		t.Fatal("应产出候选")
	}
	if out[0].QuestionID != "near" {
		t.Errorf("特征更接近的 near 应排首位，got %s", out[0].QuestionID)
	}
	if out[0].Confidence != 0.75 {
		t.Errorf("内容策略置信度应为 0.75，got %v", out[0].Confidence)
	}
}

func TestContent_NoHistoryReturnsEmpty(t *testing.T) {
	s := &Content{Gateway: store.NewMemoryGateway(), Similarity: similarity.NewMemoryService(), Weight: 0.3}
	out, err := s.Recommend(context.Background(), rctxFor(core.NewUserProfile("u1"), &core.RecommendRequest{UserID: "u1", Count: 5}))
	if err != nil {
		t.Fatalf("无历史不应是错误，got %v", err)
	}
	if len(out) != 0 {
		t.Errorf("无历史应返回空列表，got %d", len(out))
	}
}

func TestPreference_DifficultyBand(t *testing.T) {
	g := store.NewMemoryGateway()
	for i := 1; i <= 5; i++ {
		g.AddQuestion(&core.Question{ID: string(rune('a' + i - 1)), Difficulty: i})
	}

	s := &Preference{Gateway: g, Weight: 0.15}
	out, err := s.Recommend(context.Background(), rctxFor(
		core.NewUserProfile("u1"),
		&core.RecommendRequest{UserID: "u1", Count: 10, DifficultyPreference: 3},
	))
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	// 偏好难度 3 → 只取难度 2~4
	if len(out) != 3 {
		t.Fatalf("应返回 3 个候选，got %d", len(out))
	}
	for _, c := range out {
		if c.Question.Difficulty < 2 || c.Question.Difficulty > 4 {
			t.Errorf("难度 %d 超出偏好窄带 [2,4]", c.Question.Difficulty)
		}
	}
	// 难度完全命中的题目匹配度 1.0
	if out[0].Question.Difficulty != 3 {
		t.Errorf("完全命中偏好难度的题应排首位，got 难度 %d", out[0].Question.Difficulty)
	}
	if math.Abs(out[0].Score-0.15) > 1e-9 {
		t.Errorf("完全命中的分数应为权重 0.15，got %v", out[0].Score)
	}
	// 相差 1 档的匹配度 1 - 1/4
	if math.Abs(out[1].Score-0.75*0.15) > 1e-9 {
		t.Errorf("相差 1 档的分数应为 0.1125，got %v", out[1].Score)
	}
}

func TestPreference_RequestOverridesProfile(t *testing.T) {
	g := store.NewMemoryGateway()
	g.AddQuestion(&core.Question{ID: "easy", Difficulty: 1})
	g.AddQuestion(&core.Question{ID: "hard", Difficulty: 5})

	profile := core.NewUserProfile("u1")
	profile.Preference.PreferredDifficulty = 1

	s := &Preference{Gateway: g, Weight: 0.15}
	out, err := s.Recommend(context.Background(), rctxFor(profile, &core.RecommendRequest{
		UserID: "u1", Count: 5, DifficultyPreference: 5,
	}))
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if len(out) != 1 || out[0].QuestionID != "hard" {
		t.Errorf("请求偏好应覆盖画像偏好，只取难度 4~5，got %+v", out)
	}
}

func TestPreference_NoPreferenceReturnsEmpty(t *testing.T) {
	g := store.NewMemoryGateway()
	g.AddQuestion(&core.Question{ID: "q1", Difficulty: 3})

	s := &Preference{Gateway: g, Weight: 0.15}
	out, err := s.Recommend(context.Background(), rctxFor(
		core.NewUserProfile("u1"),
		&core.RecommendRequest{UserID: "u1", Count: 5},
	))
	if err != nil {
		t.Fatalf("无声明偏好不应是错误，got %v", err)
	}
	if len(out) != 0 {
		t.Errorf("无声明偏好应返回空列表，got %d", len(out))
	}
}
