package engine

import (
	"context"
	"strconv"

	"github.com/learnkit/quizrec/core"
)

// exposureTracker 记录题目曝光。
//
// 两个维度：
//   - 用户维度：zset，member 为题目 ID，score 为累计曝光次数，
//     供曝光过滤器判断"同一道题推给同一个用户太多次"
//   - 题目维度：全局计数 key，供运营侧观测题目的投放热度
type exposureTracker struct {
	kv core.KeyValueStore
}

func userExposureKey(userID string) string { return "rec:exposure:" + userID }
func usageKey(questionID string) string    { return "rec:usage:" + questionID }

// Record 把一次返回给用户的结果计入曝光。
func (t *exposureTracker) Record(ctx context.Context, userID string, cands []*core.Candidate) error {
	key := userExposureKey(userID)
	usageKeys := make([]string, 0, len(cands))
	for _, c := range cands {
		cnt, err := t.kv.ZScore(ctx, key, c.QuestionID)
		if err != nil && !core.IsStoreNotFound(err) {
			return err
		}
		if err := t.kv.ZAdd(ctx, key, cnt+1, c.QuestionID); err != nil {
			return err
		}
		usageKeys = append(usageKeys, usageKey(c.QuestionID))
	}

	// 全局热度计数：批量读改写
	counts, err := t.kv.BatchGet(ctx, usageKeys)
	if err != nil {
		return err
	}
	next := make(map[string][]byte, len(usageKeys))
	for _, k := range usageKeys {
		n := 0
		if raw, ok := counts[k]; ok {
			if parsed, perr := strconv.Atoi(string(raw)); perr == nil {
				n = parsed
			}
		}
		next[k] = []byte(strconv.Itoa(n + 1))
	}
	return t.kv.BatchSet(ctx, next)
}

// MostExposed 返回某用户曝光次数最多的前 n 道题（曝光次数降序）。
func (t *exposureTracker) MostExposed(ctx context.Context, userID string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	return t.kv.ZRange(ctx, userExposureKey(userID), 0, int64(n-1))
}
