package feature

import "context"

// MasteryProvider 提供用户的知识点掌握度特征。
//
// 画像存储里的掌握度可能缺失或滞后（画像链路按天跑批），在线特征
// 存储（Feast 等）里的掌握度更新更快；引擎在画像缺少掌握度时通过
// 此接口补齐，再交给知识缺口策略。
type MasteryProvider interface {
	// MasteryScores 返回用户在各知识点上的掌握度 [0,1]；
	// 无数据时返回空 map，不算错误
	MasteryScores(ctx context.Context, userID string) (map[string]float64, error)

	// Close 释放连接资源
	Close() error
}
