// Package store 提供 core.Store / core.KeyValueStore / core.QuestionGateway
// 的基础设施实现。接口定义在 core 包，本包只包含实现。
//
// 示例：
//
//	var kv core.Store = store.NewMemoryStore()         // 测试/开发
//	kv, err := store.NewRedisStore("127.0.0.1:6379", 0) // 生产
package store
