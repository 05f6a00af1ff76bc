package feature

import (
	"context"
	"fmt"
	"strings"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"
)

// FeastProvider 是基于 Feast Feature Store 的掌握度特征提供方。
//
// 约定：
//   - 实体键为 user_id
//   - 特征名为 {FeatureView}:{知识点}，例如 "user_mastery:algebra"
//   - 特征值为 double，[0,1] 的掌握分
type FeastProvider struct {
	client *feastsdk.GrpcClient

	// Project Feast 项目名称
	Project string

	// FeatureView 掌握度特征所在的 feature view，默认 "user_mastery"
	FeatureView string

	// KnowledgePoints 需要拉取的知识点列表（feature view 的字段名）
	KnowledgePoints []string
}

// NewFeastProvider 创建 Feast 掌握度提供方（gRPC，默认端口 6565）。
func NewFeastProvider(host string, port int, project string, points []string) (*FeastProvider, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("feature: connect feast %s:%d: %w", host, port, err)
	}
	return &FeastProvider{
		client:          client,
		Project:         project,
		FeatureView:     "user_mastery",
		KnowledgePoints: points,
	}, nil
}

var _ MasteryProvider = (*FeastProvider)(nil)

func (p *FeastProvider) MasteryScores(ctx context.Context, userID string) (map[string]float64, error) {
	if len(p.KnowledgePoints) == 0 {
		return map[string]float64{}, nil
	}

	view := p.FeatureView
	if view == "" {
		view = "user_mastery"
	}

	features := make([]string, len(p.KnowledgePoints))
	for i, point := range p.KnowledgePoints {
		features[i] = view + ":" + point
	}

	req := &feastsdk.OnlineFeaturesRequest{
		Features: features,
		Entities: []feastsdk.Row{
			{"user_id": feastsdk.StrVal(userID)},
		},
		Project: p.Project,
	}

	resp, err := p.client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("feature: get online features: %w", err)
	}

	rows := resp.Rows()
	if len(rows) == 0 {
		return map[string]float64{}, nil
	}

	out := make(map[string]float64, len(features))
	row := rows[0]
	for _, name := range features {
		val, ok := row[name]
		if !ok {
			continue
		}
		score, ok := doubleValue(val)
		if !ok {
			continue
		}
		// 去掉 "{view}:" 前缀，还原知识点名
		point := name
		if idx := strings.Index(name, ":"); idx >= 0 {
			point = name[idx+1:]
		}
		out[point] = score
	}
	return out, nil
}

func (p *FeastProvider) Close() error {
	return p.client.Close()
}

// doubleValue 从 Feast 的 Value 中提取数值特征。
func doubleValue(val *feasttypes.Value) (float64, bool) {
	if val == nil {
		return 0, false
	}
	switch v := val.Val.(type) {
	case *feasttypes.Value_DoubleVal:
		return v.DoubleVal, true
	case *feasttypes.Value_FloatVal:
		return float64(v.FloatVal), true
	case *feasttypes.Value_Int64Val:
		return float64(v.Int64Val), true
	case *feasttypes.Value_Int32Val:
		return float64(v.Int32Val), true
	default:
		return 0, false
	}
}
