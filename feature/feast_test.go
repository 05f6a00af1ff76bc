package feature

import (
	"testing"

	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"
)

func TestDoubleValue(t *testing.T) {
	tests := []struct {
		name   string
		val    *feasttypes.Value
		want   float64
		wantOK bool
	}{
		{"double", &feasttypes.Value{Val: &feasttypes.Value_DoubleVal{DoubleVal: 0.75}}, 0.75, true},
		{"float", &feasttypes.Value{Val: &feasttypes.Value_FloatVal{FloatVal: 0.5}}, 0.5, true},
		{"int64", &feasttypes.Value{Val: &feasttypes.Value_Int64Val{Int64Val: 1}}, 1, true},
		{"int32", &feasttypes.Value{Val: &feasttypes.Value_Int32Val{Int32Val: 0}}, 0, true},
		{"string not numeric", &feasttypes.Value{Val: &feasttypes.Value_StringVal{StringVal: "x"}}, 0, false},
		{"nil", nil, 0, false},
		{"empty", &feasttypes.Value{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := doubleValue(tt.val)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("doubleValue() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
