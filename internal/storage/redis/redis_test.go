package redis

import (
	"context"
	"testing"
)

func TestFactoryRejectsBadConfig(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		config map[string]string
	}{
		{"empty addr", map[string]string{KeyAddr: ""}},
		{"non-numeric db", map[string]string{KeyAddr: "localhost:6379", KeyDB: "one"}},
		{"negative db", map[string]string{KeyAddr: "localhost:6379", KeyDB: "-1"}},
		{"bad dial timeout", map[string]string{KeyAddr: "localhost:6379", KeyDialTimeout: "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFactory(ctx, tt.config); err == nil {
				t.Error("expected config error")
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d[KeyAddr] == "" {
		t.Error("expected default addr")
	}
	if d[KeyKeyPrefix] != "savings:" {
		t.Errorf("key prefix = %q", d[KeyKeyPrefix])
	}
}
