package runtime

import (
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/future"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInput(t *testing.T) {
	type request struct {
		ID   int    `mapstructure:"id"`
		Path string `mapstructure:"path"`
	}

	tests := []struct {
		name  string
		input any
		want  domain.Scope
	}{
		{name: "nil", input: nil, want: domain.Scope{}},
		{name: "map", input: map[string]any{"a": 1}, want: domain.Scope{"a": 1}},
		{name: "scope", input: domain.Scope{"a": 1}, want: domain.Scope{"a": 1}},
		{name: "string map", input: map[string]string{"a": "x"}, want: domain.Scope{"a": "x"}},
		{name: "struct", input: request{ID: 3, Path: "/items"}, want: domain.Scope{"id": 3, "path": "/items"}},
		{name: "struct pointer", input: &request{ID: 4}, want: domain.Scope{"id": 4, "path": ""}},
		{name: "nil pointer", input: (*request)(nil), want: domain.Scope{}},
		{name: "scalar", input: 10, want: domain.Scope{domain.InitialValueKey: 10}},
		{name: "slice", input: []int{1, 2}, want: domain.Scope{domain.InitialValueKey: []int{1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeInput(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeInput_CopiesMaps(t *testing.T) {
	in := map[string]any{"a": 1}
	got, err := decodeInput(in)
	require.NoError(t, err)

	got["b"] = 2
	assert.NotContains(t, in, "b")
}

func TestInvocationScope(t *testing.T) {
	inv := &invocation{input: domain.Scope{"foo": 1, "returnValue": "shadowed"}}
	fr := frame{result: 42, settlement: future.Rejected, resultKey: "response"}

	assert.Equal(t, domain.Scope{
		"foo":                1,
		"returnValue":        "shadowed",
		"response":           42,
		domain.SettlementKey: "rejected",
	}, inv.scope(domain.InjectDefault, fr))

	assert.Equal(t, domain.Scope{domain.SettlementKey: "rejected"}, inv.scope(domain.InjectSettlement, fr))

	// the result field is set after the input spread and overrides it
	assert.Equal(t, domain.Scope{"foo": 42, "returnValue": "shadowed"}, inv.scope(domain.InjectInput|domain.InjectResult, frame{result: 42, resultKey: "foo"}))

	// no settlement before any asynchronous node ran
	assert.NotContains(t, inv.scope(domain.InjectAll, rootFrame()), domain.SettlementKey)
}
