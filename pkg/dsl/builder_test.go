package dsl

import (
	"context"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/future"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(ctx context.Context, s domain.Scope) (any, error) { return nil, nil }

func TestBuilder_BranchingFlow(t *testing.T) {
	// 1. Build the tree using the DSL
	root := Async("delete", func(ctx context.Context, s domain.Scope) *future.Future {
		return future.Resolve(nil)
	}).
		ResultKey("response").
		Then(
			Sync("request-failed", noop).WhenRejected(),
			Sync("delete-failed", noop).
				InjectWhen(Result, Settlement).
				When(func(s domain.Scope) bool { return s.Fulfilled() }),
			Sync("reload", noop).Inject(Input),
		)

	// 2. Compile
	tree, err := Tree(root)
	require.NoError(t, err)

	// 3. Verify the shape
	assert.Equal(t, "delete", tree.Name)
	assert.Equal(t, domain.ModeAsync, tree.Executor.Mode())
	assert.Equal(t, "response", tree.ResultKey)
	require.Len(t, tree.Children, 3)

	failed := tree.Children[0]
	assert.NotNil(t, failed.Condition)
	assert.Equal(t, domain.InjectDefault, failed.InjectCondition)
	assert.True(t, failed.Condition(domain.Scope{domain.SettlementKey: future.Rejected}))
	assert.True(t, failed.IsLeaf())

	refused := tree.Children[1]
	assert.Equal(t, domain.InjectResult|domain.InjectSettlement, refused.InjectCondition)

	reload := tree.Children[2]
	assert.Equal(t, domain.InjectInput, reload.Inject)
	assert.Nil(t, reload.Condition)
}

func TestBuilder_WhenRejectedKeepsSettlementInjected(t *testing.T) {
	n := Sync("x", noop).InjectWhen().WhenRejected()
	assert.Equal(t, domain.InjectSettlement, n.Build().InjectCondition)

	n = Sync("y", noop).InjectWhen(Result).WhenFulfilled()
	assert.Equal(t, domain.InjectResult|domain.InjectSettlement, n.Build().InjectCondition)
}

func TestBuilder_EmptyInjectMeansNothing(t *testing.T) {
	assert.Equal(t, domain.InjectNothing, Sync("x", noop).Inject().Build().Inject)
}

func TestBuilder_BuildProducesFreshTrees(t *testing.T) {
	b := Sync("root", noop).Then(Sync("a", noop))
	first := b.Build()

	b.Then(Sync("b", noop))
	second := b.Build()

	assert.Len(t, first.Children, 1)
	assert.Len(t, second.Children, 2)
	assert.NotSame(t, first, second)
}

func TestBuilder_SharedSubtree(t *testing.T) {
	shared := Sync("shared", noop)
	tree := Sync("root", noop).Then(Sync("a", noop).Then(shared), shared).Build()

	assert.Same(t, tree.Children[0].Children[0], tree.Children[1])
}

func TestTree_Invalid(t *testing.T) {
	_, err := Tree(Sync("root", noop).When(func(domain.Scope) bool { return true }))
	assert.ErrorIs(t, err, domain.ErrRootCondition)

	_, err = Tree(Do("root", nil))
	assert.ErrorIs(t, err, domain.ErrMissingExecutor)

	assert.Panics(t, func() { MustTree(Do("root", nil)) })
}
