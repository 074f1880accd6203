package dsl

import (
	"fmt"

	"github.com/aretw0/arbor/internal/validator"
	"github.com/aretw0/arbor/pkg/domain"
)

// Input, Result and Settlement are shorthands for Inject and InjectWhen.
const (
	Input      = domain.InjectInput
	Result     = domain.InjectResult
	Settlement = domain.InjectSettlement
)

// Tree compiles a root builder into a validated action tree.
func Tree(root *NodeBuilder) (*domain.Action, error) {
	action := root.Build()
	if err := validator.ValidateTree(action); err != nil {
		return nil, fmt.Errorf("invalid action tree: %w", err)
	}
	return action, nil
}

// MustTree is Tree for trees declared at package level.
func MustTree(root *NodeBuilder) *domain.Action {
	action, err := Tree(root)
	if err != nil {
		panic(err)
	}
	return action
}
