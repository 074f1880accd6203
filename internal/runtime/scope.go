package runtime

import (
	"fmt"
	"reflect"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// scope builds the injected context for a non-root node: spread the initial
// input, then set the latest result under the active key, then the settlement.
func (inv *invocation) scope(inject domain.Inject, fr frame) domain.Scope {
	s := make(domain.Scope)
	if inject.Has(domain.InjectInput) {
		for k, v := range inv.input {
			s[k] = v
		}
	}
	if inject.Has(domain.InjectResult) {
		s[fr.resultKey] = fr.result
	}
	if inject.Has(domain.InjectSettlement) && fr.settlement != "" {
		s[domain.SettlementKey] = string(fr.settlement)
	}
	return s
}

// decodeInput turns the initial input into a field mapping.
// Structs and non-string-keyed maps go through mapstructure; scalars and
// slices are exposed under domain.InitialValueKey.
func decodeInput(input any) (domain.Scope, error) {
	switch v := input.(type) {
	case nil:
		return domain.Scope{}, nil
	case domain.Scope:
		return v.Clone(), nil
	case map[string]any:
		return domain.Scope(v).Clone(), nil
	}

	rv := reflect.ValueOf(input)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return domain.Scope{}, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct, reflect.Map:
		fields := make(map[string]any)
		if err := mapstructure.Decode(rv.Interface(), &fields); err != nil {
			return nil, fmt.Errorf("failed to decode initial input: %w", err)
		}
		return domain.Scope(fields), nil
	default:
		return domain.Scope{domain.InitialValueKey: input}, nil
	}
}
