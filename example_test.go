package arbor_test

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/dsl"
	"github.com/aretw0/arbor/pkg/future"
	"github.com/aretw0/arbor/pkg/registry"
)

// ExampleCompose shows a synchronous tree: the first eligible leaf ends the traversal.
func ExampleCompose() {
	tree := dsl.MustTree(
		dsl.Sync("price", func(ctx context.Context, s domain.Scope) (any, error) {
			return s["quantity"].(int) * 3, nil
		}).ResultKey("total").Then(
			dsl.Sync("free-shipping", func(ctx context.Context, s domain.Scope) (any, error) {
				return "free shipping", nil
			}).When(func(s domain.Scope) bool { return s["total"].(int) >= 100 }),
			dsl.Sync("standard", func(ctx context.Context, s domain.Scope) (any, error) {
				return fmt.Sprintf("total %d + shipping", s["total"]), nil
			}),
		),
	)

	invoke, err := arbor.Compose(tree)
	if err != nil {
		log.Fatal(err)
	}

	for _, quantity := range []int{10, 40} {
		res, err := invoke(context.Background(), map[string]any{"quantity": quantity})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(res.IsDeferred(), res.Value)
	}
	// Output:
	// false total 30 + shipping
	// false free shipping
}

// ExampleEngine_Invoke_async shows a rejection routed to a branch instead of being raised.
func ExampleEngine_Invoke_async() {
	tree := dsl.MustTree(
		dsl.Async("delete", func(ctx context.Context, s domain.Scope) *future.Future {
			return future.Reject(errors.New("connection refused"))
		}).Then(
			dsl.Sync("report", func(ctx context.Context, s domain.Scope) (any, error) {
				return fmt.Sprintf("delete failed: %v", s[domain.DefaultResultKey]), nil
			}).WhenRejected(),
			dsl.Sync("reload", func(ctx context.Context, s domain.Scope) (any, error) {
				return "reloaded", nil
			}),
		),
	)

	engine, err := arbor.New(tree)
	if err != nil {
		log.Fatal(err)
	}

	res, err := engine.Invoke(context.Background(), nil)
	if err != nil {
		log.Fatal(err)
	}
	value, err := res.Wait()
	fmt.Println(res.IsDeferred(), value, err)
	// Output:
	// true delete failed: connection refused <nil>
}

// ExampleLoad builds the same kind of tree from YAML.
func ExampleLoad() {
	reg := registry.NewRegistry()
	reg.RegisterAsync("http.get", func(ctx context.Context, s domain.Scope) *future.Future {
		return future.Resolve(map[string]any{"status": 404})
	})
	reg.RegisterSync("describe", func(ctx context.Context, s domain.Scope) (any, error) {
		res := s["response"].(map[string]any)
		return fmt.Sprintf("%s: status %v", s.Settlement(), res["status"]), nil
	})
	reg.RegisterSync("not-found", func(ctx context.Context, s domain.Scope) (any, error) {
		return "not found", nil
	})

	engine, err := arbor.Load([]byte(`
name: lookup
do: http.get
result_key: response
children:
  - do: not-found
    when: response.status === 404
  - do: describe
`), reg)
	if err != nil {
		log.Fatal(err)
	}

	res, _ := engine.Invoke(context.Background(), nil)
	value, _ := res.Wait()
	fmt.Println(engine.Name, value)
	// Output:
	// lookup not found
}
