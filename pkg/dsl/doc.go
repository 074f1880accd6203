/*
Package dsl provides a fluent builder for arbor action trees.

It allows developers to declare branching workflows in Go instead of YAML,
keeping executors type-checked and close to the tree that uses them.

Example usage:

	tree := dsl.MustTree(
		dsl.Async("delete", deleteItem).
			ResultKey("response").
			Then(
				dsl.Sync("request-failed", reportFailure).WhenRejected(),
				dsl.Sync("delete-failed", reportRefusal).
					InjectWhen(dsl.Result, dsl.Settlement).
					When(resultCodeIsNot(0)),
				dsl.Sync("reload", reload),
			),
	)

	run, err := arbor.Compose(tree)
*/
package dsl
