/*
Package arbor composes trees of actions into a single callable entry point.

An action wraps an executor, an optional condition and ordered children. Invoking
the composed tree walks it depth-first and left to right: a node whose condition
does not hold is skipped with its subtree, an internal node runs and exposes its
result to its descendants, and the first leaf reached ends the traversal with its
own result. When no leaf is reached, the root's own value is the result.

# Synchronous and asynchronous executors

Executors are declared as domain.SyncExecutor, domain.AsyncExecutor or
domain.Func (which decides per call by returning a *future.Future). The result of
an invocation stays immediate while only synchronous nodes run, and becomes
deferred as soon as an asynchronous node is dispatched on the path taken.

An asynchronous rejection is data: it is recorded as the latest result, the
"settlement" field tells descendants whether it was fulfilled or rejected, and
the children decide what to do with it. A synchronous executor error is not
branchable and ends the invocation.

# Usage

	tree := dsl.MustTree(
		dsl.Async("delete", deleteRecord).ResultKey("response").Then(
			dsl.Sync("report-failure", reportFailure).WhenRejected(),
			dsl.Sync("reload", reload),
		),
	)

	invoke, err := arbor.Compose(tree, arbor.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}

	res, err := invoke(ctx, map[string]any{"id": 42})
	if err != nil {
		log.Fatal(err)
	}
	value, err := res.Wait()

Trees can also be declared in YAML and loaded with Load or LoadFile, resolving
executor and condition names against a registry.Registry. Conditions written
as `when` expressions are JavaScript evaluated against the node's scope.

# Observability

Engines accept domain.LifecycleHooks (see package observability for Prometheus
metrics and slog hooks) and emit OpenTelemetry spans for invocations and nodes.
*/
package arbor
