/*
Package domain contains the core model of the arbor engine.

It defines action trees, the executor variants they wrap, the injected Scope
and the lifecycle events emitted while a tree is traversed. The package is
kept free of I/O and of the engine itself.

# Key Entities

  - Action: a node combining an Executor, optional Children and an optional Condition.
  - Executor: SyncExecutor, AsyncExecutor or Func (mode inferred from the returned value).
  - Scope: the field mapping handed to executors and conditions.
  - Inject: which of {input, latest result, settlement} a Scope receives.
  - Result: an immediate value or a deferred one.
*/
package domain
