// Package eventbus contains the in-process event bus: the component that
// knows every subscribed Consumer, selects the ones interested in a
// published Event and delivers the Event to them under a Strategy.
//
// The subscription table is built once, when the Bus is created, and is
// never mutated afterwards: publishing requires no locking.
//
// A Strategy controls ordering, concurrency and failure aggregation of
// a single delivery. Four Strategies are available:
//
//   - StopOnError: sequential, aborts at the first failing Consumer;
//   - ContinueOnError: sequential, attempts every Consumer and reports all failures;
//   - ParallelWhenAll: concurrent, waits for every Consumer and reports all failures;
//   - ParallelNoWait: concurrent, returns immediately and never reports failures.
//
// ParallelNoWait offers a weaker guarantee than the others: failures of
// the Consumers are not observable by the publisher, and are only logged.
// Consumers delivered with ParallelNoWait must handle their own failures.
package eventbus
