// Package telemetry hands visualization snapshots from a real-time producer
// to a consumer on another goroutine.
//
// Each [Mailbox] owns exactly one preallocated [Mesh]. The producer may only
// fill it after the consumer has released the previously delivered snapshot,
// so publishing never blocks, never allocates and never overwrites data the
// consumer is still reading. Snapshots that cannot be published are simply
// skipped; the next one carries newer data.
package telemetry
