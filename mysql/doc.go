// Package mysql implements a MySQL-backed dispatch.JobStore.
//
// Due jobs are claimed one at a time under READ COMMITTED with
// FOR UPDATE SKIP LOCKED, so concurrent workers never contend on the same
// row. Every state transition is a guarded UPDATE on the job's current
// status, giving the compare-and-set semantics the queue relies on.
package mysql
