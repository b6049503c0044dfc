// Package dispatch provides a durable notification job queue with pluggable
// storage backends.
//
// Typical flow:
//  1. Enqueue a job (destination slot + formatted text) through a Queue backed
//     by a JobStore.
//  2. Run the Queue: workers claim due jobs when the network is available and
//     invoke a Handler for each.
//  3. On success the job is marked delivered; on failure the queue either
//     retries with linear backoff or abandons the job, depending on the
//     failure classification and the attempt ceiling.
//
// For the MySQL-backed store, see the mysql package.
package dispatch
