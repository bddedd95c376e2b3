// Package task runs short background jobs on a bounded in-memory queue.
// Submission never blocks: a full queue is reported to the caller so that an
// upstream sender (the Telegram webhook) can retry later. Jobs are not
// persisted; a job lost at shutdown is redelivered by its producer.
package task
