// Package lock provides short-lived named locks. The Redis implementation is
// shared across processes; the memory implementation only guards one process.
package lock

import "errors"

var ErrNotAcquired = errors.New("lock is held by another owner")
