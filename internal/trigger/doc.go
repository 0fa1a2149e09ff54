// Package trigger defines the boundary to the platform trigger store: the
// facility that holds armed alarms and delivers fire events independently of
// the hosting process's lifetime.
//
// The Store interface is the command surface the alarm lifecycle issues
// against; FileStore is a file-backed reference implementation used by the
// CLI harness and tests.
package trigger
