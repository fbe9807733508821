// Package analyzer implements the drive scanning engine.
//
// It walks volume trees using fastwalk for parallel traversal and feeds
// every entry through five independent aggregations in a single pass:
// cumulative folder sizes near the root, a per-extension space histogram,
// the largest files, and recently modified and long-untouched large files.
// Scans cancel cooperatively and still yield a report covering the entries
// seen so far.
package analyzer
