// Package libdiff computes line diffs between encoded documents.
package libdiff
