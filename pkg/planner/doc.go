// Package planner builds upload manifests and clone plans. Nothing in this
// package makes a network request: all errors are returned before an upload
// is started.
package planner
