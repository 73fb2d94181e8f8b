//go:build go1.22

package shacl

import "errors"

// ErrOutOfCapacity is returned when a report's result list has exceeded
// the validator's configured MaxResults.
var ErrOutOfCapacity = errors.New("shacl: out of capacity")

// ErrBadArg reports a malformed shape or constraint. No function in this
// package returns it: a Pattern constraint whose regex fails to compile
// is reported as an Info-severity result in the ValidationReport.
var ErrBadArg = errors.New("shacl: bad argument")
