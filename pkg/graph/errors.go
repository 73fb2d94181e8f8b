//go:build go1.22

package graph

import "errors"

// ErrOutOfCapacity is returned when inserting a triple/node/edge would
// exceed the Graph's configured capacity.
var ErrOutOfCapacity = errors.New("graph: out of capacity")

// ErrBadArg is returned for an invalid NodeKind or malformed pattern.
var ErrBadArg = errors.New("graph: bad argument")
