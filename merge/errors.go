package merge

import "errors"

// ErrStaleJoin is returned when a join or a circularisation names a contig
// that is gone from its map, or whose length changed since the hit was made.
var ErrStaleJoin = errors.New("stale join")

// ErrDegenerateCircle marks hits that anchor both contig ends but leave no
// sequence to close the circle with.
var ErrDegenerateCircle = errors.New("degenerate circle")
