package lww

import "errors"

// ErrElementDoesNotExist is returned by Remove when the element was not a
// member. The tombstone is recorded regardless.
var ErrElementDoesNotExist = errors.New("element does not exist")
