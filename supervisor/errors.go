package supervisor

import "errors"

// ErrNoSession is returned by Session when no protocol session is currently
// installed (before the first dial succeeds or after a terminal closure).
var ErrNoSession = errors.New("no active session")
