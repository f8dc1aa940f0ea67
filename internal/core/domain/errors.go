package domain

import "errors"

// ErrTransport marks catalog fetch failures: network errors, unexpected
// response statuses, malformed payloads. An empty result set is not a
// transport failure.
var ErrTransport = errors.New("catalog transport failure")
