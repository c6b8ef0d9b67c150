// Package framing implements the fixed wire framings this server
// supports outside of Modbus RTU (pkg/modbus) and the incremental JSON
// stream (pkg/jsonstream): 4-byte length-prefixed payloads,
// newline-delimited lines, and the unframed Raw pass-through. The first
// two are generalized from the teacher's
// pkg/parser.LengthParser and pkg/parser.DelimiterParser down to the
// single concrete shape each of this protocol's framings needs.
package framing

import "errors"

// ErrFrameTooLong is returned when a declared or accumulating frame
// would exceed the configured maximum. Fatal for the connection.
var ErrFrameTooLong = errors.New("framing: frame exceeds max frame length")

const lengthHeaderSize = 4
