package server

import "errors"

// ErrIdleTimeout marks a connection closed because no inbound bytes
// arrived within the configured idle window. It is not a protocol
// error: no response is attempted and it is not logged at WARN.
var ErrIdleTimeout = errors.New("server: connection idle timeout")

// ErrStreamCorruption marks the streaming JSON path (tokenizer error)
// as unrecoverable for the connection. Fatal: the connection closes
// after a best-effort response attempt.
var ErrStreamCorruption = errors.New("server: json stream corrupted")
