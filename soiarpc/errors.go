package soiarpc

import "errors"

// ErrUnknownMethod reports a request whose method name or number does not
// match any registered method.
var ErrUnknownMethod = errors.New("soiarpc: unknown method")

// ErrAmbiguousMethod reports a request identifying a method by name only,
// where more than one registered method shares that name.
var ErrAmbiguousMethod = errors.New("soiarpc: method name matches more than one registered method")
