// Package soiarpc implements the minimal RPC handler boundary (C9): a
// Service holding a registry of (method name, method number, request
// serializer, response serializer, handler) tuples, and a single
// HandleRequest entry point that self-dispatches on the shape of the
// request body rather than routing on a URL path (§4.9, §6.3).
//
// The request-shape dispatch (colon-framed string envelope, `{`-prefixed
// JSON envelope, "list"/"restudio" debug endpoints) is written as one
// function switching on what the body looks like, the same "one function,
// one shape-switch" idiom sbunce-bson's decode.go uses to tell a BSON
// document's wire shape apart from its tag byte.
package soiarpc
