// Package tracker wires feed detection, cursor persistence, reconciliation and
// separator placement into activations.
//
// # Lifecycle
//
// A Session is created when a feed page is activated. Run performs the
// initial pass. When the goal post is not on the page yet and the surface
// loads more items without a reload, the session subscribes to the event bus
// under its own id; every Deliver publishes that id and triggers an
// incremental pass. The subscription is dropped as soon as the separator is
// placed, on a fatal error, and on Destroy.
//
// # HTTP API
//
//	POST   /tracker/sessions               activate a page
//	GET    /tracker/sessions/{id}          session report
//	POST   /tracker/sessions/{id}/loads    deliver an incremental render
//	DELETE /tracker/sessions/{id}          tear the session down
//	GET    /tracker/cursors/{kind}         list stored cursor keys
//	GET    /tracker/cursors/{kind}/{key}   inspect a stored cursor
//	DELETE /tracker/cursors/{kind}/{key}   reset a stored cursor
//
// Errors are returned as {"error": "..."}: unknown sessions are 404,
// unsupported pages 400, separator conflicts 409, invariant violations 422.
package tracker
