// Package dispatch turns local scene edits into outgoing synchronisation
// messages.
//
// Every message is a named event with a JSON payload. Callers never wait on
// delivery: an Emitter returns immediately and the Outbox forwards events to
// the transport on a single ordered channel, so peers observe one client's
// messages in the order they were emitted.
//
// Geometry and text messages carry a Commit value. Temporary updates are live
// previews of an interactive edit (a drag, a resize, typing); the Final
// message that ends the edit is the one peers persist.
package dispatch
