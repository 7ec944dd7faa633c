// Package scene holds the local state of a tabletop session.
//
// The Store is the single owner of everything a client knows about the
// session: shapes (through the layers manager), players, locations, notes,
// markers, labels and the current view. Every change goes through a named
// mutation method. Mutations run to completion before the next one starts
// and never leave partial state behind; guards return early instead of
// failing.
//
// The Store has no locks. It must only be touched from one goroutine; the
// Runner provides that goroutine and serialises mutations coming from the
// console, inbound remote messages and any other caller.
//
// Mutations that take a sync argument send the change to peers when it is
// set. Remote updates are applied with sync unset so they are not echoed.
package scene
