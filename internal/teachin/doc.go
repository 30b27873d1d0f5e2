// Package teachin relays teach-in telegrams to connected WebSocket clients
// in real time, so an installer's browser tab can watch a device key fob
// or sensor being taught in without polling the telegram log.
//
// The Hub/Client pair mirrors the gateway's general broadcast pattern:
// one goroutine per client reads nothing but pings, a send channel
// decouples the broadcaster from slow clients, and a client's send channel
// is closed only by whichever of unregister or the hub's shutdown removes
// the client from the hub's map, avoiding a double-close panic during
// shutdown.
package teachin
