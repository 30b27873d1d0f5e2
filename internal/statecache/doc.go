// Package statecache persists each device's last published MQTT state to
// disk, so that sensors which report only a few times a day still have a
// known value immediately after the gateway restarts.
//
// Put writes the snapshot to disk before the caller publishes it, so a
// crash between the two never leaves a state change acknowledged to disk
// but not actually retained on the broker, or vice versa leaves the cache
// behind what was already published. LoadForRestore marks every restored
// snapshot with a "_restored" flag, so a subscriber can tell a freshly
// republished value apart from a live update, while the original
// "_last_update" timestamp of the snapshot is left untouched.
package statecache
