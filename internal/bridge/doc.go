// Package bridge is the composition layer that wires the dispatcher's
// decoded telegrams to MQTT and routes MQTT commands back out to the
// EnOcean bus. It implements dispatcher.StatePublisher (state cache,
// retained publish, discovery) the way the teacher's KNX bridge implements
// its own Bridge type: an Options-struct constructor, a Start/Stop
// lifecycle, and a blocking Run loop the composition root supervises
// alongside the MQTT client and transport.
package bridge
