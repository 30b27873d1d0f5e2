// Package mqtt provides MQTT client connectivity for the EnOcean gateway.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// The gateway publishes decoded device state under a configurable prefix
// (default "enocean") and Home Assistant MQTT discovery config under a
// second configurable prefix (default "homeassistant"), and subscribes to
// command topics to drive outbound EnOcean telegrams.
//
//	EnOcean Gateway ↔ MQTT Broker ↔ Home Assistant
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: paho auto-reconnect with exponential backoff, bounded by
//     cfg.Reconnect.InitialDelay and MaxDelay (defaults 200 ms and 10 s)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topics := client.Topics()
//	err = client.Subscribe(topics.AllDeviceSet(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	client.PublishRetained(topics.DeviceState("kitchen-switch"), []byte(`{"on":true}`))
package mqtt
