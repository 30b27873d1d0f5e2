// Package config handles loading and validating the EnOcean-to-MQTT
// bridge's configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables (both the plain add-on names
//     and the ENOCEANMQTT_SECTION_KEY convention)
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - MQTT credentials should be set via environment variables rather than
//     committed to the config file
//   - The config file should have restricted permissions (0600)
//   - MQTTAuthConfig redacts its password in String() and MarshalJSON()
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - No runtime overhead after initial load
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.MQTT.Prefix)
package config
