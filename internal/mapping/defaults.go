package mapping

// defaultMappings is the compiled-in EEP-to-entity table, used whenever no
// user mapping.yaml entry exists for a given EEP ID.
var defaultMappings = map[string]Mapping{
	"A5-02-05": {
		"TMP": {Component: "sensor", Name: "Temperature", DeviceClass: "temperature", UnitOfMeasurement: "°C"},
	},
	"A5-04-01": {
		"TMP": {Component: "sensor", Name: "Temperature", DeviceClass: "temperature", UnitOfMeasurement: "°C"},
		"HUM": {Component: "sensor", Name: "Humidity", DeviceClass: "humidity", UnitOfMeasurement: "%"},
	},
	"A5-07-01": {
		"PIR": {Component: "binary_sensor", Name: "Occupancy", DeviceClass: "occupancy"},
		"SVC": {Component: "sensor", Name: "Supply Voltage", DeviceClass: "voltage", UnitOfMeasurement: "V"},
	},
	"A5-30-03": {
		"DI0": {Component: "binary_sensor", Name: "Input 0", DeviceClass: "power"},
		"DI1": {Component: "binary_sensor", Name: "Input 1", DeviceClass: "power"},
		"DI2": {Component: "binary_sensor", Name: "Input 2", DeviceClass: "power"},
		"DI3": {Component: "binary_sensor", Name: "Input 3", DeviceClass: "power"},
	},
	"D5-00-01": {
		"CO": {Component: "binary_sensor", Name: "Contact", DeviceClass: "door"},
	},
	"F6-02-01": {
		"R1": {Component: "binary_sensor", Name: "Rocker 1", DeviceClass: "power"},
		"R2": {Component: "binary_sensor", Name: "Rocker 2", DeviceClass: "power"},
		"EB": {Component: "binary_sensor", Name: "Energy Bow", DeviceClass: "power"},
	},
	"D2-01-0F": {
		"CMD": {Component: "switch", Name: "Switch", Icon: "mdi:power"},
		"OV":  {Component: "sensor", Name: "Output Value", UnitOfMeasurement: "%"},
	},
	"D2-05-00": {
		"POS": {Component: "cover", Name: "Position", DeviceClass: "blind"},
		"ANG": {Component: "sensor", Name: "Angle", UnitOfMeasurement: "°"},
	},
}
