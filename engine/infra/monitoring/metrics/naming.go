package metrics

import "strings"

const metricPrefix = "fieldnet_"

// MetricName ensures name carries the fieldnet_ prefix.
func MetricName(name string) string {
	if strings.HasPrefix(name, metricPrefix) {
		return name
	}
	return metricPrefix + name
}

// MetricNameWithSubsystem builds fieldnet_<subsystem>_<name>.
func MetricNameWithSubsystem(subsystem, name string) string {
	if strings.HasPrefix(name, metricPrefix) {
		return name
	}
	subsystem = strings.Trim(subsystem, "_")
	switch {
	case subsystem == "":
		return MetricName(name)
	case name == "":
		return metricPrefix + subsystem
	default:
		return metricPrefix + subsystem + "_" + name
	}
}
