// Package cache wraps the Redis client with the connector's write protocol:
// TTL'd scalar and hash writes, reply verification, and the last-cycle
// heartbeat key read by liveness checks.
package cache

import "fmt"

// Key prefixes and the heartbeat key. Downstream real-time services resolve
// identifiers through these namespaces, so they are part of the wire contract.
const (
	PrefixDvj   = "dvj:"
	PrefixJpp   = "jpp:"
	PrefixMetro = "metro:"

	KeyLastCacheUpdate = "pubtrans:last-cache-update"
)

// Hash field names for journey and metro records.
const (
	FieldDvjID              = "dvj-id"
	FieldRouteName          = "route-name"
	FieldDirection          = "direction"
	FieldStartTime          = "start-time"
	FieldOperatingDay       = "operating-day"
	FieldStartDatetime      = "start-datetime"
	FieldStartStopNumber    = "start-stop-number"
	FieldStartStopShortName = "start-stop-short-name"
)

// FormatJoreKey builds the composite reverse-lookup key that resolves
// route/direction/day/time back to a dated vehicle journey id.
func FormatJoreKey(routeName, direction, operatingDay, startTime string) string {
	return fmt.Sprintf("jore-%s-%s-%s-%s", routeName, direction, operatingDay, startTime)
}

// FormatMetroKey builds the key for a metro journey record from the start
// stop's short name and the journey's absolute start datetime. Repeated runs
// within the TTL window overwrite the same key.
func FormatMetroKey(startStop, startDatetime string) string {
	return fmt.Sprintf("%s%s-%s", PrefixMetro, startStop, startDatetime)
}
