package checkout

import (
	"fmt"
	"time"
)

const (
	pickupSlotCount    = 8
	pickupSlotInterval = 15 * time.Minute
	pickupLeadTime     = 30 * time.Minute
)

// PickupSlots returns the selectable pickup times relative to now: eight
// 15-minute slots, the first at least 30 minutes out, aligned to the
// quarter hour. Formatted as HH:MM.
func PickupSlots(now time.Time) []string {
	first := now.Truncate(pickupSlotInterval)
	if first.Before(now) {
		first = first.Add(pickupSlotInterval)
	}
	first = first.Add(pickupLeadTime)

	slots := make([]string, 0, pickupSlotCount)
	for i := 0; i < pickupSlotCount; i++ {
		t := first.Add(time.Duration(i) * pickupSlotInterval)
		slots = append(slots, fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()))
	}
	return slots
}
