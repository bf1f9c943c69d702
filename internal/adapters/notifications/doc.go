// Package notifications provides device notification registries. They stand
// in for the OS notification subsystem: the device reports its permission
// answer, the service registers and clears daily reminders, and the device
// pulls the pending list to mirror locally.
//
// A device that never reported a permission answer is "not determined",
// unless the center is built with GrantByDefault, as local profiles are.
package notifications

import (
	"cmp"
	"slices"

	"github.com/motivationapp/motivation-service/internal/domain"
)

// Options configure either center.
type Options struct {
	// GrantByDefault answers "granted" for devices that never reported.
	GrantByDefault bool
}

func (o Options) defaultPermission() domain.PermissionStatus {
	if o.GrantByDefault {
		return domain.PermissionGranted
	}

	return domain.PermissionNotDetermined
}

// sortByFiringTime orders pending notifications the way the device fires them.
func sortByFiringTime(pending []domain.Notification) {
	slices.SortFunc(pending, func(a, b domain.Notification) int {
		if c := cmp.Compare(a.Time.Minutes(), b.Time.Minutes()); c != 0 {
			return c
		}

		return cmp.Compare(a.Identifier, b.Identifier)
	})
}
