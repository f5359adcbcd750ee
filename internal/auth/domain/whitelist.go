package domain

import "time"

// WhitelistEntry grants dashboard access to one LINE user id.
type WhitelistEntry struct {
	LineUID   string
	Note      string
	CreatedAt time.Time
}
