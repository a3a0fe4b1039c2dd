package models

// Driver is the directory view of a driver used for eligibility checks
type Driver struct {
	ID        string `json:"id" db:"id"`
	IsOnline  bool   `json:"is_online" db:"is_online"`
	IsActive  bool   `json:"is_active" db:"is_active"`
	IsBlocked bool   `json:"is_blocked" db:"is_blocked"`
}

// Eligible reports whether the driver may receive work: online, active and not blocked
func (d Driver) Eligible() bool {
	return d.IsOnline && d.IsActive && !d.IsBlocked
}
