package uid

import "github.com/google/uuid"

// UUID produces time-ordered version 7 ids, falling back to version 4 when
// the clock source fails.
type UUID struct {
	newV7 func() (uuid.UUID, error)
}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{newV7: uuid.NewV7}
}

// Generate returns a new id in canonical string form.
func (u *UUID) Generate() string {
	if id, err := u.newV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
