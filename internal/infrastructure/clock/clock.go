package clock

import (
	"time"

	"github.com/KEBA-mall/sto-backend/domain"
)

// System implements domain.Clock using the system clock.
type System struct{}

// New returns the system clock.
func New() domain.Clock { return System{} }

// Now returns the current time.
func (System) Now() time.Time { return time.Now() }
