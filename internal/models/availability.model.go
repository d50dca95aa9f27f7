package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxDaysInMonth = 31

// DayFlags holds one availability flag per calendar day, indexed day-1.
// It is stored as a 31 character string of '1' and '0'.
type DayFlags [maxDaysInMonth]bool

func AllDays(available bool) DayFlags {
	var flags DayFlags
	for i := range flags {
		flags[i] = available
	}
	return flags
}

func (d DayFlags) Value() (driver.Value, error) {
	buf := make([]byte, maxDaysInMonth)
	for i, available := range d {
		if available {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf), nil
}

func (d *DayFlags) Scan(value any) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		*d = AllDays(true)
		return nil
	default:
		return fmt.Errorf("unsupported day flags type %T", value)
	}

	if len(raw) != maxDaysInMonth {
		return fmt.Errorf("day flags must have %d entries, got %d", maxDaysInMonth, len(raw))
	}
	for i := range raw {
		switch raw[i] {
		case '1':
			d[i] = true
		case '0':
			d[i] = false
		default:
			return fmt.Errorf("invalid day flag %q at day %d", raw[i], i+1)
		}
	}
	return nil
}

type StaffAvailability struct {
	BaseUUIDModel
	StaffID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_staff_month" json:"staffId"`
	Year    int       `gorm:"not null;uniqueIndex:idx_staff_month"           json:"year"`
	Month   int       `gorm:"not null;uniqueIndex:idx_staff_month"           json:"month"`
	Days    DayFlags  `gorm:"type:varchar(31);not null"                      json:"days"`
	Notes   string    `gorm:"type:text"                                      json:"notes"`
}

// NewMonthAvailability builds a calendar with every day set to the default.
func NewMonthAvailability(staffID uuid.UUID, year int, month time.Month, available bool) *StaffAvailability {
	return &StaffAvailability{
		StaffID: staffID,
		Year:    year,
		Month:   int(month),
		Days:    AllDays(available),
	}
}

func (a *StaffAvailability) BeforeCreate(tx *gorm.DB) (err error) {
	if err := a.ensureID(); err != nil {
		return err
	}
	if a.StaffID == uuid.Nil || a.Month < 1 || a.Month > 12 || a.Year <= 0 {
		return gorm.ErrInvalidValue
	}
	return nil
}

func (a *StaffAvailability) DaysInMonth() int {
	return DaysIn(a.Year, time.Month(a.Month))
}

// IsAvailable reports the flag for a 1-based day. Days past the end of the
// month are never available.
func (a *StaffAvailability) IsAvailable(day int) bool {
	if day < 1 || day > a.DaysInMonth() {
		return false
	}
	return a.Days[day-1]
}

func (a *StaffAvailability) SetDay(day int, available bool) error {
	if day < 1 || day > a.DaysInMonth() {
		return fmt.Errorf("day %d is outside %04d-%02d", day, a.Year, a.Month)
	}
	a.Days[day-1] = available
	return nil
}

// MonthDays returns the flags trimmed to the real month length.
func (a *StaffAvailability) MonthDays() []bool {
	days := make([]bool, a.DaysInMonth())
	copy(days, a.Days[:])
	return days
}
