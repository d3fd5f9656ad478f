package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SlotDuration is the fixed width of a bookable slot.
const SlotDuration = 30 * time.Minute

// DefaultMaxPatients is used when a template row does not set a daily cap.
const DefaultMaxPatients = 20

var (
	ErrInvalidClock  = errors.New("time must use HH:MM format")
	ErrInvalidWindow = errors.New("start time must be before end time")
	ErrInvalidDay    = errors.New("day must be a weekday name")
)

// Weekdays in template order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DoctorAvailability is one row of a doctor's recurring weekly template.
// Slots are derived on demand and never stored.
type DoctorAvailability struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_doctor_availabilities_day" json:"doctor_id"`
	Day         string    `gorm:"type:varchar(10);not null;uniqueIndex:uq_doctor_availabilities_day" json:"day"`
	StartTime   string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime     string    `gorm:"type:varchar(5);not null" json:"end_time"`
	MaxPatients int       `gorm:"not null;default:20" json:"max_patients"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DoctorAvailability) TableName() string {
	return "doctor_availabilities"
}

// Validate checks the day name and the HH:MM window.
func (a *DoctorAvailability) Validate() error {
	if !IsWeekday(a.Day) {
		return ErrInvalidDay
	}
	start, err := parseClock(a.StartTime)
	if err != nil {
		return err
	}
	end, err := parseClock(a.EndTime)
	if err != nil {
		return err
	}
	if start >= end {
		return ErrInvalidWindow
	}
	return nil
}

// Slots partitions the template window into 30-minute labels.
func (a *DoctorAvailability) Slots() ([]string, error) {
	return GenerateSlots(a.StartTime, a.EndTime)
}

// HasSlot reports whether label is one of the template's slots.
func (a *DoctorAvailability) HasSlot(label string) bool {
	slots, err := a.Slots()
	if err != nil {
		return false
	}
	for _, s := range slots {
		if s == label {
			return true
		}
	}
	return false
}

// GenerateSlots partitions [start, end) into SlotDuration intervals labelled
// "HH:MM-HH:MM". A trailing interval that would run past end is dropped.
func GenerateSlots(start, end string) ([]string, error) {
	from, err := parseClock(start)
	if err != nil {
		return nil, err
	}
	to, err := parseClock(end)
	if err != nil {
		return nil, err
	}

	step := int(SlotDuration / time.Minute)
	var slots []string
	for m := from; m+step <= to; m += step {
		slots = append(slots, fmt.Sprintf("%s-%s", formatClock(m), formatClock(m+step)))
	}
	return slots, nil
}

// FilterBookedSlots returns slots minus booked, keeping the order of slots.
func FilterBookedSlots(slots, booked []string) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}

	free := make([]string, 0, len(slots))
	for _, s := range slots {
		if _, ok := taken[s]; !ok {
			free = append(free, s)
		}
	}
	return free
}

// WeekdayOf returns the English weekday name of date.
func WeekdayOf(date time.Time) string {
	return date.Weekday().String()
}

func IsWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// IsClock reports whether s is a valid 24h HH:MM value.
func IsClock(s string) bool {
	_, err := parseClock(s)
	return err == nil
}

// parseClock returns minutes since midnight.
func parseClock(s string) (int, error) {
	if len(s) != 5 {
		return 0, ErrInvalidClock
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, ErrInvalidClock
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
