package cyd

import "time"

// TimeLayout discriminates the timestamp shapes the model can carry. The
// four shapes mirror TOML's date-time grammar; YAML timestamps use the
// first three, and JSON has no native form at all.
type TimeLayout int

const (
	// OffsetDateTime is a date and time with a UTC offset.
	OffsetDateTime TimeLayout = iota
	// LocalDateTime is a date and time with no offset.
	LocalDateTime
	// LocalDate is a date with no time of day.
	LocalDate
	// LocalTime is a time of day with no date.
	LocalTime
)

const (
	offsetDateTimeFormat = "2006-01-02T15:04:05.999999999Z07:00"
	localDateTimeFormat  = "2006-01-02T15:04:05.999999999"
	localDateFormat      = "2006-01-02"
	localTimeFormat      = "15:04:05.999999999"
)

// Timestamp is the format-agnostic representation of a Datetime value: a
// point in (or fragment of) time plus the layout it was written in. The
// layout is kept so formats with native date-time types can re-emit the
// same shape, and so the string narrowing rule is deterministic.
type Timestamp struct {
	Time   time.Time
	Layout TimeLayout
}

// String renders the ISO-8601 text of the timestamp. This is the exact form
// used when a target format narrows Datetime to String.
func (t Timestamp) String() string {
	switch t.Layout {
	case LocalDateTime:
		return t.Time.Format(localDateTimeFormat)
	case LocalDate:
		return t.Time.Format(localDateFormat)
	case LocalTime:
		return t.Time.Format(localTimeFormat)
	default:
		return t.Time.Format(offsetDateTimeFormat)
	}
}

// Equal reports whether two timestamps have the same layout and instant.
func (t Timestamp) Equal(o Timestamp) bool {
	return t.Layout == o.Layout && t.Time.Equal(o.Time)
}
