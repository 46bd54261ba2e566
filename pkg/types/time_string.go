package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const timeLayout = "15:04"

// ErrInvalidTimeString возвращается при некорректном формате времени
var ErrInvalidTimeString = errors.New("invalid time string format")

// TimeString время суток в формате "HH:MM" (24 часа)
// Строки с ведущими нулями сравниваются лексикографически так же, как по времени
type TimeString string

// NewTimeString берёт часы и минуты из time.Time
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит и валидирует строку "HH:MM"
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// NewTimeStringFromHour строит время начала часа, например 9 -> "09:00"
func NewTimeStringFromHour(hour int) (TimeString, error) {
	if hour < 0 || hour > 23 {
		return "", fmt.Errorf("%w: hour %d out of range", ErrInvalidTimeString, hour)
	}
	return TimeString(fmt.Sprintf("%02d:00", hour)), nil
}

func (t TimeString) String() string {
	return string(t)
}

// IsZero true, если время не указано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат "HH:MM"
func (t TimeString) Validate() error {
	if len(t) != len(timeLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	if _, err := time.Parse(timeLayout, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// Clock возвращает часы и минуты
func (t TimeString) Clock() (hour, minute int, err error) {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return parsed.Hour(), parsed.Minute(), nil
}

// AddMinutes сдвигает время на minutes минут
// Переход через полночь считается ошибкой
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	hour, minute, err := t.Clock()
	if err != nil {
		return "", err
	}

	total := hour*60 + minute + minutes
	if total < 0 || total >= 24*60 {
		return "", fmt.Errorf("%w: %s%+d minutes crosses midnight", ErrInvalidTimeString, t, minutes)
	}

	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// IsBefore true, если t раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t < other
}

// IsAfter true, если t позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t > other
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	return string(t), nil
}

// Scan реализует sql.Scanner
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*t = TimeString(v)
	case []byte:
		*t = TimeString(v)
	case nil:
		*t = ""
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}
	return nil
}
