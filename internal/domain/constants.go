package domain

import "time"

// Параметры сетки слотов
const (
	HorizonDays         = 30 // Скользящее окно, дней начиная с сегодня
	FirstSlotHour       = 9  // Первый слот начинается в 09:00
	LastSlotHour        = 17 // Последний слот заканчивается в 17:00
	SlotDurationMinutes = 60
	SlotsPerDay         = LastSlotHour - FirstSlotHour
)

// CancellationLeadTime минимальный запас до начала слота, при котором разрешена отмена
const CancellationLeadTime = 24 * time.Hour

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
