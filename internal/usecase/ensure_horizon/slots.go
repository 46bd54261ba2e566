package ensure_horizon

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// horizon возвращает первый и последний день окна, начиная с referenceDate
func horizon(referenceDate time.Time) (time.Time, time.Time) {
	from := domain.DateOnly(referenceDate)
	return from, from.AddDate(0, 0, domain.HorizonDays-1)
}

// buildMissingSlots строит слоты сетки окна, которых нет в existing
func buildMissingSlots(from time.Time, existing map[string]struct{}, newID func() string) ([]*domain.Slot, error) {
	missing := make([]*domain.Slot, 0)

	for day := 0; day < domain.HorizonDays; day++ {
		date := from.AddDate(0, 0, day)

		for hour := domain.FirstSlotHour; hour < domain.LastSlotHour; hour++ {
			start, err := types.NewTimeStringFromHour(hour)
			if err != nil {
				return nil, fmt.Errorf("build start time for hour %d: %w", hour, err)
			}

			if _, ok := existing[domain.SlotKey(date, start)]; ok {
				continue
			}

			end, err := start.AddMinutes(domain.SlotDurationMinutes)
			if err != nil {
				return nil, fmt.Errorf("build end time for %s: %w", start, err)
			}

			missing = append(missing, &domain.Slot{
				ID:        newID(),
				Date:      date,
				StartTime: start,
				EndTime:   end,
				Status:    domain.StatusAvailable,
			})
		}
	}

	return missing, nil
}
