package appointment

import (
	"strconv"
	"strings"
	"time"

	"github.com/Agenda-Right-Time/agenda-api/internal/models"
	"github.com/Agenda-Right-Time/agenda-api/internal/timezone"
)

// ===============================
// Availability
// ===============================

// Padrão usado quando o profissional nunca configurou o expediente:
// 08:00–18:00, intervalos de 30 minutos, segunda a sexta, sem almoço.
const (
	DefaultOpenTime     = "08:00"
	DefaultCloseTime    = "18:00"
	DefaultSlotInterval = 30
)

// TimeRange é um intervalo ocupado ou bloqueado do dia.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func (r TimeRange) Overlaps(start, end time.Time) bool {
	return start.Before(r.End) && end.After(r.Start)
}

// DaySchedule reúne tudo que o cálculo de disponibilidade precisa sobre um
// profissional/dia. Os campos já chegam filtrados pelo dono e pelo
// profissional; o cálculo em si é puro e não toca o banco.
type DaySchedule struct {
	// Settings nil ativa o expediente padrão.
	Settings *models.CalendarSettings

	// Intervalos ocupados por agendamentos não cancelados do dia.
	Busy []TimeRange

	ClosedDates []models.ClosedDate
	ClosedSlots []models.ClosedTimeSlot
}

// AvailableSlots gera os horários de início reserváveis para a data, em
// ordem. Retorna vazio para dia fechado, dia fora do expediente ou quando
// nenhum slot respeita a antecedência mínima a partir de now.
func AvailableSlots(date time.Time, duration time.Duration, sched DaySchedule, now time.Time) []time.Time {
	open, close, interval, lead, weekdays, lunch := scheduleParams(sched.Settings, date)

	if !weekdays[date.Weekday()] {
		return nil
	}

	dateStr := date.Format("2006-01-02")
	for _, cd := range sched.ClosedDates {
		if cd.Date == dateStr {
			return nil
		}
	}

	var blocked []TimeRange
	for _, cs := range sched.ClosedSlots {
		if cs.Date != dateStr {
			continue
		}
		start, okS := timezone.ParseClock(cs.StartTime, date)
		end, okE := timezone.ParseClock(cs.EndTime, date)
		if !okS || !okE || !end.After(start) {
			continue
		}
		blocked = append(blocked, TimeRange{Start: start, End: end})
	}

	earliest := now.Add(lead)

	var slots []time.Time
	for cur := open; !cur.Add(duration).After(close); cur = cur.Add(interval) {
		slotEnd := cur.Add(duration)

		if cur.Before(earliest) {
			continue
		}

		if lunch != nil && lunch.Overlaps(cur, slotEnd) {
			continue
		}

		conflict := false
		for _, b := range sched.Busy {
			if b.Overlaps(cur, slotEnd) {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}

		for _, b := range blocked {
			if b.Overlaps(cur, slotEnd) {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}

		slots = append(slots, cur)
	}

	return slots
}

func scheduleParams(s *models.CalendarSettings, date time.Time) (
	open, close time.Time,
	interval, lead time.Duration,
	weekdays map[time.Weekday]bool,
	lunch *TimeRange,
) {
	openStr, closeStr := DefaultOpenTime, DefaultCloseTime
	intervalMin := DefaultSlotInterval
	leadMin := 0
	weekdaysCSV := "1,2,3,4,5"
	lunchStart, lunchEnd := "", ""

	if s != nil {
		if s.OpenTime != "" {
			openStr = s.OpenTime
		}
		if s.CloseTime != "" {
			closeStr = s.CloseTime
		}
		if s.SlotIntervalMinutes > 0 {
			intervalMin = s.SlotIntervalMinutes
		}
		if s.MinLeadMinutes > 0 {
			leadMin = s.MinLeadMinutes
		}
		if s.ActiveWeekdays != "" {
			weekdaysCSV = s.ActiveWeekdays
		}
		lunchStart, lunchEnd = s.LunchStart, s.LunchEnd
	}

	open, okO := timezone.ParseClock(openStr, date)
	close, okC := timezone.ParseClock(closeStr, date)
	if !okO || !okC || !close.After(open) {
		// configuração ilegível degrada para o expediente padrão
		open, _ = timezone.ParseClock(DefaultOpenTime, date)
		close, _ = timezone.ParseClock(DefaultCloseTime, date)
	}

	interval = time.Duration(intervalMin) * time.Minute
	lead = time.Duration(leadMin) * time.Minute

	weekdays = parseWeekdays(weekdaysCSV)

	if lunchStart != "" && lunchEnd != "" {
		ls, okS := timezone.ParseClock(lunchStart, date)
		le, okE := timezone.ParseClock(lunchEnd, date)
		if okS && okE && le.After(ls) {
			lunch = &TimeRange{Start: ls, End: le}
		}
	}

	return open, close, interval, lead, weekdays, lunch
}

func parseWeekdays(csv string) map[time.Weekday]bool {
	out := make(map[time.Weekday]bool)
	for _, part := range strings.Split(csv, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		out[time.Weekday(n)] = true
	}
	return out
}
