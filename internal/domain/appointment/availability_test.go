package appointment

import (
	"testing"
	"time"

	"github.com/Agenda-Right-Time/agenda-api/internal/models"
)

// segunda-feira, 2026-03-02
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(hm string, day time.Time) time.Time {
	c, err := time.Parse("15:04", hm)
	if err != nil {
		panic(err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), 0, 0, day.Location())
}

func slotSet(slots []time.Time) map[string]bool {
	out := make(map[string]bool, len(slots))
	for _, s := range slots {
		out[s.Format("15:04")] = true
	}
	return out
}

// now muito antes do dia, para a antecedência não interferir.
var farPast = monday.AddDate(0, -1, 0)

func TestAvailableSlots_DefaultSchedule(t *testing.T) {
	slots := AvailableSlots(monday, 30*time.Minute, DaySchedule{}, farPast)

	// 08:00..17:30 de meia em meia hora
	if len(slots) != 20 {
		t.Fatalf("esperava 20 slots, veio %d", len(slots))
	}
	if got := slots[0].Format("15:04"); got != "08:00" {
		t.Fatalf("primeiro slot: esperava 08:00, veio %s", got)
	}
	if got := slots[len(slots)-1].Format("15:04"); got != "17:30" {
		t.Fatalf("último slot: esperava 17:30, veio %s", got)
	}

	for i := 1; i < len(slots); i++ {
		if !slots[i].After(slots[i-1]) {
			t.Fatalf("slots fora de ordem: %v", slots)
		}
	}
}

func TestAvailableSlots_BusyExcluded(t *testing.T) {
	sched := DaySchedule{
		Busy: []TimeRange{{Start: at("10:00", monday), End: at("10:30", monday)}},
	}

	got := slotSet(AvailableSlots(monday, 30*time.Minute, sched, farPast))

	if got["10:00"] {
		t.Fatalf("10:00 está ocupado e não deveria aparecer")
	}
	if !got["09:30"] || !got["10:30"] {
		t.Fatalf("vizinhos do ocupado deveriam continuar livres: %v", got)
	}
}

func TestAvailableSlots_LongServiceOverlapsBusy(t *testing.T) {
	sched := DaySchedule{
		Busy: []TimeRange{{Start: at("10:00", monday), End: at("10:30", monday)}},
	}

	got := slotSet(AvailableSlots(monday, 60*time.Minute, sched, farPast))

	// serviço de 1h às 09:30 invadiria o ocupado das 10:00
	if got["09:30"] || got["10:00"] {
		t.Fatalf("slots que invadem o ocupado deveriam sumir: %v", got)
	}
	if !got["10:30"] {
		t.Fatalf("10:30 deveria estar livre para 1h")
	}
}

func TestAvailableSlots_LunchWindow(t *testing.T) {
	sched := DaySchedule{
		Settings: &models.CalendarSettings{
			LunchStart: "12:00",
			LunchEnd:   "13:00",
		},
	}

	got := slotSet(AvailableSlots(monday, 30*time.Minute, sched, farPast))

	if got["12:00"] || got["12:30"] {
		t.Fatalf("slots de almoço não deveriam aparecer: %v", got)
	}
	if !got["11:30"] || !got["13:00"] {
		t.Fatalf("bordas do almoço deveriam estar livres: %v", got)
	}
}

func TestAvailableSlots_ClosedDate(t *testing.T) {
	sched := DaySchedule{
		ClosedDates: []models.ClosedDate{{Date: "2026-03-02"}},
	}

	if slots := AvailableSlots(monday, 30*time.Minute, sched, farPast); len(slots) != 0 {
		t.Fatalf("dia fechado deveria render zero slots, veio %v", slots)
	}
}

func TestAvailableSlots_ClosedTimeSlot(t *testing.T) {
	sched := DaySchedule{
		ClosedSlots: []models.ClosedTimeSlot{
			{Date: "2026-03-02", StartTime: "14:00", EndTime: "15:00"},
			{Date: "2026-03-03", StartTime: "08:00", EndTime: "18:00"}, // outro dia
		},
	}

	got := slotSet(AvailableSlots(monday, 30*time.Minute, sched, farPast))

	if got["14:00"] || got["14:30"] {
		t.Fatalf("janela bloqueada não deveria aparecer: %v", got)
	}
	if !got["13:30"] || !got["15:00"] {
		t.Fatalf("bloqueio de outro dia não deveria afetar: %v", got)
	}
}

func TestAvailableSlots_MinLead(t *testing.T) {
	sched := DaySchedule{
		Settings: &models.CalendarSettings{MinLeadMinutes: 60},
	}

	// agora são 09:05 do próprio dia; com 60min de antecedência o
	// primeiro slot possível é 10:30
	now := at("09:05", monday)

	slots := AvailableSlots(monday, 30*time.Minute, sched, now)
	if len(slots) == 0 {
		t.Fatalf("esperava slots restantes no dia")
	}
	if got := slots[0].Format("15:04"); got != "10:30" {
		t.Fatalf("primeiro slot: esperava 10:30, veio %s", got)
	}
}

func TestAvailableSlots_ServiceMustEndBeforeClosing(t *testing.T) {
	slots := AvailableSlots(monday, 2*time.Hour, DaySchedule{}, farPast)

	last := slots[len(slots)-1].Format("15:04")
	if last != "16:00" {
		t.Fatalf("serviço de 2h: último início deveria ser 16:00, veio %s", last)
	}
}

func TestAvailableSlots_InactiveWeekday(t *testing.T) {
	sunday := monday.AddDate(0, 0, -1)

	if slots := AvailableSlots(sunday, 30*time.Minute, DaySchedule{}, farPast); len(slots) != 0 {
		t.Fatalf("domingo fora do expediente padrão, veio %v", slots)
	}

	sched := DaySchedule{
		Settings: &models.CalendarSettings{ActiveWeekdays: "0"},
	}
	if slots := AvailableSlots(sunday, 30*time.Minute, sched, farPast); len(slots) == 0 {
		t.Fatalf("domingo ativado na configuração deveria abrir slots")
	}
}

func TestAvailableSlots_BrokenSettingsFallBack(t *testing.T) {
	sched := DaySchedule{
		Settings: &models.CalendarSettings{
			OpenTime:  "25:99",
			CloseTime: "bogus",
		},
	}

	slots := AvailableSlots(monday, 30*time.Minute, sched, farPast)

	// configuração ilegível degrada para 08:00–18:00
	if len(slots) != 20 {
		t.Fatalf("esperava expediente padrão (20 slots), veio %d", len(slots))
	}
}

func TestAvailableSlots_Deterministic(t *testing.T) {
	sched := DaySchedule{
		Busy: []TimeRange{{Start: at("09:00", monday), End: at("09:45", monday)}},
	}

	a := AvailableSlots(monday, 30*time.Minute, sched, farPast)
	b := AvailableSlots(monday, 30*time.Minute, sched, farPast)

	if len(a) != len(b) {
		t.Fatalf("mesma entrada rendeu tamanhos diferentes: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("mesma entrada rendeu slots diferentes no índice %d", i)
		}
	}
}
