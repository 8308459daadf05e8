package pomodoro

import (
	"time"

	"taskflow/internal/models/task"
)

// Цикл помодоро живёт только на клиенте: сервер видит лишь start и complete
// и фиксирует их эффекты на полях задачи. Модель цикла держим здесь, чтобы
// переходы фаз и выбор длины перерыва были описаны в одном месте.

type Phase string

const PhaseWork Phase = "work"
const PhaseShortBreak Phase = "short break"
const PhaseLongBreak Phase = "long break"

const DefaultWorkMinutes = 25

type Settings struct {
	Work                   time.Duration
	ShortBreak             time.Duration
	LongBreak              time.Duration
	SessionsUntilLongBreak int
}

func DefaultSettings() Settings {
	return Settings{
		Work:                   25 * time.Minute,
		ShortBreak:             5 * time.Minute,
		LongBreak:              15 * time.Minute,
		SessionsUntilLongBreak: 4,
	}
}

// Cycle — текущее состояние таймера: фаза, порядковый номер рабочей сессии
// (нумерация с единицы, растёт после каждого перерыва) и остаток времени
type Cycle struct {
	Phase     Phase
	Session   int
	Remaining time.Duration
}

func NewCycle(s Settings) Cycle {
	return Cycle{
		Phase:     PhaseWork,
		Session:   1,
		Remaining: s.Work,
	}
}

// Next возвращает состояние после истечения текущей фазы. После работы —
// перерыв (длинный на каждой кратной SessionsUntilLongBreak сессии), после
// перерыва — следующая рабочая сессия
func (c Cycle) Next(s Settings) Cycle {
	switch c.Phase {
	case PhaseWork:
		if s.SessionsUntilLongBreak > 0 && c.Session%s.SessionsUntilLongBreak == 0 {
			return Cycle{Phase: PhaseLongBreak, Session: c.Session, Remaining: s.LongBreak}
		}
		return Cycle{Phase: PhaseShortBreak, Session: c.Session, Remaining: s.ShortBreak}
	default:
		return Cycle{Phase: PhaseWork, Session: c.Session + 1, Remaining: s.Work}
	}
}

// ApplyStart — эффект запуска сессии: pending переводится в работу,
// остальные статусы не трогаем. Счётчики не меняются
func ApplyStart(t *task.Task) {
	if t.Status == task.StatusPending {
		t.Status = task.StatusInProgress
	}
}

// ApplyComplete — эффект завершения рабочего интервала: единственное место,
// где растут actual_time и pomodoro_sessions. Присланные минуты не
// перепроверяются, при нуле берём стандартные 25
func ApplyComplete(t *task.Task, minutes int) {
	if minutes <= 0 {
		minutes = DefaultWorkMinutes
	}
	t.PomodoroSessions++
	t.ActualTime += minutes
}
