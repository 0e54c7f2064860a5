package clock

import "time"

// Clock: источник времени для сервисов (подменяется в тестах).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem возвращает часы на базе time.Now в UTC.
func NewSystem() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now().UTC() }

type fixedClock struct{ now time.Time }

// NewFixed возвращает часы, которые всегда показывают t.
func NewFixed(t time.Time) Clock { return fixedClock{now: t.UTC()} }

func (f fixedClock) Now() time.Time { return f.now }
