package domain

// ConnState: состояние общего подключения к базе.
//
//	UNINITIALIZED -> CONNECTED | DEGRADED -> CLOSED
//
// Между CONNECTED и DEGRADED переключает каждая живая проверка (ping).
type ConnState int32

const (
	ConnUninitialized ConnState = iota
	ConnConnected
	ConnDegraded
	ConnClosed
)

func (s ConnState) String() string {
	switch s {
	case ConnUninitialized:
		return "UNINITIALIZED"
	case ConnConnected:
		return "CONNECTED"
	case ConnDegraded:
		return "DEGRADED"
	case ConnClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}
