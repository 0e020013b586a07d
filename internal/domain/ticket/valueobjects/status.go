package valueobjects

import "fmt"

type TicketStatus string

const (
	StatusOpen          TicketStatus = "OPEN"
	StatusInProgress    TicketStatus = "IN_PROGRESS"
	StatusWaitingClient TicketStatus = "WAITING_CLIENT"
	StatusClosed        TicketStatus = "CLOSED"
)

var validTicketStatuses = map[TicketStatus]bool{
	StatusOpen:          true,
	StatusInProgress:    true,
	StatusWaitingClient: true,
	StatusClosed:        true,
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	return validTicketStatuses[ts]
}

func (ts TicketStatus) IsOpen() bool {
	return ts == StatusOpen
}

func (ts TicketStatus) IsInProgress() bool {
	return ts == StatusInProgress
}

func (ts TicketStatus) IsWaitingClient() bool {
	return ts == StatusWaitingClient
}

func (ts TicketStatus) IsClosed() bool {
	return ts == StatusClosed
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}
