package valueobjects

import "strconv"

// StatusCode is the numeric Situacao code of a ticket.
type StatusCode int

func (c StatusCode) String() string {
	return strconv.Itoa(int(c))
}
