package errors

import "fmt"

func InvalidParamsErr(err error) error {
	return E(Invalid, "invalid params", err)
}

func InvalidBodyErr(err error) error {
	return E(Invalid, "invalid response body", err)
}

// TerminalStatusErr is returned when a transition is requested on a transaction that already
// reached a terminal status.
func TerminalStatusErr(id, status string) error {
	return E(Conflict, fmt.Sprintf("transaction %s is already %s", id, status), nil)
}

// InFlightErr is returned when an operation of the same kind is still waiting for its response.
func InFlightErr(op string) error {
	return E(Conflict, fmt.Sprintf("%s already in progress", op), nil)
}
