package booking

import (
	"errors"
	"strings"

	"github.com/ChargerControl/ChargerControl-sub000/internal/client/api"
)

// Typed error codes from the server contract.
const (
	CodeNoPortAvailable    = "NO_PORT_AVAILABLE"
	CodeInvalidBookingData = "INVALID_BOOKING_DATA"
	CodeScheduleConflict   = "SCHEDULE_CONFLICT"
)

// User-facing messages for terminal booking failures.
const (
	MsgNoPort        = "No available port!"
	MsgInvalidData   = "Invalid booking data. Please review your selection."
	MsgNotAuthorized = "You are not authorized. Please log in again."
	MsgAccessDenied  = "Access denied."
	MsgConflict      = "This time slot conflicts with an existing booking."
	MsgServerError   = "Internal server error. Please try again later."
	MsgAuthProblem   = "Authentication problem. Please log in again."
	MsgConnectivity  = "Could not reach the charging service. Check your connection."
	MsgGeneric       = "Booking failed. Please try again."
)

// portFullPhrases is the legacy substring heuristic for servers that answer
// with free text only. Includes the Portuguese phrasing older replicas emit.
// Best-effort and advisory; the typed code above it is authoritative.
var portFullPhrases = []string{
	"no available port",
	"no ports available",
	"no port available",
	"station full",
	"all ports occupied",
	"sem porta disponível",
	"sem portas disponíveis",
	"sem porta disponivel",
	"sem portas disponiveis",
	"nenhuma porta disponível",
	"nenhuma porta disponivel",
	"estação cheia",
	"estacao cheia",
	"todas as portas ocupadas",
}

// Classify translates a booking-submission error into user-facing text.
// Precedence: typed server code, then the legacy phrase scan, then the HTTP
// status table, then token/network heuristics, then a generic message.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var herr *api.HTTPError
	if errors.As(err, &herr) {
		switch herr.Code {
		case CodeNoPortAvailable:
			return MsgNoPort
		case CodeInvalidBookingData:
			return MsgInvalidData
		case CodeScheduleConflict:
			return MsgConflict
		}
		if mentionsPortFull(herr.Message) || mentionsPortFull(herr.Raw) {
			return MsgNoPort
		}
		switch herr.Status {
		case 400:
			return MsgInvalidData
		case 401:
			return MsgNotAuthorized
		case 403:
			return MsgAccessDenied
		case 404, 422:
			return MsgNoPort
		case 409:
			// Port-related 409s were caught by the phrase scan above.
			return MsgConflict
		case 500:
			return MsgServerError
		}
	}

	if errors.Is(err, api.ErrNoReachableEndpoint) {
		return MsgConnectivity
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "token") {
		return MsgAuthProblem
	}
	if strings.Contains(msg, "network") || strings.Contains(msg, "fetch") {
		return MsgConnectivity
	}
	return MsgGeneric
}

func mentionsPortFull(s string) bool {
	s = strings.ToLower(s)
	for _, p := range portFullPhrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
