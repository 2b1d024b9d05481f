package response

import "net/http"

// Default messages for statuses that are produced outside the services.
const (
	MsgServerError = "Server error"
	MsgTooMany     = "Too many requests from this IP, please try again later"
	MsgBusy        = "Server busy, please retry"
	MsgTimeout     = "Request timed out"
	MsgBodyTooBig  = "Request body too large"
	MsgBadBody     = "Invalid request body"
	MsgNotFound    = "Route not found"
)

var CodeMsgMap = map[int]string{
	http.StatusBadRequest:            MsgBadBody,
	http.StatusNotFound:              MsgNotFound,
	http.StatusRequestEntityTooLarge: MsgBodyTooBig,
	http.StatusTooManyRequests:       MsgTooMany,
	http.StatusInternalServerError:   MsgServerError,
	http.StatusServiceUnavailable:    MsgBusy,
	http.StatusGatewayTimeout:        MsgTimeout,
}
