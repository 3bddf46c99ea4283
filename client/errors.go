package client

import (
	"fmt"
	"net/http"
	"time"
)

// BusyMessage is shown when the gateway gave up waiting for the model.
const BusyMessage = "服务器超时，请稍后重试。如果问题持续，请尝试减少工具数量。"

// TimeoutError means the request did not finish before the deadline.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("generation timed out after %s", e.After)
}

// ServerError is a non-2xx response.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	if e.Busy() {
		return BusyMessage
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Busy reports the 504 "reduce the workload" case.
func (e *ServerError) Busy() bool {
	return e.StatusCode == http.StatusGatewayTimeout
}

// ApplicationError carries the error of a success=false payload.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string {
	return e.Message
}
