package errors

import stdErrors "errors"

// ErrorDump is a log-friendly projection of an error chain.
type ErrorDump struct {
	Code       Code
	TopMessage string
	Chain      []string
}

// Dump walks the error chain and captures each message for structured logs.
func Dump(err error) ErrorDump {
	dump := ErrorDump{Code: CodeOf(err)}
	if err == nil {
		return dump
	}
	dump.TopMessage = err.Error()
	for cursor := err; cursor != nil; cursor = stdErrors.Unwrap(cursor) {
		dump.Chain = append(dump.Chain, cursor.Error())
	}
	return dump
}
