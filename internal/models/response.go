package models

// ResponseDetails is the uniform envelope returned by every API endpoint,
// success and failure alike. Data carries an endpoint-specific payload that
// always includes a human-readable message.
type ResponseDetails struct {
	IsSuccess bool `json:"isSuccess"`
	Data      any  `json:"data"`
}

// Success wraps a payload in a successful envelope.
func Success(data any) ResponseDetails {
	return ResponseDetails{IsSuccess: true, Data: data}
}

// Failure wraps a message in a failed envelope.
func Failure(message string) ResponseDetails {
	return ResponseDetails{
		IsSuccess: false,
		Data:      map[string]string{"message": message},
	}
}
