package dto

// Envelope is the uniform response body for every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// OK wraps a payload in a successful envelope.
func OK(data interface{}) Envelope {
	return Envelope{Success: true, Data: data}
}

// OKMessage returns a successful envelope carrying only a message.
func OKMessage(message string) Envelope {
	return Envelope{Success: true, Message: message}
}

// Fail returns a failed envelope with a human-readable message.
func Fail(message string) Envelope {
	return Envelope{Success: false, Message: message}
}
