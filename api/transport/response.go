package transport

// Envelope wraps every JSON response of the directory API. Error responses
// carry a code; validation failures add per-field details; degraded health
// reports keep their payload in Data.
type Envelope struct {
	Status  string             `json:"status"`
	Code    string             `json:"code,omitempty"`
	Data    interface{}        `json:"data,omitempty"`
	Error   string             `json:"error,omitempty"`
	Details []ValidationDetail `json:"details,omitempty"`
}

func NewSuccess(data interface{}) Envelope {
	return Envelope{Status: "success", Data: data}
}

func NewError(code, message string) Envelope {
	return Envelope{Status: "error", Code: code, Error: message}
}

// NewValidationError reports a rejected request body.
func NewValidationError(code, message string, details []ValidationDetail) Envelope {
	env := NewError(code, message)
	env.Details = details
	return env
}

// WithData attaches a payload to an error envelope.
func (e Envelope) WithData(data interface{}) Envelope {
	e.Data = data
	return e
}
