package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// EnvelopeVersion is the current response envelope version. Clients check
// this before parsing the rest of the envelope.
const EnvelopeVersion = 1

// APIEnvelope wraps successful responses in a consistent structure.
type APIEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Error   string `json:"error,omitempty"`
}

// APIErrorEnvelope wraps structured errors that carry a code and details.
type APIErrorEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps every response body in a versioned envelope.
// Registered as a huma transformer so handlers return plain bodies and the
// wire format stays consistent across the whole API.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	success := status < "400"

	// Structured API errors keep their code and details.
	if apiErr, ok := v.(*APIError); ok {
		return APIErrorEnvelope{
			Version: EnvelopeVersion,
			Success: false,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	if err, ok := v.(error); ok {
		return APIEnvelope{
			Version: EnvelopeVersion,
			Success: false,
			Error:   err.Error(),
		}, nil
	}

	return APIEnvelope{
		Version: EnvelopeVersion,
		Success: success,
		Data:    v,
	}, nil
}
