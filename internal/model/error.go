package model

// Error codes returned in ErrorResponse.Code
const (
	CodePreconditionFailed = "PRECONDITION_FAILED"
	CodeInFlight           = "IN_FLIGHT"
	CodeInstructionError   = "INSTRUCTION_ERROR"
	CodeSubmissionError    = "SUBMISSION_ERROR"
	CodeNetworkError       = "NETWORK_ERROR"
	CodeMalformedRecord    = "MALFORMED_RECORD"
	CodeInternal           = "INTERNAL"
)

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
