package model

// AccountResponse represents response for POST /greeter/account
type AccountResponse struct {
	Address    string `json:"address"`
	Payer      string `json:"payer"`
	ProgramID  string `json:"programId"`
	Seed       string `json:"seed"`
	State      string `json:"state"`                    // "exists" or "created"
	Space      uint64 `json:"space"`                    // bytes allocated for the greeting record
	Signature  string `json:"signature,omitempty"`      // only when the account was created
	Lamports   uint64 `json:"lamports,omitempty"`       // funding transferred on creation
	SOL        string `json:"sol,omitempty"`            // same amount in SOL
	TxURL      string `json:"transactionUrl,omitempty"` // explorer link to the creation
	URL        string `json:"accountUrl"`
	ProgramURL string `json:"programUrl"`
	QR         string `json:"QR"` // base64 PNG of the account address
}

// GreetResponse represents response for POST /greeter/greet
type GreetResponse struct {
	Signature    string  `json:"signature"`
	TxURL        string  `json:"transactionUrl"`
	Counter      *uint32 `json:"counter"` // null until the account has been read back
	RefreshError string  `json:"refreshError,omitempty"`
}

// StateResponse represents response for GET /greeter/state
type StateResponse struct {
	Address       string  `json:"address"`
	State         string  `json:"state"`
	Ready         bool    `json:"ready"`
	Counter       *uint32 `json:"counter"`
	LastSignature string  `json:"lastSignature,omitempty"`
	Pending       bool    `json:"pending"`
}
