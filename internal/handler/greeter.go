package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AlexZinkM/hello-greeter/greeter"
	"github.com/AlexZinkM/hello-greeter/internal/client"
	"github.com/AlexZinkM/hello-greeter/internal/common"
	"github.com/AlexZinkM/hello-greeter/internal/model"

	"github.com/sirupsen/logrus"
)

// GreeterHandler exposes a greeter session over HTTP
type GreeterHandler struct {
	session            *greeter.Session
	explorerAccountURL string
	explorerTxURL      string
	log                *logrus.Entry
}

// NewGreeterHandler creates a new GreeterHandler. The explorer templates take the
// address or signature in place of a single %s.
func NewGreeterHandler(session *greeter.Session, explorerAccountURL, explorerTxURL string) (*GreeterHandler, error) {
	if session == nil {
		return nil, errors.New("session is nil")
	}

	return &GreeterHandler{
		session:            session,
		explorerAccountURL: explorerAccountURL,
		explorerTxURL:      explorerTxURL,
		log:                logrus.StandardLogger().WithField("type", "handler/greeter"),
	}, nil
}

// CheckAccount handles POST /greeter/account
// @Summary      Check or create the greeting account
// @Description  Derives the greeting account address and creates it with rent-exempt funding if the ledger has no account there
// @Tags         greeter
// @Produce      json
// @Success      200  {object}  model.AccountResponse
// @Failure      409  {object}  model.ErrorResponse
// @Failure      422  {object}  model.ErrorResponse
// @Failure      502  {object}  model.ErrorResponse
// @Failure      504  {object}  model.ErrorResponse
// @Router       /greeter/account [post]
func (h *GreeterHandler) CheckAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	res, err := h.session.Provision(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	address := res.Address.String()
	qr, err := common.QRCodeBase64(address)
	if err != nil {
		h.log.WithError(err).Warn("failed to generate QR code")
	}

	resp := model.AccountResponse{
		Address:    address,
		Payer:      h.session.Payer().String(),
		ProgramID:  h.session.Program().String(),
		Seed:       h.session.Seed(),
		State:      res.State.String(),
		Space:      greeter.GreetingSize,
		URL:        common.ExplorerURL(h.explorerAccountURL, address),
		ProgramURL: common.ExplorerURL(h.explorerAccountURL, h.session.Program().String()),
		QR:         qr,
	}
	if !res.Signature.IsZero() {
		resp.Signature = res.Signature.String()
		resp.TxURL = common.ExplorerURL(h.explorerTxURL, resp.Signature)
		resp.Lamports = res.Lamports
		resp.SOL = common.LamportsToSOL(res.Lamports)
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// Greet handles POST /greeter/greet
// @Summary      Send a greeting
// @Description  Submits a greeting to the provisioned account, waits for confirmation and reads the counter back
// @Tags         greeter
// @Produce      json
// @Success      200  {object}  model.GreetResponse
// @Failure      409  {object}  model.ErrorResponse
// @Failure      422  {object}  model.ErrorResponse
// @Failure      502  {object}  model.ErrorResponse
// @Failure      504  {object}  model.ErrorResponse
// @Router       /greeter/greet [post]
func (h *GreeterHandler) Greet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	res, err := h.session.Greet(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	sig := res.Signature.String()
	resp := model.GreetResponse{
		Signature: sig,
		TxURL:     common.ExplorerURL(h.explorerTxURL, sig),
		Counter:   res.Counter,
	}
	if res.RefreshErr != nil {
		resp.RefreshError = res.RefreshErr.Error()
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// State handles GET /greeter/state
// @Summary      Get session state
// @Description  Returns the provisioning state, the last known counter and whether a transaction is pending
// @Tags         greeter
// @Produce      json
// @Success      200  {object}  model.StateResponse
// @Router       /greeter/state [get]
func (h *GreeterHandler) State(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	snap := h.session.Snapshot()
	resp := model.StateResponse{
		Address: snap.Address.String(),
		State:   snap.State.String(),
		Ready:   snap.State.Ready(),
		Counter: snap.Counter,
		Pending: snap.Pending,
	}
	if !snap.LastSignature.IsZero() {
		resp.LastSignature = snap.LastSignature.String()
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *GreeterHandler) writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		h.log.WithError(err).WithField("code", code).Warn("request failed")
	}
	h.writeJSON(w, status, model.ErrorResponse{Error: err.Error(), Code: code})
}

// classify maps workflow errors to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, greeter.ErrProvisionInFlight), errors.Is(err, greeter.ErrGreetInFlight):
		return http.StatusConflict, model.CodeInFlight
	case greeter.IsPreconditionError(err):
		return http.StatusConflict, model.CodePreconditionFailed
	case client.IsInstructionError(err):
		return http.StatusUnprocessableEntity, model.CodeInstructionError
	case client.IsTimeoutError(err):
		return http.StatusGatewayTimeout, model.CodeSubmissionError
	case client.IsSubmissionError(err):
		return http.StatusBadGateway, model.CodeSubmissionError
	case client.IsNetworkError(err):
		return http.StatusBadGateway, model.CodeNetworkError
	case greeter.IsMalformedRecordError(err):
		return http.StatusInternalServerError, model.CodeMalformedRecord
	default:
		return http.StatusInternalServerError, model.CodeInternal
	}
}

func (h *GreeterHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithError(err).Warn("failed to write response")
	}
}
