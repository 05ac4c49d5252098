package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: the key password is prompted at runtime and stored in memory - use GetKeyPasswordBytes()
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	SolanaRPCURL        string        `envconfig:"SOLANA_RPC_URL" default:"https://api.devnet.solana.com"`
	SolanaWSURL         string        `envconfig:"SOLANA_WS_URL"`
	Commitment          string        `envconfig:"SOLANA_COMMITMENT" default:"finalized"`
	ConfirmTimeout      time.Duration `envconfig:"CONFIRM_TIMEOUT" default:"2m"`
	ConfirmPollInterval time.Duration `envconfig:"CONFIRM_POLL_INTERVAL" default:"400ms"`

	PayerKeyPath   string `envconfig:"PAYER_KEY_PATH" required:"true"`
	ProgramKeyPath string `envconfig:"PROGRAM_KEY_PATH"`
	ProgramID      string `envconfig:"PROGRAM_ID"`
	GreetingSeed   string `envconfig:"GREETING_SEED" default:"hello"`

	ExplorerAccountURL string `envconfig:"EXPLORER_ACCOUNT_URL" default:"https://explorer.solana.com/address/%s?cluster=devnet"`
	ExplorerTxURL      string `envconfig:"EXPLORER_TX_URL" default:"https://explorer.solana.com/tx/%s?cluster=devnet"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	loaded := &Config{}
	if err := envconfig.Process("", loaded); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if err := loaded.validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	cfg = loaded
	return nil
}

func (c *Config) validate() error {
	if c.PayerKeyPath == "" {
		return errors.New("PAYER_KEY_PATH must not be empty")
	}
	if c.ProgramKeyPath == "" && c.ProgramID == "" {
		return errors.New("one of PROGRAM_KEY_PATH or PROGRAM_ID must be set")
	}

	switch rpc.CommitmentType(strings.ToLower(c.Commitment)) {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		return fmt.Errorf("unsupported SOLANA_COMMITMENT %q", c.Commitment)
	}

	if c.ConfirmTimeout <= 0 {
		return errors.New("CONFIRM_TIMEOUT must be positive")
	}
	if c.ConfirmPollInterval <= 0 {
		return errors.New("CONFIRM_POLL_INTERVAL must be positive")
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.LogFormat)
	}

	for name, template := range map[string]string{
		"EXPLORER_ACCOUNT_URL": c.ExplorerAccountURL,
		"EXPLORER_TX_URL":      c.ExplorerTxURL,
	} {
		if strings.Count(template, "%s") != 1 {
			return fmt.Errorf("%s must contain exactly one %%s placeholder", name)
		}
	}

	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetSolanaRPCURL returns Solana RPC URL from configuration
func GetSolanaRPCURL() string {
	return Get().SolanaRPCURL
}

// GetSolanaWSURL returns the websocket URL, empty when it should be derived from the RPC URL
func GetSolanaWSURL() string {
	return Get().SolanaWSURL
}

// GetCommitment returns the commitment transactions must reach
func GetCommitment() rpc.CommitmentType {
	return rpc.CommitmentType(strings.ToLower(Get().Commitment))
}

// GetConfirmTimeout returns how long to wait for a transaction to be confirmed
func GetConfirmTimeout() time.Duration {
	return Get().ConfirmTimeout
}

// GetConfirmPollInterval returns the signature status polling interval
func GetConfirmPollInterval() time.Duration {
	return Get().ConfirmPollInterval
}

// GetPayerKeyPath returns path to the payer key file
func GetPayerKeyPath() string {
	return Get().PayerKeyPath
}

// GetProgramKeyPath returns path to the program key file
func GetProgramKeyPath() string {
	return Get().ProgramKeyPath
}

// GetProgramID returns the base58 program id
func GetProgramID() string {
	return Get().ProgramID
}

// GetGreetingSeed returns the seed the greeting account address is derived with
func GetGreetingSeed() string {
	return Get().GreetingSeed
}

// GetExplorerAccountURL returns the account explorer link template
func GetExplorerAccountURL() string {
	return Get().ExplorerAccountURL
}

// GetExplorerTxURL returns the transaction explorer link template
func GetExplorerTxURL() string {
	return Get().ExplorerTxURL
}

// GetLogLevel returns the logrus level name
func GetLogLevel() string {
	return Get().LogLevel
}

// GetLogFormat returns "text" or "json"
func GetLogFormat() string {
	return Get().LogFormat
}

var passwordBytes []byte

// PromptForPassword prompts the user for the key file password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, "Enter key password: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return errors.New("password cannot be empty")
	}

	passwordBytes = make([]byte, len(raw))
	copy(passwordBytes, raw)
	clear(raw)
	return nil
}

// GetKeyPasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetKeyPasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}

// ClearPassword wipes the stored password once it is no longer needed.
func ClearPassword() {
	clear(passwordBytes)
	passwordBytes = nil
}
