// Hello greeter HTTP server.
// Usage: PAYER_KEY_PATH=payer.json PROGRAM_ID=<base58> go run ./cmd/greeter
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/AlexZinkM/hello-greeter/docs"
	"github.com/AlexZinkM/hello-greeter/greeter"
	"github.com/AlexZinkM/hello-greeter/internal/api"
	"github.com/AlexZinkM/hello-greeter/internal/client"
	"github.com/AlexZinkM/hello-greeter/internal/config"
	"github.com/AlexZinkM/hello-greeter/internal/keys"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
)

const (
	connectTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// @title           Hello Greeter API
// @version         1.0
// @description     Provisions a greeting account on Solana and sends greetings to it.
// @BasePath        /
func main() {
	if err := config.Init(); err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	configureLogger()

	log := logrus.StandardLogger().WithField("type", "cmd/greeter")

	payer, program, err := loadKeys()
	if err != nil {
		log.WithError(err).Fatal("failed to load keys")
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	solanaClient, err := client.Connect(connectCtx, config.GetSolanaRPCURL(), config.GetSolanaWSURL(), client.Options{
		Commitment:     config.GetCommitment(),
		ConfirmTimeout: config.GetConfirmTimeout(),
		PollInterval:   config.GetConfirmPollInterval(),
	})
	cancel()
	if err != nil {
		log.WithError(err).Fatal("failed to connect to solana")
	}
	defer solanaClient.Close()

	session, err := greeter.NewSession(solanaClient, payer, program, config.GetGreetingSeed())
	if err != nil {
		log.WithError(err).Fatal("failed to create greeter session")
	}

	router, err := api.SetupRouter(session)
	if err != nil {
		log.WithError(err).Fatal("failed to set up router")
	}

	server := &http.Server{
		Addr:    ":" + config.GetPort(),
		Handler: router,
	}

	log.WithFields(logrus.Fields{
		"port":      config.GetPort(),
		"payer":     payer.PublicKey().String(),
		"program":   program.String(),
		"address":   session.Address().String(),
		"streaming": solanaClient.Streaming(),
	}).Info("starting server")

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutting down")
	case err := <-serverErr:
		log.WithError(err).Error("server failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to shut down server gracefully")
	}
}

func configureLogger() {
	if config.GetLogFormat() == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(strings.ToLower(config.GetLogLevel()))
	if err != nil {
		logrus.StandardLogger().WithField("log_level", config.GetLogLevel()).Warn("unknown log level, ignoring")
	} else {
		logrus.SetLevel(level)
	}
}

// loadKeys reads the payer key and program id. The password is prompted only when
// the payer key is a sealed file and is wiped once the key is unlocked.
func loadKeys() (solana.PrivateKey, solana.PublicKey, error) {
	var password []byte
	if keys.IsSealed(config.GetPayerKeyPath()) {
		if err := config.PromptForPassword(); err != nil {
			return nil, solana.PublicKey{}, err
		}
		defer config.ClearPassword()

		p, err := config.GetKeyPasswordBytes()
		if err != nil {
			return nil, solana.PublicKey{}, err
		}
		defer clear(p)
		password = p
	}

	payer, err := keys.LoadPrivateKey(config.GetPayerKeyPath(), password)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	program, err := keys.LoadProgramID(config.GetProgramKeyPath(), config.GetProgramID())
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	return payer, program, nil
}
