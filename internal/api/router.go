package api

import (
	"net/http"

	"github.com/AlexZinkM/hello-greeter/greeter"
	"github.com/AlexZinkM/hello-greeter/internal/config"
	"github.com/AlexZinkM/hello-greeter/internal/handler"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(session *greeter.Session) (http.Handler, error) {
	greeterHandler, err := handler.NewGreeterHandler(
		session,
		config.GetExplorerAccountURL(),
		config.GetExplorerTxURL(),
	)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Greeter endpoints
	mux.HandleFunc("/greeter/account", greeterHandler.CheckAccount)
	mux.HandleFunc("/greeter/greet", greeterHandler.Greet)
	mux.HandleFunc("/greeter/state", greeterHandler.State)

	return mux, nil
}
