package client

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// WebsocketURL derives the stream endpoint of a cluster from its RPC endpoint:
// http becomes ws, https becomes wss, and an explicit port is incremented by one
// (validators serve the pubsub socket on rpc port + 1).
func WebsocketURL(rpcURL string) (string, error) {
	u, err := url.Parse(rpcURL)
	if err != nil {
		return "", fmt.Errorf("invalid rpc url: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported rpc url scheme %q", u.Scheme)
	}

	if port := u.Port(); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return "", fmt.Errorf("invalid rpc url port: %w", err)
		}
		u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(n+1))
	}

	return u.String(), nil
}

func validateEndpoint(raw string, schemes ...string) error {
	if raw == "" {
		return fmt.Errorf("endpoint is empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}

	for _, s := range schemes {
		if u.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("unsupported scheme %q, expected one of %v", u.Scheme, schemes)
}
