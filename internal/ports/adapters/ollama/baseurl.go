package ollama

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	defaultServer = "http://localhost"
	defaultPort   = 11434
)

// BaseURL joins a server address and port into the base URL requests are
// made against. Empty or zero inputs fall back to the local Ollama default.
func BaseURL(server string, port int) string {
	server = strings.TrimRight(strings.TrimSpace(server), "/")
	if server == "" {
		server = defaultServer
	}
	if port <= 0 {
		port = defaultPort
	}
	return fmt.Sprintf("%s:%d", server, port)
}

// ValidateServer rejects server addresses that cannot form a usable base
// URL. Plain http is allowed: the common case is an inference server on
// localhost or on the LAN.
func ValidateServer(server string) error {
	server = strings.TrimRight(strings.TrimSpace(server), "/")
	if server == "" {
		return nil
	}

	u, err := url.Parse(server)
	if err != nil {
		return fmt.Errorf("invalid server address %q: %w", server, err)
	}
	if !u.IsAbs() || u.Hostname() == "" {
		return fmt.Errorf("invalid server address %q: absolute URL with host is required", server)
	}
	if u.User != nil {
		return fmt.Errorf("invalid server address %q: userinfo is not allowed", server)
	}
	if u.Port() != "" {
		return fmt.Errorf("invalid server address %q: set the port through its own option", server)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("invalid server address %q: path, query and fragment are not allowed", server)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return nil
	default:
		return fmt.Errorf("invalid server address %q: http or https is required", server)
	}
}
