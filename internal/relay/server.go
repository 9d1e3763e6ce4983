package relay

import (
	"net/http"
	"time"
)

// NewServer builds the relay's HTTP server with bounded timeouts;
// nothing here should ever hold a connection open on a hung upstream.
func NewServer(cfg *Config) *http.Server {
	mux := http.NewServeMux()
	NewService(cfg).Routes(mux)

	return &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,

		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
