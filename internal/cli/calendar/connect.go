package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/peptalk/peptalk-cli/internal/cli"
	"github.com/peptalk/peptalk-cli/internal/constants"
	"github.com/peptalk/peptalk-cli/internal/logger"
	"github.com/peptalk/peptalk-cli/internal/models"
)

// ConnectCmd runs the client side of the calendar OAuth flow: it asks
// the relay for an authorization URL pointed back at a local loopback
// listener, sends the user to the browser, and finishes when the
// provider redirects back through the relay.
type ConnectCmd struct {
	Provider  string        `help:"Calendar provider to connect." enum:"google,apple" default:"google"`
	Timeout   time.Duration `help:"How long to wait for the browser flow." default:"5m"`
	NoBrowser bool          `help:"Print the authorization URL instead of opening a browser."`
}

func (c *ConnectCmd) Run(ctx *cli.Context) error {
	if c.Provider == constants.ProviderApple {
		return errors.New("Apple Calendar is not supported yet")
	}
	if ctx.RelayURL == "" {
		return errors.New("no relay URL configured, set --relay-url")
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to open loopback listener: %w", err)
	}
	defer listener.Close()

	appRedirect := fmt.Sprintf("http://%s/oauth/%s-callback", listener.Addr(), c.Provider)

	authURL, err := requestAuthURL(ctx.RelayURL, appRedirect)
	if err != nil {
		return err
	}

	if c.NoBrowser {
		fmt.Printf("Open this URL in your browser to connect:\n\n  %s\n\n", authURL)
	} else {
		fmt.Println("Opening your browser to connect Google Calendar...")
		if err := openBrowser(authURL); err != nil {
			logger.Warn("Failed to open browser", "error", err)
			fmt.Printf("Open this URL in your browser to connect:\n\n  %s\n\n", authURL)
		}
	}

	bundle, err := waitForCallback(listener, c.Timeout)
	if errors.Is(err, errFlowAbandoned) {
		// The user closed the browser or hit Ctrl-C: leave settings
		// untouched, this is not an error state.
		fmt.Println("Calendar connection cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	if err := Finalize(ctx.Store, c.Provider, bundle); err != nil {
		return err
	}

	fmt.Println("Google Calendar connected!")
	if bundle.Test != nil {
		fmt.Printf("Verified access to %d calendar(s).\n", bundle.Test.CalendarCount)
	}
	return nil
}

var errFlowAbandoned = errors.New("oauth flow abandoned")

func requestAuthURL(relayURL, appRedirect string) (string, error) {
	client := &http.Client{Timeout: constants.RelayTimeout}

	resp, err := client.Get(relayURL + "/oauth/start?appRedirect=" + url.QueryEscape(appRedirect))
	if err != nil {
		return "", fmt.Errorf("failed to reach relay: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read relay response: %w", err)
	}

	var parsed struct {
		URL   string `json:"url"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unexpected relay response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != "" {
			return "", fmt.Errorf("relay refused the request: %s", parsed.Error)
		}
		return "", fmt.Errorf("relay returned HTTP %d", resp.StatusCode)
	}
	return parsed.URL, nil
}

// waitForCallback serves exactly one request on the loopback listener
// and hands back the decoded token bundle.
func waitForCallback(listener net.Listener, timeout time.Duration) (models.CalendarTokenBundle, error) {
	type outcome struct {
		bundle models.CalendarTokenBundle
		err    error
	}
	results := make(chan outcome, 1)

	server := &http.Server{
		ReadHeaderTimeout: 5 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bundle, err := ParseCallbackParams(r.URL.Query())
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			if err != nil {
				fmt.Fprintf(w, "<html><body><h2>Connection failed</h2><p>%s</p><p>You can close this tab.</p></body></html>", err)
			} else {
				fmt.Fprint(w, "<html><body><h2>Google Calendar connected!</h2><p>You can close this tab and return to peptalk.</p></body></html>")
			}
			select {
			case results <- outcome{bundle: bundle, err: err}:
			default:
			}
		}),
	}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
			logger.Warn("Loopback server stopped", "error", err)
		}
	}()
	defer server.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case res := <-results:
		// Give the browser a moment to receive the response body.
		time.Sleep(100 * time.Millisecond)
		return res.bundle, res.err
	case <-ctx.Done():
		return models.CalendarTokenBundle{}, errFlowAbandoned
	case <-time.After(timeout):
		return models.CalendarTokenBundle{}, errFlowAbandoned
	}
}

func openBrowser(target string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", target).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target).Start()
	default:
		return exec.Command("xdg-open", target).Start()
	}
}
