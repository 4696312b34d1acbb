package sink

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/browser"
)

// The default origin check only admits pages served by this sink.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WindowMessage is pushed to the window over the websocket.
type WindowMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

var windowPage = template.Must(template.New("window").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.}}</title>
<style>
body { font-family: sans-serif; max-width: 52em; margin: 2em auto; padding: 0 1em; }
pre { white-space: pre-wrap; font-family: inherit; line-height: 1.5; }
</style>
</head>
<body>
<h2>{{.}}</h2>
<pre id="summary">Loading summary...</pre>
<script>
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (event) => {
	const msg = JSON.parse(event.data);
	if (msg.type === "summary") {
		document.getElementById("summary").textContent = msg.content;
	}
};
</script>
</body>
</html>
`))

type WindowConfig struct {
	Title string
	// ConnectTimeout bounds how long Deliver waits for the window to appear.
	ConnectTimeout time.Duration
	// ReconnectGrace is how long the last connection may stay gone, e.g.
	// during a page reload, before the window counts as closed.
	ReconnectGrace time.Duration
	// Open shows the page at url. Defaults to the desktop browser.
	Open   func(url string) error
	Logger *slog.Logger
}

// WindowSink shows the summary in a browser window served from 127.0.0.1
// and blocks until the user closes that window.
type WindowSink struct {
	config WindowConfig
}

func NewWindowSink(config WindowConfig) *WindowSink {
	if config.Title == "" {
		config.Title = "Website Summary"
	}
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = 30 * time.Second
	}
	if config.ReconnectGrace == 0 {
		config.ReconnectGrace = 2 * time.Second
	}
	if config.Open == nil {
		config.Open = openBrowser
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &WindowSink{config: config}
}

func openBrowser(url string) error {
	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return errors.New("neither DISPLAY nor WAYLAND_DISPLAY is set")
	}
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return browser.OpenURL(url)
}

func (s *WindowSink) Deliver(ctx context.Context, summary string) error {
	title := s.config.Title
	if src, ok := SourceFrom(ctx); ok && src.Title != "" {
		title = src.Title
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return &DeliveryError{Destination: "window", Err: err}
	}

	var (
		connectOnce sync.Once
		connected   = make(chan struct{})
		closed      = make(chan struct{})

		mu       sync.Mutex
		live     int
		grace    *time.Timer
		isClosed bool
	)

	// The window is closed once no connection has been live for the whole
	// grace period.
	disconnect := func() {
		mu.Lock()
		defer mu.Unlock()
		live--
		if live > 0 {
			return
		}
		grace = time.AfterFunc(s.config.ReconnectGrace, func() {
			mu.Lock()
			defer mu.Unlock()
			if live == 0 && !isClosed {
				isClosed = true
				close(closed)
			}
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := windowPage.Execute(w, title); err != nil {
			s.config.Logger.Error("failed to render window page", "error", err)
		}
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.config.Logger.Warn("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		mu.Lock()
		live++
		if grace != nil {
			grace.Stop()
			grace = nil
		}
		mu.Unlock()
		defer disconnect()
		connectOnce.Do(func() { close(connected) })

		if err := conn.WriteJSON(WindowMessage{Type: "summary", Content: summary}); err != nil {
			s.config.Logger.Warn("failed to send summary to window", "error", err)
		}
		// The browser never writes; a read error means this page went away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go srv.Serve(ln)
	defer srv.Close()

	pageURL := "http://" + ln.Addr().String() + "/"
	if err := s.config.Open(pageURL); err != nil {
		return &DeliveryError{Destination: "window", Err: fmt.Errorf("%w: %v", ErrDisplayUnavailable, err)}
	}
	s.config.Logger.Info("summary window opened; close it to continue", "url", pageURL)

	timer := time.NewTimer(s.config.ConnectTimeout)
	defer timer.Stop()

	select {
	case <-connected:
	case <-timer.C:
		return &DeliveryError{
			Destination: "window",
			Err:         fmt.Errorf("%w: no window connected within %s", ErrDisplayUnavailable, s.config.ConnectTimeout),
		}
	case <-ctx.Done():
		return &DeliveryError{Destination: "window", Err: ctx.Err()}
	}

	defer func() {
		mu.Lock()
		if grace != nil {
			grace.Stop()
		}
		mu.Unlock()
	}()

	select {
	case <-closed:
		return nil
	case <-ctx.Done():
		return &DeliveryError{Destination: "window", Err: ctx.Err()}
	}
}
