package host

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rodrigodemos/microsoft-agents-starterkit/activity"
	"github.com/rodrigodemos/microsoft-agents-starterkit/agent"
	"github.com/rodrigodemos/microsoft-agents-starterkit/auth"
)

const (
	portProbeTimeout = 500 * time.Millisecond
	shutdownTimeout  = 10 * time.Second
)

// Handler builds the HTTP handler: message endpoint, health endpoint and
// auth middleware. Exposed separately from ListenAndServe for tests.
func (h *Host) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/messages", h.handleMessages)
	mux.HandleFunc("/api/health", h.handleHealth)

	if h.verifier != nil {
		return auth.Middleware(h.verifier)(mux)
	}
	return auth.AnonymousMiddleware()(mux)
}

// handleMessages accepts an inbound activity and returns the reply
// activities produced during the turn. GET returns an empty 200 so channel
// connectivity checks succeed.
func (h *Host) handleMessages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.WriteHeader(http.StatusOK)
	case http.MethodPost:
		h.processInbound(w, r)
	default:
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
	}
}

func (h *Host) processInbound(w http.ResponseWriter, r *http.Request) {
	var act activity.Activity
	if err := json.NewDecoder(r.Body).Decode(&act); err != nil {
		http.Error(w, `{"error":"invalid activity payload"}`, http.StatusBadRequest)
		return
	}
	decodeNotification(&act)

	var replies []*activity.Activity
	sender := activity.SenderFunc(func(ctx context.Context, a *activity.Activity) error {
		replies = append(replies, a)
		return nil
	})

	turn := activity.NewTurnContext(&act, sender)
	h.Dispatch(r.Context(), turn)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(replies); err != nil {
		h.logger.Error("failed to encode replies", "error", err)
	}
}

// decodeNotification lifts the notification payload out of the activity
// value for notification events.
func decodeNotification(act *activity.Activity) {
	if !act.IsNotification() || act.Value == nil {
		return
	}
	raw, err := json.Marshal(act.Value)
	if err != nil {
		return
	}
	var n activity.Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return
	}
	act.Notification = &n
}

func (h *Host) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	a := h.agent
	state := h.state
	h.mu.Unlock()

	agentType := "none"
	if a != nil {
		agentType = agent.TypeName(a)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":            "ok",
		"state":             state.String(),
		"agent_type":        agentType,
		"agent_initialized": a != nil,
	})
}

// ResolvePort probes the desired port with a short TCP connect and falls
// back to port+1 when something is already listening. This keeps side by
// side local runs working without configuration.
func ResolvePort(desired int) int {
	addr := net.JoinHostPort("127.0.0.1", fmt.Sprint(desired))
	conn, err := net.DialTimeout("tcp", addr, portProbeTimeout)
	if err != nil {
		return desired
	}
	_ = conn.Close()
	return desired + 1
}

// ListenAndServe initializes the agent, binds the resolved port and serves
// until the context is cancelled, then shuts down gracefully.
func (h *Host) ListenAndServe(ctx context.Context) error {
	if err := h.Initialize(ctx); err != nil {
		return err
	}

	port := ResolvePort(h.cfg.Port)
	server := &http.Server{
		Addr:    net.JoinHostPort("localhost", fmt.Sprint(port)),
		Handler: h.Handler(),
	}

	h.printBanner(port)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			_ = h.Shutdown(context.Background())
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	return h.Shutdown(shutdownCtx)
}

func (h *Host) printBanner(port int) {
	name := agent.TypeName(h.Agent())
	authMode := "Anonymous"
	if h.verifier != nil {
		authMode = "Enabled"
	}

	fmt.Println("================================================================================")
	fmt.Println(name)
	fmt.Println("================================================================================")
	fmt.Printf("Auth: %s\n", authMode)
	fmt.Printf("Startup: %s\n", h.report.Summary())
	fmt.Printf("Server: localhost:%d\n", port)
	fmt.Printf("Endpoint: http://localhost:%d/api/messages\n", port)
	fmt.Printf("Health: http://localhost:%d/api/health\n\n", port)
}
