//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/motivationapp/motivation-service/internal/adapters/clients"
	"github.com/motivationapp/motivation-service/internal/adapters/clients/acl"
	"github.com/motivationapp/motivation-service/internal/adapters/flags"
	httpadapter "github.com/motivationapp/motivation-service/internal/adapters/http"
	"github.com/motivationapp/motivation-service/internal/adapters/http/handlers"
	"github.com/motivationapp/motivation-service/internal/adapters/notifications"
	"github.com/motivationapp/motivation-service/internal/adapters/store"
	"github.com/motivationapp/motivation-service/internal/adapters/store/memory"
	"github.com/motivationapp/motivation-service/internal/app"
	"github.com/motivationapp/motivation-service/internal/platform/config"
	"github.com/motivationapp/motivation-service/internal/ports"
)

// remoteAPI fakes the motivation API: GET /quotes?page=N and the auth
// endpoints. Quotes on page N have ids N*100+1 onwards.
type remoteAPI struct {
	server *httptest.Server

	down       atomic.Bool
	perPage    atomic.Int32
	quoteCalls atomic.Int32

	mu    sync.Mutex
	users map[string]string
}

func newRemoteAPI() *remoteAPI {
	api := &remoteAPI{users: map[string]string{"nino@example.com": "Secret1!"}}
	api.perPage.Store(5)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /quotes", api.quotes)
	mux.HandleFunc("POST /auth/login", api.login)
	mux.HandleFunc("POST /auth/register", api.register)
	mux.HandleFunc("POST /auth/request-recovery", api.message("We have emailed your password reset link."))
	mux.HandleFunc("POST /auth/reset-password", api.message("Your password has been reset."))

	api.server = httptest.NewServer(mux)

	return api
}

func (a *remoteAPI) Close() { a.server.Close() }

func (a *remoteAPI) quotes(w http.ResponseWriter, r *http.Request) {
	a.quoteCalls.Add(1)

	if a.down.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	type quote struct {
		ID       int     `json:"id"`
		Category string  `json:"category"`
		Type     string  `json:"type"`
		Author   string  `json:"author"`
		Content  string  `json:"content"`
		URL      *string `json:"url"`
	}

	n := int(a.perPage.Load())
	quotes := make([]quote, n)

	for i := range n {
		id := page*100 + i + 1
		quotes[i] = quote{
			ID:       id,
			Category: "Motivational",
			Type:     "text",
			Author:   fmt.Sprintf("Author %d", id),
			Content:  fmt.Sprintf("Quote number %d", id),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"quotes": quotes})
}

func (a *remoteAPI) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	a.mu.Lock()
	password, ok := a.users[req.Email]
	a.mu.Unlock()

	if !ok || password != req.Password {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": "These credentials do not match our records."})
		return
	}

	writeJSON(w, http.StatusOK, session(req.Email))
}

func (a *remoteAPI) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	a.mu.Lock()
	a.users[req.Email] = req.Password
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, session(req.Email))
}

func (a *remoteAPI) message(msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": msg})
	}
}

func session(email string) map[string]any {
	return map[string]any{
		"token": "token-" + email,
		"user":  map[string]any{"id": 42, "full_name": "Nino Reyes", "email": email, "email_verified_at": nil},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// stack is the service wired over memory backends against a remoteAPI.
type stack struct {
	remote  *remoteAPI
	service *httptest.Server
}

func remoteClientConfig(baseURL, name string) *clients.Config {
	return &clients.Config{
		BaseURL:     baseURL,
		ServiceName: name,
		Timeout:     2 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   100,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
	}
}

// newStack builds a fresh service. stores and centers may be nil for the
// memory backends.
func newStack(kv ports.KeyValueStore, centers ports.NotificationCenters) (*stack, error) {
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	remote := newRemoteAPI()

	quoteHTTP, err := clients.New(remoteClientConfig(remote.server.URL, "quote-api"))
	if err != nil {
		remote.Close()
		return nil, err
	}

	authHTTP, err := clients.New(remoteClientConfig(remote.server.URL, "auth-api"))
	if err != nil {
		remote.Close()
		return nil, err
	}

	if kv == nil {
		kv = memory.New(nil)
	}

	if centers == nil {
		centers = notifications.NewMemoryCenters(notifications.Options{})
	}

	quoteClient := acl.NewQuoteClient(acl.QuoteClientConfig{Client: quoteHTTP, Logger: logger})
	authClient := acl.NewAuthClient(acl.AuthClientConfig{Client: authHTTP, ClientTag: "ios", Logger: logger})

	health := ports.NewHealthRegistry()
	if err := health.Register(quoteClient); err != nil {
		remote.Close()
		return nil, err
	}

	stores := store.NewRepository(kv, "it", logger)
	featureFlags := flags.NewStatic(map[string]bool{
		ports.FlagQuoteHistoryFilter: true,
		ports.FlagVerifyPending:      true,
	})

	feed := app.NewFeedService(app.FeedConfig{Source: quoteClient, Stores: stores, Flags: featureFlags, Logger: logger})
	reminders := app.NewReminderService(app.ReminderConfig{
		Feed:    feed,
		Stores:  stores,
		Centers: centers,
		Flags:   featureFlags,
		Logger:  logger,
	})
	widget := app.NewWidgetService(app.WidgetConfig{Feed: feed, Stores: stores, Logger: logger})
	accounts := app.NewAuthService(app.AuthConfig{Client: authClient, Stores: stores, Logger: logger})

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Logger:          logger,
		AppConfig:       &config.AppConfig{Name: "motivation-service"},
		APIConfig:       &config.APIConfig{DeviceHeader: config.DefaultDeviceHeader},
		Timeout:         5 * time.Second,
		HealthHandler:   handlers.NewHealthHandler(health, handlers.NewBuildInfo("it", "it", "it"), nil),
		QuoteHandler:    handlers.NewQuoteHandler(feed),
		ReminderHandler: handlers.NewReminderHandler(reminders),
		WidgetHandler:   handlers.NewWidgetHandler(widget),
		AuthHandler:     handlers.NewAuthHandler(accounts),
	})

	return &stack{remote: remote, service: httptest.NewServer(engine)}, nil
}

func (s *stack) Close() {
	s.service.Close()
	s.remote.Close()
}
