package relayserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/SolomonGithu/barkdet-go/internal/conf"
	"github.com/SolomonGithu/barkdet-go/internal/errors"
	"github.com/SolomonGithu/barkdet-go/internal/logging"
	"github.com/SolomonGithu/barkdet-go/internal/observability"
)

const (
	pushTTLSeconds  = 60
	sendConcurrency = 8
)

// PushFunc delivers one encrypted message to a push service endpoint. It is
// injectable so tests can run the fan-out without real push infrastructure.
type PushFunc func(message []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)

// Server is the push relay HTTP server. It hands out the VAPID public key,
// stores subscriptions, and fans detection payloads out to every subscriber.
type Server struct {
	echo    *echo.Echo
	store   *Store
	keys    *VAPIDKeys
	contact string
	port    int
	push    PushFunc
	logger  *slog.Logger
	metrics *observability.Metrics

	// subCache holds parsed subscription descriptors keyed by their
	// serialized form, so repeated sends skip re-parsing.
	subCache *gocache.Cache
}

// sendResult is the per-subscription outcome reported by POST /send.
type sendResult struct {
	Sub    json.RawMessage `json:"sub"`
	Status string          `json:"status"`
	Reason string          `json:"reason,omitempty"`
}

// New creates a relay server from settings. The store and VAPID keys are
// opened eagerly so misconfiguration fails at startup, not first request.
func New(settings *conf.ServerSettings, metrics *observability.Metrics) (*Server, error) {
	store, err := OpenStore(settings.Database)
	if err != nil {
		return nil, err
	}
	keys, err := LoadOrGenerateVAPID(settings.VAPIDKeyFile)
	if err != nil {
		return nil, err
	}
	return newServer(store, keys, settings.Contact, settings.Port, metrics), nil
}

func newServer(store *Store, keys *VAPIDKeys, contact string, port int, metrics *observability.Metrics) *Server {
	s := &Server{
		store:    store,
		keys:     keys,
		contact:  contact,
		port:     port,
		push:     webpush.SendNotification,
		logger:   logging.ForService("relayserver"),
		metrics:  metrics,
		subCache: gocache.New(time.Hour, 10*time.Minute),
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.GET("/vapidPublicKey", s.handleVAPIDPublicKey)
	e.POST("/subscribe", s.handleSubscribe)
	e.POST("/unsubscribe", s.handleUnsubscribe)
	e.POST("/send", s.handleSend)
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	s.echo = e
	return s
}

// Start runs the HTTP server until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.echo.Start(fmt.Sprintf(":%d", s.port))
	}()
	s.logger.Info("relay server listening", "port", s.port)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	case err := <-errChan:
		if err != nil && err != http.ErrServerClosed {
			return errors.New(fmt.Errorf("relay server failed: %w", err)).
				Component("relayserver").
				Category(errors.CategoryHTTP).
				Build()
		}
		return nil
	}
}

func (s *Server) handleVAPIDPublicKey(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"publicKey": s.keys.PublicKey})
}

// subscriptionRequest is the body shared by subscribe and unsubscribe.
type subscriptionRequest struct {
	Subscription json.RawMessage `json:"subscription"`
}

func (s *Server) handleSubscribe(c echo.Context) error {
	var req subscriptionRequest
	if err := c.Bind(&req); err != nil || len(req.Subscription) == 0 || string(req.Subscription) == "null" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "subscription missing"})
	}

	sub, err := parseSubscription(req.Subscription)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "subscription malformed"})
	}

	if err := s.store.Add(sub.Endpoint, string(req.Subscription)); err != nil {
		s.logger.Error("failed to store subscription", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "storage failure"})
	}
	s.logger.Info("subscription added", "endpoint", sub.Endpoint)
	s.updateSubscriptionGauge()
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleUnsubscribe(c echo.Context) error {
	var req subscriptionRequest
	if err := c.Bind(&req); err != nil || len(req.Subscription) == 0 || string(req.Subscription) == "null" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "subscription missing"})
	}

	removed, err := s.store.RemoveExact(string(req.Subscription))
	if err != nil {
		s.logger.Error("failed to remove subscription", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "storage failure"})
	}
	s.logger.Info("subscription removed", "count", removed)
	s.updateSubscriptionGauge()
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "removed": removed})
}

// sendRequest optionally carries the payload to relay. An empty body falls
// back to a generic bark notification.
type sendRequest struct {
	Payload json.RawMessage `json:"payload"`
}

func (s *Server) handleSend(c echo.Context) error {
	var req sendRequest
	// An empty or malformed body is not an error; the default payload is used.
	_ = c.Bind(&req)

	message := req.Payload
	if len(message) == 0 || string(message) == "null" {
		message = json.RawMessage(`{"title":"Dog bark","body":"A dog bark was detected"}`)
	}

	subs, err := s.store.All()
	if err != nil {
		s.logger.Error("failed to list subscriptions", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "storage failure"})
	}

	// Every subscription is attempted independently; one dead endpoint must
	// not stop delivery to the rest.
	results := make([]sendResult, len(subs))
	g, _ := errgroup.WithContext(c.Request().Context())
	g.SetLimit(sendConcurrency)
	for i, stored := range subs {
		g.Go(func() error {
			results[i] = s.pushToSubscription(stored, message)
			return nil
		})
	}
	_ = g.Wait()

	for i := range results {
		if s.metrics != nil {
			s.metrics.PushDeliveries.WithLabelValues(results[i].Status).Inc()
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"results": results})
}

// pushToSubscription delivers one message and never fails the request;
// errors are reported in the per-subscription result instead.
func (s *Server) pushToSubscription(stored Subscription, message json.RawMessage) sendResult {
	result := sendResult{Sub: json.RawMessage(stored.Data), Status: "ok"}

	sub, err := s.cachedSubscription(stored.Data)
	if err != nil {
		result.Status = "error"
		result.Reason = "malformed subscription"
		return result
	}

	resp, err := s.push(message, sub, &webpush.Options{
		Subscriber:      s.contact,
		VAPIDPublicKey:  s.keys.PublicKey,
		VAPIDPrivateKey: s.keys.PrivateKey,
		TTL:             pushTTLSeconds,
	})
	if err != nil {
		s.logger.Warn("push delivery failed", "endpoint", sub.Endpoint, "error", err)
		result.Status = "error"
		result.Reason = err.Error()
		return result
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn("push service rejected delivery", "endpoint", sub.Endpoint, "status", resp.StatusCode)
		result.Status = "error"
		result.Reason = fmt.Sprintf("push service returned %d", resp.StatusCode)
	}
	return result
}

// cachedSubscription parses a stored descriptor, reusing the parse across
// sends for the same serialized form.
func (s *Server) cachedSubscription(data string) (*webpush.Subscription, error) {
	if cached, ok := s.subCache.Get(data); ok {
		return cached.(*webpush.Subscription), nil
	}
	sub, err := parseSubscription(json.RawMessage(data))
	if err != nil {
		return nil, err
	}
	s.subCache.SetDefault(data, sub)
	return sub, nil
}

func parseSubscription(raw json.RawMessage) (*webpush.Subscription, error) {
	var sub webpush.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, err
	}
	if sub.Endpoint == "" {
		return nil, errors.Newf("subscription has no endpoint").
			Component("relayserver").
			Category(errors.CategoryValidation).
			Build()
	}
	return &sub, nil
}

func (s *Server) updateSubscriptionGauge() {
	if s.metrics == nil {
		return
	}
	if n, err := s.store.Count(); err == nil {
		s.metrics.Subscriptions.Set(float64(n))
	}
}
