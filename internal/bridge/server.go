// ABOUTME: Websocket bridge that accepts controller events from remote pads
// ABOUTME: Decodes JSON events per connection and delivers them on one channel
package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/Resonate-Protocol/chime/internal/discovery"
	"github.com/Resonate-Protocol/chime/pkg/input/controller"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Path is the websocket endpoint
	Path = "/controller"

	// DefaultPort is used when the config leaves Port at zero
	DefaultPort = 8928

	eventBuffer     = 64
	shutdownTimeout = 5 * time.Second
)

// Config configures a bridge server
type Config struct {
	// Port to listen on (default: 8928)
	Port int

	// Name advertised over mDNS
	Name string

	// Advertise enables mDNS service advertisement
	Advertise bool

	Logger *zap.SugaredLogger
}

// Server accepts websocket connections and turns their messages into
// controller events
type Server struct {
	config   Config
	serverID string
	logger   *zap.SugaredLogger

	upgrader   websocket.Upgrader
	mux        *http.ServeMux
	httpServer *http.Server
	listener   net.Listener

	events chan controller.Event

	mu         sync.Mutex
	conns      map[string]*websocket.Conn
	isShutdown bool
	wg         sync.WaitGroup

	mdnsManager *discovery.Manager

	stopChan chan struct{}
	stopOnce sync.Once
}

// ConnectionInfo describes a connected pad
type ConnectionInfo struct {
	ID     string
	Remote string
}

// NewServer creates a bridge server
func NewServer(config Config) *Server {
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.Name == "" {
		config.Name = "chime"
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		logger:   logger.Named("bridge"),
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Pads run on the local network, not in browsers
				return true
			},
		},
		events:   make(chan controller.Event, eventBuffer),
		conns:    make(map[string]*websocket.Conn),
		stopChan: make(chan struct{}),
	}
	s.mux.HandleFunc(Path, s.handleWebSocket)

	return s
}

// Handler returns the HTTP handler serving the websocket endpoint
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Events returns the channel of decoded controller events. It is closed once
// Start returns after Stop.
func (s *Server) Events() <-chan controller.Event {
	return s.events
}

// Port returns the configured listen port, with the default applied
func (s *Server) Port() int {
	return s.config.Port
}

// Addr returns the listening address once Start has bound it
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start listens and serves until Stop is called
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.httpServer = &http.Server{Handler: s.mux}
	s.mu.Unlock()

	s.logger.Infow("Controller bridge listening", "addr", ln.Addr().String(), "path", Path, "id", s.serverID)

	if s.config.Advertise {
		port := ln.Addr().(*net.TCPAddr).Port
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        port,
			Path:        Path,
			Logger:      s.logger,
		})
		if err := s.mdnsManager.Advertise(); err != nil {
			s.logger.Warnw("Failed to start mDNS advertisement", "error", err)
		}
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	var serveErr error
	select {
	case <-s.stopChan:
		s.logger.Infow("Controller bridge shutting down")
	case serveErr = <-errChan:
		s.logger.Errorw("HTTP server error", "error", serveErr)
	}

	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Warnw("HTTP server shutdown error", "error", err)
	}

	s.Stop()
	s.closeConnections()
	s.wg.Wait()
	close(s.events)

	s.logger.Infow("Controller bridge stopped")
	return serveErr
}

// Stop stops the server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// Connections returns the connected pads sorted by id
func (s *Server) Connections() []ConnectionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ConnectionInfo, 0, len(s.conns))
	for id, c := range s.conns {
		out = append(out, ConnectionInfo{ID: id, Remote: c.RemoteAddr().String()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// closeConnections marks the server shut down and unblocks every reader
func (s *Server) closeConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.isShutdown = true
	for _, c := range s.conns {
		_ = c.Close()
	}
}

// handleWebSocket upgrades and registers a pad connection
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("WebSocket upgrade error", "remote", r.RemoteAddr, "error", err)
		return
	}

	id := uuid.New().String()

	s.mu.Lock()
	if s.isShutdown {
		s.mu.Unlock()
		s.logger.Infow("Rejecting connection during shutdown", "remote", r.RemoteAddr)
		_ = conn.Close()
		return
	}
	s.conns[id] = conn
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Infow("Pad connected", "conn", id, "remote", r.RemoteAddr)

	defer s.wg.Done()
	s.handleConnection(id, conn)
}

// handleConnection reads events until the pad goes away
func (s *Server) handleConnection(id string, conn *websocket.Conn) {
	connected := make(map[uint32]bool)

	defer func() {
		s.mu.Lock()
		delete(s.conns, id)
		s.mu.Unlock()
		_ = conn.Close()

		// Controllers vanish with the connection that reported them
		for _, which := range sortedIDs(connected) {
			if !s.deliver(controller.Disconnected{Which: which}) {
				break
			}
		}
		s.logger.Infow("Pad disconnected", "conn", id, "controllers", len(connected))
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debugw("Connection read ended", "conn", id, "error", err)
			}
			return
		}

		if msgType != websocket.TextMessage {
			s.logger.Warnw("Skipping non-text message", "conn", id, "type", msgType)
			continue
		}

		ev, err := controller.Unmarshal(data)
		if err != nil {
			s.logger.Warnw("Skipping malformed controller message", "conn", id, "error", err)
			continue
		}

		switch e := ev.(type) {
		case controller.Connected:
			connected[e.Which] = true
		case controller.Disconnected:
			delete(connected, e.Which)
		}

		if !s.deliver(ev) {
			return
		}
	}
}

// deliver hands an event to the consumer, false once the server is stopping
func (s *Server) deliver(ev controller.Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.stopChan:
		return false
	}
}

func sortedIDs(set map[uint32]bool) []uint32 {
	ids := make([]uint32, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
