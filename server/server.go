package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/wfunc/improvbattle/broadcast"
	"github.com/wfunc/improvbattle/config"
	"github.com/wfunc/improvbattle/logger"
	"github.com/wfunc/improvbattle/monitor"
	"github.com/wfunc/improvbattle/navigation"
	"github.com/wfunc/improvbattle/persistence"
	gameserver_rpc "github.com/wfunc/improvbattle/rpc"
	"github.com/wfunc/improvbattle/services"
	"github.com/wfunc/improvbattle/session"
	"github.com/wfunc/improvbattle/timer"
	"github.com/wfunc/improvbattle/widget"
)

const (
	PresencePath = "/ws"
	MetricsPath  = "/metrics"
	HealthPath   = "/healthz"
	StaticPath   = "/static"
)

// GameServer serves the landing and game pages plus the presence channel.
type GameServer struct {
	cfg            *config.Config
	router         *gin.Engine
	httpServer     *http.Server
	upgrader       websocket.Upgrader
	sessionManager *session.Manager
	broadcaster    broadcast.Broadcaster
	visits         *services.VisitService
	monitor        *monitor.Monitor
	rpcServer      *gameserver_rpc.Server
	reaper         *timer.TimerManager
	agent          widget.VoiceAgent
	shutdownChan   chan struct{}
	shutdownOnce   sync.Once

	// connMu orders every connections.Add before the Wait in Shutdown.
	connMu      sync.Mutex
	connections sync.WaitGroup
}

// NewGameServer wires the server. db may be nil, in which case visits are
// counted but not stored. agent renders the voice agent on the game page.
func NewGameServer(cfg *config.Config, db persistence.Database, agent widget.VoiceAgent) (*GameServer, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if agent == nil {
		return nil, errors.New("voice agent widget is required")
	}

	s := &GameServer{
		cfg:            cfg,
		sessionManager: session.NewManager(),
		visits:         services.NewVisitService(db),
		monitor:        monitor.NewMonitor("improv"),
		agent:          agent,
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.broadcaster = broadcast.NewSessionBroadcaster(s.sessionManager)

	if cfg.Server.RPCAddress != "" {
		rpcServer, err := gameserver_rpc.NewServer(cfg.Server.RPCAddress,
			gameserver_rpc.NewPresenceService(s.sessionManager, s.visits))
		if err != nil {
			return nil, fmt.Errorf("create RPC server: %w", err)
		}
		s.rpcServer = rpcServer
	}

	if cfg.Presence.Enabled {
		s.reaper = timer.NewTimerManager(0)
		s.reaper.AddTimer(cfg.Presence.ReapInterval, cfg.Presence.ReapInterval, s.reapIdle)
	}

	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddress,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

func (s *GameServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(s.monitor))

	r.GET(navigation.LandingPath, s.handleLanding)
	r.POST(navigation.StartPath, s.handleStart)
	r.GET(navigation.GamePath, s.handleGame)
	if s.cfg.Presence.Enabled {
		r.GET(PresencePath, s.handleWebSocket)
	}
	r.GET(MetricsPath, gin.WrapH(s.monitor.Handler()))
	r.GET(HealthPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if dir := s.cfg.Server.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			r.Static(StaticPath, dir)
		} else {
			logger.Log.Infof("Static directory %q not found, %s is not served", dir, StaticPath)
		}
	}
	return r
}

// Handler exposes the router, mainly for tests.
func (s *GameServer) Handler() http.Handler {
	return s.router
}

// Start serves HTTP (and RPC when configured) until ctx ends, then shuts down.
func (s *GameServer) Start(ctx context.Context) error {
	if s.rpcServer != nil {
		go s.rpcServer.Start()
	}

	serveErr := make(chan error, 1)
	logger.Log.Infof("Game server listening on %s", s.cfg.Server.HTTPAddress)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-serveErr:
		s.stopBackground()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Shutdown stops accepting requests, closes every presence connection, waits
// for their visits to be recorded and logs a summary.
func (s *GameServer) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.stopBackground()

	for _, sess := range s.sessionManager.All() {
		_ = sess.Close()
	}

	done := make(chan struct{})
	go func() {
		s.connections.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		logger.Log.Warnf("Shutdown timed out with %d presence connections open", s.sessionManager.Count())
	}

	summary := s.visits.Summary()
	logger.Log.Infow("Presence summary",
		"visits", summary.Recorded,
		"longest_seconds", summary.LongestSeconds,
		"persisted", summary.PersistenceUsed,
	)

	if err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func (s *GameServer) stopBackground() {
	s.shutdownOnce.Do(func() {
		s.connMu.Lock()
		close(s.shutdownChan)
		s.connMu.Unlock()
		if s.reaper != nil {
			s.reaper.Stop()
		}
		if s.rpcServer != nil {
			s.rpcServer.Stop()
		}
	})
}
