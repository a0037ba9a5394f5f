// Package server exposes a running simulation over HTTP. A single loop
// goroutine owns the controller: websocket clients feed it input events
// through a channel and receive a JSON snapshot after every tick.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/control"
	"github.com/san-kum/ballsim/internal/experiment"
)

var startTime = time.Now()

type Server struct {
	exp      *experiment.Experiment
	ctrl     *control.Controller
	hub      *Hub
	events   chan control.Event
	tickRate int
	release  bool
	done     chan struct{}

	mu       sync.RWMutex
	snapshot []byte
}

func New(e *experiment.Experiment, cfg config.ServerConfig) *Server {
	tickRate := cfg.TickRate
	if tickRate < 1 {
		tickRate = config.DefaultFPS
	}
	s := &Server{
		exp:      e,
		ctrl:     e.Controller(),
		hub:      NewHub(),
		events:   make(chan control.Event, 64),
		tickRate: tickRate,
		release:  cfg.Release,
		done:     make(chan struct{}),
	}
	s.publish()
	return s
}

func (s *Server) Hub() *Hub { return s.hub }

// State returns the latest snapshot as JSON.
func (s *Server) State() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *Server) publish() {
	data, err := json.Marshal(NewSnapshot(s.ctrl.Scene()))
	if err != nil {
		log.Printf("[SERVER] encode snapshot: %v", err)
		return
	}
	s.mu.Lock()
	s.snapshot = data
	s.mu.Unlock()
	s.hub.Broadcast(data)
}

// Loop runs the simulation until ctx is done. It must be called once.
func (s *Server) Loop(ctx context.Context) {
	defer close(s.done)
	defer s.hub.Close()

	ticker := time.NewTicker(time.Second / time.Duration(s.tickRate))
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.events:
			s.ctrl.Handle(ev)
		case now := <-ticker.C:
			s.ctrl.Handle(control.Tick{Dt: now.Sub(last).Seconds()})
			last = now
			s.publish()
		}
	}
}

// Router builds the gin engine. Request logging is on outside release mode.
func (s *Server) Router() *gin.Engine {
	var router *gin.Engine
	if s.release {
		gin.SetMode(gin.ReleaseMode)
		router = gin.New()
		router.Use(gin.Recovery())
	} else {
		router = gin.Default()
	}

	router.GET("/healthz", s.handleHealth)
	router.GET("/state", s.handleState)
	router.GET("/ws", s.handleWebSocket)
	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "ballsim",
		"scene":   s.exp.Name(),
		"clients": s.hub.Len(),
		"uptime":  time.Since(startTime).String(),
	})
}

func (s *Server) handleState(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", s.State())
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] upgrade: %v", err)
		return
	}
	client := &Client{
		hub:    s.hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		events: s.events,
		world:  World(s.exp.Config().Width, s.exp.Config().Height),
	}
	client.send <- s.State()
	s.hub.register(client)

	go client.writePump()
	go client.readPump(s.done)
}

// ListenAndServe runs the simulation loop and serves on addr until ctx is
// done, then shuts the HTTP server down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.Loop(ctx)

	srv := &http.Server{Addr: addr, Handler: s.Router()}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	log.Printf("[SERVER] serving %s on %s", s.exp.Name(), addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	log.Printf("[SERVER] shutting down")
	return srv.Shutdown(shutdownCtx)
}
