package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/winstate/internal/desktop"
	"github.com/1broseidon/winstate/internal/events"
	"github.com/1broseidon/winstate/internal/platform"
	"github.com/1broseidon/winstate/internal/runtimepath"
	"github.com/charmbracelet/log"
)

const (
	requestTimeout = 5 * time.Second
	writeTimeout   = 2 * time.Second
	defaultBuffer  = 64
)

// Runner executes fn on the goroutine that owns the window.
type Runner interface {
	Do(ctx context.Context, fn func() error) error
}

// ServerOptions configures a Server.
type ServerOptions struct {
	// SocketPath overrides the runtime socket path.
	SocketPath string
	// WatchBuffer is the per-client event buffer for WATCH.
	WatchBuffer int
}

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	listener   net.Listener
	controller *desktop.Controller
	runner     Runner
	bus        *events.Bus
	logger     *log.Logger
	startTime  time.Time
	reloadChan chan<- struct{}

	watchMu     sync.RWMutex
	watchBuffer int

	quit         chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
	conns        sync.WaitGroup
}

// NewServer creates a new IPC server. Controller calls are funneled through
// runner; WATCH clients subscribe to bus.
func NewServer(opts ServerOptions, controller *desktop.Controller, runner Runner, bus *events.Bus, reloadChan chan<- struct{}, logger *log.Logger) (*Server, error) {
	socketPath := opts.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}
	if logger == nil {
		logger = log.Default()
	}
	buffer := opts.WatchBuffer
	if buffer < 1 {
		buffer = defaultBuffer
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath:  socketPath,
		controller:  controller,
		runner:      runner,
		bus:         bus,
		logger:      logger,
		startTime:   time.Now(),
		reloadChan:  reloadChan,
		watchBuffer: buffer,
		quit:        make(chan struct{}),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// SetWatchBuffer changes the buffer size used for new WATCH clients.
func (s *Server) SetWatchBuffer(n int) {
	if n < 1 {
		return
	}
	s.watchMu.Lock()
	s.watchBuffer = n
	s.watchMu.Unlock()
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.stopping() {
				return
			}
			s.logger.Warn("IPC accept error", "err", err)
			continue
		}

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) stopping() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shuttingDown
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(requestTimeout))
	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Debug("IPC read error", "err", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.send(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	if req.Command == CommandWatch {
		conn.SetReadDeadline(time.Time{})
		s.serveWatch(conn, reader)
		return
	}

	s.send(conn, s.handleCommand(req))
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)

	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandToggleFullscreen:
		return s.handleToggle(s.controller.ToggleFullscreen)
	case CommandToggleMaximize:
		return s.handleToggle(s.controller.ToggleMaximize)
	case CommandDisable:
		return s.handleDisable(req.Payload)
	case CommandSetWindowSize:
		return s.handleSetWindowSize(req.Payload)
	case CommandGetWindowSize:
		return s.handleGetWindowSize()
	case CommandClipCursor:
		return s.ok(s.call(s.controller.ClipCursor), nil)
	case CommandRestoreCursorClip:
		return s.ok(s.call(s.controller.RestoreCursorClip), nil)
	case CommandSetTitle:
		return s.handleSetTitle(req.Payload)
	case CommandMoveCursor:
		return s.handlePoint(req.Payload, s.controller.MoveCursorTo)
	case CommandSetCursorPos:
		return s.handlePoint(req.Payload, s.controller.SetCursorPos)
	case CommandSetCursorVisible:
		return s.handleCursorVisible(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// call runs fn on the window goroutine.
func (s *Server) call(fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	return s.runner.Do(ctx, fn)
}

func (s *Server) ok(err error, data any) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// handleReload asks the daemon to reload its configuration.
func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: received RELOAD")

	if s.reloadChan == nil {
		return NewErrorResponse("reload is not supported")
	}
	select {
	case s.reloadChan <- struct{}{}:
	default:
		// A reload is already pending.
	}
	return s.ok(nil, nil)
}

func (s *Server) handleGetStatus() *Response {
	var status desktop.Status
	err := s.call(func() error {
		status = s.controller.Status()
		return nil
	})
	return s.ok(err, StatusData{
		Status:        status,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	})
}

func (s *Server) handleGetMonitors() *Response {
	var displays []platform.Display
	err := s.call(func() error {
		var err error
		displays, err = s.controller.Displays()
		return err
	})
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get monitors: %v", err))
	}
	return s.ok(nil, MonitorsData{Monitors: displays})
}

func (s *Server) handleToggle(toggle func() error) *Response {
	var data StateData
	err := s.call(func() error {
		if err := toggle(); err != nil {
			return err
		}
		data = StateData{
			State:      s.controller.State().String(),
			Fullscreen: s.controller.IsFullscreen(),
			Maximized:  s.controller.IsMaximized(),
		}
		return nil
	})
	return s.ok(err, data)
}

func (s *Server) handleDisable(payload json.RawMessage) *Response {
	var req DisablePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid disable payload: %v", err))
	}

	var fn func() error
	switch req.Target {
	case DisableMaximize:
		fn = s.controller.DisableMaximizeButton
	case DisableMinimize:
		fn = s.controller.DisableMinimizeButton
	case DisableResize:
		fn = s.controller.DisableResize
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown disable target: %q", req.Target))
	}
	return s.ok(s.call(fn), nil)
}

func (s *Server) handleSetWindowSize(payload json.RawMessage) *Response {
	var req SetWindowSizePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid size payload: %v", err))
	}
	if req.Width <= 0 || req.Height <= 0 {
		return NewErrorResponse("width and height must be positive")
	}

	var rect platform.Rect
	err := s.call(func() error {
		set := s.controller.SetWindowSize
		if req.Client {
			set = s.controller.SetClientSize
		}
		if err := set(req.X, req.Y, req.Width, req.Height); err != nil {
			return err
		}
		var err error
		rect, err = s.controller.GetWindowSize()
		return err
	})
	return s.ok(err, rect)
}

func (s *Server) handleGetWindowSize() *Response {
	var rect platform.Rect
	err := s.call(func() error {
		var err error
		rect, err = s.controller.GetWindowSize()
		return err
	})
	return s.ok(err, rect)
}

func (s *Server) handleSetTitle(payload json.RawMessage) *Response {
	var req SetTitlePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid title payload: %v", err))
	}
	return s.ok(s.call(func() error { return s.controller.SetTitle(req.Title) }), nil)
}

func (s *Server) handlePoint(payload json.RawMessage, fn func(x, y int) error) *Response {
	var req PointPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid cursor payload: %v", err))
	}
	return s.ok(s.call(func() error { return fn(req.X, req.Y) }), nil)
}

func (s *Server) handleCursorVisible(payload json.RawMessage) *Response {
	var req CursorVisiblePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid cursor payload: %v", err))
	}
	return s.ok(s.call(func() error { return s.controller.SetCursorVisible(req.Visible) }), nil)
}

// serveWatch streams bus events to conn until the client disconnects or the
// server stops.
func (s *Server) serveWatch(conn net.Conn, reader *bufio.Reader) {
	if s.bus == nil {
		s.send(conn, NewErrorResponse("events are not available"))
		return
	}

	s.watchMu.RLock()
	size := s.watchBuffer
	s.watchMu.RUnlock()

	sub := s.bus.Subscribe(size)
	defer sub.Close()

	resp, _ := NewOKResponse(nil)
	if !s.send(conn, resp) {
		return
	}

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		io.Copy(io.Discard, reader)
	}()

	enc := json.NewEncoder(conn)
	for {
		select {
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := enc.Encode(ev); err != nil {
				s.logger.Debug("IPC watch write failed", "err", err)
				return
			}
		case <-gone:
			return
		case <-s.quit:
			return
		}
	}
}

// send writes resp as one line. It reports whether the write succeeded.
func (s *Server) send(conn net.Conn, resp *Response) bool {
	data, err := resp.Marshal()
	if err != nil {
		s.logger.Error("Failed to marshal response", "err", err)
		return false
	}
	data = append(data, '\n')
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := conn.Write(data); err != nil {
		if !errors.Is(err, net.ErrClosed) {
			s.logger.Debug("Failed to send response", "err", err)
		}
		return false
	}
	return true
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	close(s.quit)
	if s.listener != nil {
		s.listener.Close()
	}
	s.conns.Wait()
	os.Remove(s.socketPath)
}
