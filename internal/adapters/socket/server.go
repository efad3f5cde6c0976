package socket

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Service answers daemon requests. Thread safety is the implementor's
// responsibility: every connection is served on its own goroutine.
type Service interface {
	Decompose(ctx context.Context, params DecomposeParams) (DecomposeResult, error)
	Lint(params LintParams) (LintResult, error)
	Lexicons() (LexiconsResult, error)
	Import(params ImportParams) (ImportResult, error)
	Remove(name string) error
	Stats() (StatsResult, error)
}

// Server is the daemon that listens on a Unix socket and serves requests.
type Server struct {
	svc      Service
	log      *zap.Logger
	listener net.Listener
	sockPath string
	started  time.Time

	ctx    context.Context // canceled by Stop; aborts in-flight decompositions
	cancel context.CancelFunc

	done         chan struct{}
	shutdownCh   chan struct{} // closed when a remote shutdown request is received
	shutdownOnce sync.Once
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// NewServer creates a daemon server backed by svc. A nil logger discards
// request logs.
func NewServer(svc Service, sockPath string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		svc:        svc,
		log:        log,
		sockPath:   sockPath,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		shutdownCh: make(chan struct{}),
	}
}

// Start begins listening on the Unix socket. It handles stale sockets by
// attempting a connection first; if the connection fails, the stale socket
// is removed before binding.
func (s *Server) Start() error {
	if _, err := os.Stat(s.sockPath); err == nil {
		conn, err := net.DialTimeout("unix", s.sockPath, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return fmt.Errorf("daemon already running at %s", s.sockPath)
		}
		s.log.Info("removing stale socket", zap.String("path", s.sockPath))
		os.Remove(s.sockPath)
	}

	ln, err := net.Listen("unix", s.sockPath)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.listener = ln
	s.started = time.Now()

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Stop gracefully shuts down the server, closing the listener and removing the socket file.
// Idempotent: safe to call multiple times (e.g., after remote shutdown + signal).
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)
		s.cancel()
		if s.listener != nil {
			s.listener.Close()
		}
		s.wg.Wait()
		// A server that never listened does not own the socket file.
		if s.listener != nil {
			os.Remove(s.sockPath)
		}
	})
	return nil
}

// ShutdownCh returns a channel that is closed when a remote shutdown request
// is received. The daemon's main goroutine should select on this alongside
// OS signals so the process actually exits after a remote stop.
func (s *Server) ShutdownCh() <-chan struct{} {
	return s.shutdownCh
}

// Addr returns the socket path the server is listening on.
func (s *Server) Addr() string {
	return s.sockPath
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	// Unblock the scanner when the server stops.
	connDone := make(chan struct{})
	defer close(connDone)
	go func() {
		select {
		case <-s.done:
			conn.Close()
		case <-connDone:
		}
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024) // 1MB max message

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(conn, Response{Error: "invalid request JSON"})
			continue
		}

		start := time.Now()
		resp := s.handleRequest(req)
		s.writeResponse(conn, resp)

		fields := []zap.Field{
			zap.String("id", req.ID),
			zap.String("method", req.Method),
			zap.Duration("elapsed", time.Since(start)),
		}
		if resp.Error != "" {
			s.log.Warn("request failed", append(fields, zap.String("error", resp.Error))...)
		} else {
			s.log.Debug("request served", fields...)
		}

		if req.Method == MethodShutdown {
			s.shutdownOnce.Do(func() { close(s.shutdownCh) })
			return
		}
	}
}

func (s *Server) handleRequest(req Request) Response {
	switch req.Method {
	case MethodDecompose:
		var params DecomposeParams
		if err := decodeParams(req, &params); err != nil {
			return Response{ID: req.ID, Error: "invalid decompose params"}
		}
		if len(params.Words) == 0 {
			return Response{ID: req.ID, Error: "no words to decompose"}
		}
		return reply(req, func() (interface{}, error) { return s.svc.Decompose(s.ctx, params) })
	case MethodLint:
		var params LintParams
		if err := decodeParams(req, &params); err != nil {
			return Response{ID: req.ID, Error: "invalid lint params"}
		}
		return reply(req, func() (interface{}, error) { return s.svc.Lint(params) })
	case MethodLexicons:
		return reply(req, func() (interface{}, error) { return s.svc.Lexicons() })
	case MethodImport:
		var params ImportParams
		if err := decodeParams(req, &params); err != nil || params.Path == "" {
			return Response{ID: req.ID, Error: "invalid import params"}
		}
		return reply(req, func() (interface{}, error) { return s.svc.Import(params) })
	case MethodRemove:
		var params RemoveParams
		if err := decodeParams(req, &params); err != nil || params.Name == "" {
			return Response{ID: req.ID, Error: "invalid remove params"}
		}
		return reply(req, func() (interface{}, error) { return struct{}{}, s.svc.Remove(params.Name) })
	case MethodStats:
		return reply(req, func() (interface{}, error) { return s.svc.Stats() })
	case MethodHealth:
		return s.handleHealth(req)
	case MethodShutdown:
		return Response{ID: req.ID, Result: struct{}{}}
	default:
		return Response{ID: req.ID, Error: fmt.Sprintf("unknown method: %s", req.Method)}
	}
}

func (s *Server) handleHealth(req Request) Response {
	count := 0
	if lex, err := s.svc.Lexicons(); err == nil {
		count = lex.Count
	}
	return Response{
		ID: req.ID,
		Result: HealthResult{
			Status:       "ok",
			LexiconCount: count,
			Uptime:       time.Since(s.started).Round(time.Second).String(),
		},
	}
}

func reply(req Request, fn func() (interface{}, error)) Response {
	result, err := fn()
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	return Response{ID: req.ID, Result: result}
}

// decodeParams re-marshals the generic params into target.
func decodeParams(req Request, target interface{}) error {
	paramsJSON, err := json.Marshal(req.Params)
	if err != nil {
		return err
	}
	return json.Unmarshal(paramsJSON, target)
}

func (s *Server) writeResponse(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("marshal response", zap.String("id", resp.ID), zap.Error(err))
		return
	}
	data = append(data, '\n')
	conn.Write(data)
}
