// Package api implements the local TCP control API of the configurator.
//
// Request framing: `<path>[ <payload>]\x00`. The server answers with a
// single JSON line (or an empty line) and closes the connection. Errors are
// problem objects (apitypes.ApiError). Stream routes keep the connection
// open and write one JSON line per event.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"regexp"
	"strings"
	"sync"

	"github.com/Alia5/micropad/session"
)

var wsRegex = regexp.MustCompile(`\s`)

// Server exposes a session over TCP.
type Server struct {
	sess   *session.Session
	addr   string
	ln     net.Listener
	logger *slog.Logger
	router *Router
	config ServerConfig

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates an API server for sess.
func New(sess *session.Session, addr string, config ServerConfig, logger *slog.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		sess:    sess,
		addr:    addr,
		logger:  logger,
		config:  config,
		router:  NewRouter(),
		baseCtx: ctx,
		cancel:  cancel,
	}
}

// Router returns the router used by the API server so callers can register handlers.
func (a *Server) Router() *Router { return a.router }

// Session returns the served session.
func (a *Server) Session() *session.Session { return a.sess }

// Config returns the server configuration.
func (a *Server) Config() ServerConfig { return a.config }

// Addr returns the bound address once started.
func (a *Server) Addr() string {
	if a.ln != nil {
		return a.ln.Addr().String()
	}
	return a.addr
}

// Start listens on the configured address and serves incoming API commands.
func (a *Server) Start() error {
	ln, err := net.Listen("tcp", a.addr)
	if err != nil {
		return err
	}
	a.ln = ln
	a.logger.Info("API listening", "addr", ln.Addr().String())
	go a.serve()
	return nil
}

// Close stops accepting connections and ends open streams.
func (a *Server) Close() {
	a.cancel()
	if a.ln != nil {
		_ = a.ln.Close()
	}
	a.wg.Wait()
}

func (a *Server) serve() {
	for {
		c, err := a.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				a.logger.Info("API server stopped")
				return
			}
			a.logger.Info("API accept error", "error", err)
			return
		}
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.handleConn(c)
		}()
	}
}

func (a *Server) writeError(w io.Writer, err error) {
	apiErr := WrapError(err)
	problemJSON, _ := json.Marshal(apiErr)
	fmt.Fprintf(w, "%s\n", string(problemJSON))
}

func (a *Server) writeOK(w io.Writer, rest string) {
	if rest == "" {
		fmt.Fprintln(w)
	} else {
		fmt.Fprintf(w, "%s\n", rest)
	}
}

func (a *Server) handleConn(conn net.Conn) {
	connLogger := a.logger.With("remote", conn.RemoteAddr().String())
	r := bufio.NewReader(conn)

	reqData, err := r.ReadString('\x00')
	if err != nil {
		if err == io.EOF {
			connLogger.Error("api incomplete request (no null terminator)")
		} else {
			connLogger.Error("read api data", "error", err)
		}
		conn.Close()
		return
	}
	reqData = strings.TrimSuffix(reqData, "\x00")

	path, payload := splitRequest(reqData)
	if path == "" {
		connLogger.Error("api empty path")
		a.writeError(conn, ErrBadRequest("empty request"))
		conn.Close()
		return
	}
	connLogger.Info("api cmd", "path", path)

	if h, params := a.router.Match(path); h != nil {
		defer conn.Close()
		ctx, cancel := a.requestContext()
		defer cancel()
		req := &Request{Ctx: ctx, Params: params, Payload: payload}
		res := &Response{}
		if err := h(req, res, connLogger); err != nil {
			connLogger.Error("api handler error", "path", path, "error", err)
			a.writeError(conn, err)
			return
		}
		connLogger.Debug("api handler success", "path", path)
		a.writeOK(conn, res.JSON)
		return
	}
	if sh, params := a.router.MatchStream(path); sh != nil {
		connLogger.Info("api stream begin", "path", path)
		req := &Request{Ctx: a.baseCtx, Params: params, Payload: payload}
		if err := sh(conn, req, connLogger); err != nil {
			connLogger.Error("api stream handler error", "path", path, "error", err)
		}
		connLogger.Info("api stream end", "path", path)
		return
	}
	connLogger.Error("api unknown path", "path", path)
	a.writeError(conn, ErrNotFound(fmt.Sprintf("unknown path: %s", path)))
	conn.Close()
}

func (a *Server) requestContext() (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout > 0 {
		return context.WithTimeout(a.baseCtx, a.config.RequestTimeout)
	}
	return context.WithCancel(a.baseCtx)
}

// splitRequest splits on the first whitespace character.
func splitRequest(data string) (path, payload string) {
	loc := wsRegex.FindStringIndex(data)
	if loc == nil {
		return data, ""
	}
	return data[:loc[0]], data[loc[1]:]
}
