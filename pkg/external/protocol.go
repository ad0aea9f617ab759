// Package external connects boards to other backgammon programs: it reads FIBS board
// strings and serves a line based text protocol over TCP.
//
// Protocol overview:
//   - Server listens on a TCP port
//   - Every connection gets its own board, set up with the starting position
//   - Commands load positions (position string, FIBS board, gnubg position ID),
//     play checker moves and print the board
//   - Responses are single lines; errors start with "Error:"
package external

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/yourusername/gammonboard/internal/log"
	"github.com/yourusername/gammonboard/internal/positionid"
	"github.com/yourusername/gammonboard/pkg/board"
)

// Server implements the text protocol server.
type Server struct {
	listener net.Listener
	mu       sync.Mutex
	running  bool
	options  ServerOptions
	log      log.Logger
}

// ServerOptions configures the protocol server.
type ServerOptions struct {
	Addr          string // TCP address to listen on
	PromptEnabled bool   // Send prompts after responses
	TrackCounts   bool   // Keep canonical counts on every board
}

// DefaultServerOptions returns sensible defaults.
func DefaultServerOptions() ServerOptions {
	return ServerOptions{
		Addr:          ":1234",
		PromptEnabled: true,
		TrackCounts:   true,
	}
}

// NewServer creates a new protocol server.
func NewServer(opts ServerOptions, l log.Logger) *Server {
	if l == nil {
		l = log.Discard
	}
	return &Server{
		options: opts,
		log:     l,
	}
}

// Start begins listening for connections.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	listener, err := net.Listen("tcp", s.options.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.options.Addr, err)
	}

	s.listener = listener
	s.running = true

	go s.acceptLoop()

	return nil
}

// Addr returns the address the server listens on, nil when stopped.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	return s.listener.Addr()
}

// Stop stops the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.running = false
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// acceptLoop accepts incoming connections.
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if !running {
				return // Server stopped
			}
			s.log.Printf("external: accept: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single client connection.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	sess, err := newSession(s.options.TrackCounts, s.log)
	if err != nil {
		s.log.Printf("external: new session: %v", err)
		return
	}
	reader := bufio.NewReader(conn)

	if s.options.PromptEnabled {
		conn.Write([]byte("> "))
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		response := sess.processCommand(line)
		if _, err := conn.Write([]byte(response)); err != nil {
			s.log.Printf("external: write to %v: %v", conn.RemoteAddr(), err)
			return
		}

		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			return
		}

		if s.options.PromptEnabled {
			conn.Write([]byte("> "))
		}
	}
}

// session is the board of one connection.
type session struct {
	b *board.Board
}

func newSession(trackCounts bool, l log.Logger) (*session, error) {
	b := board.New(board.Options{Logger: l})
	pos := board.StartingPosition
	if err := b.Configure(board.Config{Position: &pos, TrackCounts: &trackCounts}); err != nil {
		return nil, err
	}
	return &session{b: b}, nil
}

// processCommand processes a single command and returns the response.
func (s *session) processCommand(cmd string) string {
	// nothing reads the board's notifications here
	defer s.b.Queue().Drain()

	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return "Error: empty command\n"
	}

	command := strings.ToLower(parts[0])
	args := strings.TrimSpace(cmd[len(parts[0]):])

	switch command {
	case "version":
		return "gammonboard external protocol 1.0\n"

	case "help":
		return helpResponse

	case "exit", "quit":
		return "Goodbye\n"

	case "set":
		return s.handleSet(parts[1:])

	case "position":
		if err := s.b.Configure(board.Config{Position: &args}); err != nil {
			return fmt.Sprintf("Error: %v\n", err)
		}
		s.b.Reset()
		return s.show()

	case "id":
		c, err := positionid.CountsFromID(args)
		if err != nil {
			return fmt.Sprintf("Error: %v\n", err)
		}
		return s.load(c, s.b.TurnColor())

	case "fibsboard":
		return s.handleFIBSBoard(args)

	case "move":
		return s.handleMove(parts[1:])

	case "show":
		return s.show()

	case "log":
		return strings.Join(s.b.MoveLog(), " ") + "\n"

	default:
		if strings.HasPrefix(cmd, "board:") {
			return s.handleFIBSBoard(cmd)
		}
		return fmt.Sprintf("Error: unknown command '%s'\n", command)
	}
}

const helpResponse = `Available commands:
  version               - Show version information
  help                  - Show this help
  set <opt> <value>     - Set option (movable white|black|both, free on|off)
  position <string>     - Load a position string
  id <position id>      - Load a gnubg position ID
  fibsboard <board:...> - Load a FIBS board
  move <orig> <dest>    - Move the checker on square orig to square dest
  show                  - Print the position string and position ID
  log                   - Print the moves played
  exit                  - Close connection
`

// handleSet handles the set command.
func (s *session) handleSet(args []string) string {
	if len(args) < 2 {
		return "Error: set requires option and value\n"
	}

	option := strings.ToLower(args[0])
	value := strings.ToLower(args[1])

	switch option {
	case "movable":
		color := board.MovableColor(value)
		if err := s.b.Configure(board.Config{Movable: &board.MovableConfig{Color: &color}}); err != nil {
			return fmt.Sprintf("Error: %v\n", err)
		}
		return fmt.Sprintf("movable set to %s\n", value)

	case "free":
		var free bool
		switch value {
		case "on", "true", "1":
			free = true
		case "off", "false", "0":
		default:
			return fmt.Sprintf("Error: free must be on or off, got '%s'\n", value)
		}
		if err := s.b.Configure(board.Config{Movable: &board.MovableConfig{Free: &free}}); err != nil {
			return fmt.Sprintf("Error: %v\n", err)
		}
		return fmt.Sprintf("free set to %v\n", free)

	default:
		return fmt.Sprintf("Error: unknown option '%s'\n", option)
	}
}

// handleFIBSBoard loads a FIBS board, you playing white.
func (s *session) handleFIBSBoard(arg string) string {
	fb, err := ParseFIBSBoard(arg)
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}
	c, err := fb.Counts()
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}
	return s.load(c, fb.TurnColor())
}

func (s *session) load(c board.Counts, turn board.Color) string {
	if err := s.b.LoadCounts(c, turn); err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}
	s.b.Reset()
	return s.show()
}

// handleMove plays one checker move given by square keys.
func (s *session) handleMove(args []string) string {
	if len(args) != 2 {
		return "Error: move requires origin and destination squares\n"
	}
	res, err := s.b.Play(board.Key(args[0]), board.Key(args[1]))
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}
	fibs, err := FormatMove(res.Notation)
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}
	return fmt.Sprintf("%s %s %s\n", res.Notation, fibs, res.Dest)
}

// show prints the position string and, when the position is complete, its ID.
func (s *session) show() string {
	pos, err := s.b.Position()
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}
	p, err := board.ParsePosition(pos)
	if err != nil {
		return pos + "\n"
	}
	return fmt.Sprintf("%s %s\n", pos, positionid.IDFromCounts(p.Counts))
}
