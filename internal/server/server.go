package server

import (
	"fmt"
	"log"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"slitherd/internal/config"
	"slitherd/internal/game"
	"slitherd/internal/packet"
	"slitherd/internal/telemetry"
)

const (
	tickIntervalMs = 10

	// Wall clock between a death and the delayed connection close.
	deathLingerMs = 2000

	leaderboardIntervalMs = 2000
	minimapIntervalMs     = 1000
	perfLogIntervalMs     = 60000
)

// Server owns the world, the session table and the tick timer. One mutex
// guards all simulation state; message handlers and the timer both take it.
type Server struct {
	cfg   *config.Config
	world *game.World
	perf  *telemetry.PerfCollector

	mu       sync.Mutex
	sessions map[string]*Session
	bySnake  map[uint16]*Session

	initPacket []byte

	lastTick        int64
	lastLeaderboard int64
	lastMinimap     int64
	lastPerfLog     int64

	upgrader websocket.Upgrader
}

// New builds a server around a freshly initialized world.
func New(cfg *config.Config, world *game.World) *Server {
	return &Server{
		cfg:        cfg,
		world:      world,
		perf:       telemetry.NewPerfCollector(500, tickIntervalMs*time.Millisecond),
		sessions:   make(map[string]*Session),
		bySnake:    make(map[uint16]*Session),
		initPacket: packet.Init(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func nowMs() int64 {
	return time.Now().UnixMilli()
}

// Run starts the tick loop and blocks serving websocket upgrades. The error
// return is the listener failure; the caller decides the exit code.
func (s *Server) Run() error {
	go s.loop()

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleWS)

	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	log.Printf("slither server listening on %s (%d bots, debug=%v)",
		addr, s.cfg.World.Bots, s.cfg.Server.Debug)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) loop() {
	ticker := time.NewTicker(tickIntervalMs * time.Millisecond)
	defer ticker.Stop()

	s.lastTick = nowMs()
	for range ticker.C {
		s.tick()
	}
}

// tick runs one timer step: world advance, broadcasts, cleanup, periodic
// aggregates. The accumulator inside World absorbs timer jitter.
func (s *Server) tick() {
	now := nowMs()
	dt := now - s.lastTick
	s.lastTick = now

	s.perf.StartTick()
	s.mu.Lock()

	s.world.Tick(dt)
	s.broadcastUpdates(now)
	s.removeDeadSnakes()
	s.processDelayedDeaths(now)

	if now-s.lastLeaderboard > leaderboardIntervalMs {
		s.broadcastLeaderboard(now)
		s.lastLeaderboard = now
	}
	if now-s.lastMinimap > minimapIntervalMs {
		s.broadcastMinimap(now)
		s.lastMinimap = now
	}

	s.mu.Unlock()
	s.perf.EndTick()

	if s.cfg.Server.Debug && now-s.lastPerfLog > perfLogIntervalMs {
		s.perf.LogStats()
		s.lastPerfLog = now
	}
}

// handleWS upgrades the connection, switches off Nagle and runs the read
// loop until the peer goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade failed: %v", err)
		return
	}
	if tcp, ok := ws.UnderlyingConn().(*net.TCPConn); ok {
		tcp.SetNoDelay(true)
	}

	sess := NewSession(ws, nowMs())

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	log.Printf("session %s connected from %s", sess.ID, r.RemoteAddr)
	s.readLoop(sess)
}

func (s *Server) readLoop(sess *Session) {
	defer s.disconnect(sess)

	for {
		mt, data, err := sess.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("read error for %s: %v", sess.ID, err)
			}
			return
		}
		if mt != websocket.BinaryMessage {
			log.Printf("non-binary message from %s, opcode %d", sess.ID, mt)
			continue
		}
		s.handleMessage(sess, data)
	}
}

// disconnect tears the session down and pulls its snake out of the world.
func (s *Server) disconnect(sess *Session) {
	sess.Close(websocket.CloseNormalClosure)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sess.ID)
	if sess.SnakeID != 0 {
		id := sess.SnakeID
		delete(s.bySnake, id)
		if s.world.GetSnake(id) != nil {
			s.broadcast(packet.RemoveSnake(id, packet.StatusSnakeLeft), nowMs())
			s.world.RemoveSnake(id)
		}
	}
	log.Printf("session %s disconnected", sess.ID)
}

// handleMessage decodes one inbound packet. Oversized and truncated frames
// are logged and dropped; the session survives.
func (s *Server) handleMessage(sess *Session, data []byte) {
	now := nowMs()
	sess.Touch(now)

	if len(data) == 0 {
		return
	}
	if len(data) > 255 {
		log.Printf("packet too big from %s: %d bytes", sess.ID, len(data))
		return
	}

	// The pre-init challenge response is a raw 24-byte frame with no type
	// byte. Accept it without validation and wait for the identify packet.
	if len(data) == 24 {
		return
	}

	t := data[0]

	// Any single byte up to 250 outside the reserved values is a wanted
	// angle in units of pi/125.
	if t <= 250 && len(data) == 1 && t != packet.InStartLogin && t != packet.InIdentify {
		angle := math.Pi * float64(t) / 125
		s.withSnake(sess, func(sn *game.Snake) {
			sn.Wangle = angle
			sn.Update |= game.ChangeWangle
		})
		return
	}

	switch t {
	case packet.InPing:
		sess.Send(packet.Pong(), now)

	case packet.InStartLogin:
		sess.Send(packet.PreInit(), now)

	case packet.InIdentify:
		s.handleIdentify(sess, data[1:], now)

	case packet.InRotation:
		// Virtual-frame turn counts from newer clients; steering still
		// arrives through the absolute angle packet, so just log.
		if len(data) >= 2 {
			if data[1] < 128 {
				log.Printf("snake %d rotate ccw, vfrb %d", sess.SnakeID, data[1])
			} else {
				log.Printf("snake %d rotate cw, vfrb %d", sess.SnakeID, data[1]-128)
			}
		}

	case packet.InRotLeft:
		if len(data) >= 2 {
			log.Printf("rotate ccw, snake %d, vfrb %d", sess.SnakeID, data[1])
		}

	case packet.InRotRight:
		if len(data) >= 2 {
			log.Printf("rotate cw, snake %d, vfrb %d", sess.SnakeID, data[1])
		}

	case packet.InStartAcc:
		s.withSnake(sess, func(sn *game.Snake) { sn.Acceleration = true })

	case packet.InStopAcc:
		s.withSnake(sess, func(sn *game.Snake) { sn.Acceleration = false })

	case packet.InVictory:
		if len(data) >= 2 {
			sess.Message = string(data[2:])
			log.Printf("victory message from %s: %q", sess.ID, sess.Message)
		}

	default:
		log.Printf("unknown packet type %d from %s, len %d", t, sess.ID, len(data))
	}
}

// withSnake runs fn on the session's snake under the simulation lock.
func (s *Server) withSnake(sess *Session, fn func(*game.Snake)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.SnakeID == 0 {
		return
	}
	if sn := s.world.GetSnake(sess.SnakeID); sn != nil {
		fn(sn)
	}
}

// handleIdentify parses the 's' packet: protocol version, skin, name and
// optional custom skin, then spawns the snake on first identify.
func (s *Server) handleIdentify(sess *Session, body []byte, now int64) {
	if len(body) < 2 {
		log.Printf("short identify from %s", sess.ID)
		return
	}

	r := packet.NewReader(body)
	sess.ProtocolVersion = r.Uint8()
	if sess.Modern() {
		r.Bytes(2) // fixed filler after the version byte
	}

	skin := r.Uint8()
	nameLen := int(r.Uint8())
	if nameLen > r.Remaining() {
		nameLen = r.Remaining()
	}
	if nameLen > 24 {
		nameLen = 24
	}
	name := string(r.Bytes(nameLen))

	if sess.Modern() && r.Remaining() >= 2 {
		r.Bytes(2) // padding between name and custom skin
	}
	customSkin := append([]byte(nil), r.Bytes(r.Remaining())...)

	sess.Skin = skin
	sess.Name = name
	sess.CustomSkinData = customSkin

	log.Printf("identify %s: name=%q skin=%d custom_skin=%dB proto=%d",
		sess.ID, name, skin, len(customSkin), sess.ProtocolVersion)

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.SnakeID != 0 {
		if sn := s.world.GetSnake(sess.SnakeID); sn != nil {
			sn.Name = name
			sn.Skin = skin
			sn.CustomSkinData = customSkin
		}
		return
	}

	sn := s.world.CreateSnake(0)
	sn.Name = name
	sn.Skin = skin
	sn.CustomSkinData = customSkin
	s.world.AddSnake(sn)

	sess.SnakeID = sn.ID
	sess.DeathTimestamp = 0
	s.bySnake[sn.ID] = sess

	sess.Send(s.initPacket, now)

	// Everyone learns about the new snake, dialect by dialect.
	addPkt := packet.AddSnake(sn)
	for _, other := range s.sessions {
		if other.SnakeID == 0 || other.DeathTimestamp > 0 {
			continue
		}
		other.Send(addPkt, now)
	}
	s.broadcast(packet.MoveHead(sn), now)

	s.sendPOVUpdate(sess, sn, now)

	// And the new player learns about everyone else.
	for _, other := range s.world.Snakes() {
		if other.ID == sn.ID {
			continue
		}
		sess.Send(packet.AddSnake(other), now)
		sess.Send(packet.MoveHead(other), now)
	}

	log.Printf("snake %d spawned for session %s", sn.ID, sess.ID)
}
