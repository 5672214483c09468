package server

import (
	"log"
	"sort"

	"github.com/gorilla/websocket"

	"slitherd/internal/game"
	"slitherd/internal/packet"
)

// broadcast sends one packet to every live session. Sessions that have not
// spawned or are lingering after death receive nothing.
func (s *Server) broadcast(pkt []byte, now int64) {
	for _, sess := range s.sessions {
		if sess.SnakeID == 0 || sess.DeathTimestamp > 0 {
			continue
		}
		sess.Send(pkt, now)
	}
}

// broadcastUpdates walks the changed snakes in strict order: death sequence
// first, then rotation, position, food and viewport deltas. Dirty bits are
// cleared per handled bit so a bit raised later in the same tick survives.
func (s *Server) broadcastUpdates(now int64) {
	for _, sn := range s.world.ChangedSnakes() {
		id := sn.ID
		flags := sn.Update

		if flags&game.ChangeDead != 0 {
			continue
		}

		if flags&game.ChangeDying != 0 {
			log.Printf("snake died: %d (killed by %d)", id, sn.KilledBy)

			// Body burst goes out before the removal so clients keep
			// the corpse sectors alive long enough to draw the food.
			sn.DeadFoodSpawn(s.world.Grid(), s.world.Randf)
			s.sendFoodUpdate(sn, now)
			s.broadcast(packet.RemoveSnake(id, packet.StatusSnakeDied), now)

			// The victim is stamped only after the burst and removal so
			// it still watches its own corpse before traffic stops.
			if !sn.Bot {
				if ses := s.bySnake[id]; ses != nil {
					ses.Send(packet.End(packet.StatusDeath), now)
					ses.DeathTimestamp = now
				}
			}

			if sn.KilledBy != 0 && sn.KilledBy != id {
				if killer := s.bySnake[sn.KilledBy]; killer != nil && killer.DeathTimestamp == 0 {
					killer.Send(packet.Kill(), now)
				}
			}

			sn.Update |= game.ChangeDead
			s.world.PushDead(id)
			continue
		}

		if flags == 0 {
			continue
		}

		if flags&(game.ChangeAngle|game.ChangeSpeed) != 0 {
			var hasAng, hasWang, hasSp bool
			if flags&game.ChangeAngle != 0 {
				sn.Update &^= game.ChangeAngle
				hasAng = true
				if flags&game.ChangeWangle != 0 {
					sn.Update &^= game.ChangeWangle
					hasWang = true
				}
			}
			if flags&game.ChangeSpeed != 0 {
				sn.Update &^= game.ChangeSpeed
				hasSp = true
			}
			s.broadcast(packet.Rotation(id, hasAng, sn.Angle, hasWang, sn.Wangle,
				hasSp, float64(sn.Speed)/32), now)
		}

		if flags&game.ChangePos != 0 {
			sn.Update &^= game.ChangePos

			if sn.ClientPartsIndex < len(sn.Parts) {
				s.broadcast(packet.IncSnake(sn), now)
				sn.ClientPartsIndex++
			} else {
				if sn.ClientPartsIndex > len(sn.Parts) {
					s.broadcast(packet.RemovePart(id), now)
					sn.ClientPartsIndex--
				}
				s.broadcast(packet.MoveHead(sn), now)
			}

			s.sendFoodUpdate(sn, now)

			if !sn.Bot {
				if ses := s.bySnake[id]; ses != nil && ses.DeathTimestamp == 0 {
					s.sendPOVUpdate(ses, sn, now)
					if flags&game.ChangeFullness != 0 {
						ses.Send(packet.Fullness(sn), now)
						sn.Update &^= game.ChangeFullness
					}
				}
			}
		}
	}

	s.world.FlushChanges()
}

// sendFoodUpdate drains the snake's eaten and spawned food buffers to every
// subscribed session in its dialect.
func (s *Server) sendFoodUpdate(sn *game.Snake, now int64) {
	if len(sn.Eaten) > 0 {
		for _, sess := range s.sessions {
			if sess.SnakeID == 0 || sess.DeathTimestamp > 0 {
				continue
			}
			for _, f := range sn.Eaten {
				sess.Send(packet.EatFood(sn.ID, f, sess.Modern()), now)
			}
		}
		sn.Eaten = sn.Eaten[:0]
	}

	if len(sn.Spawn) > 0 {
		for _, sess := range s.sessions {
			if sess.SnakeID == 0 || sess.DeathTimestamp > 0 {
				continue
			}
			for _, f := range sn.Spawn {
				sess.Send(packet.SpawnFood(f, sess.Modern()), now)
			}
		}
		sn.Spawn = sn.Spawn[:0]
	}
}

// sendPOVUpdate flushes the snake's viewport deltas to its own session:
// sector-add plus the sector's food for entering sectors, sector-remove for
// receding ones.
func (s *Server) sendPOVUpdate(sess *Session, sn *game.Snake, now int64) {
	for _, sec := range sn.VP.NewSectors() {
		sess.Send(packet.AddSector(sec.X, sec.Y), now)
		sess.Send(packet.SetFood(sec.Food, sess.Modern()), now)
	}
	for _, sec := range sn.VP.OldSectors() {
		sess.Send(packet.RemoveSector(sec.X, sec.Y), now)
	}
	sn.VP.Flush()
}

// broadcastLeaderboard sorts all snakes by score and sends each session the
// shared top ten with its own rank fields.
func (s *Server) broadcastLeaderboard(now int64) {
	sorted := make([]*game.Snake, 0, len(s.world.Snakes()))
	for _, sn := range s.world.Snakes() {
		sorted = append(sorted, sn)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Score() > sorted[j].Score()
	})

	top := sorted
	if len(top) > 10 {
		top = top[:10]
	}
	players := uint16(len(sorted))

	for _, sess := range s.sessions {
		if sess.SnakeID == 0 || sess.DeathTimestamp > 0 {
			continue
		}

		var myRank uint16
		for i, sn := range sorted {
			if sn.ID == sess.SnakeID {
				myRank = uint16(i + 1)
				break
			}
		}

		boardRank := uint8(0)
		if myRank >= 1 && myRank <= 10 {
			boardRank = uint8(myRank)
		}

		sess.Send(packet.Leaderboard(boardRank, myRank, players, top), now)
	}
}

// broadcastMinimap rasterizes the world once per dialect and fans it out.
func (s *Server) broadcastMinimap(now int64) {
	snakes := make([]*game.Snake, 0, len(s.world.Snakes()))
	for _, sn := range s.world.Snakes() {
		snakes = append(snakes, sn)
	}

	var modernPkt, legacyPkt []byte
	for _, sess := range s.sessions {
		if sess.SnakeID == 0 || sess.DeathTimestamp > 0 {
			continue
		}
		if sess.Modern() {
			if modernPkt == nil {
				modernPkt = packet.Minimap(snakes, true)
			}
			sess.Send(modernPkt, now)
		} else {
			if legacyPkt == nil {
				legacyPkt = packet.Minimap(snakes, false)
			}
			sess.Send(legacyPkt, now)
		}
	}
}

// processDelayedDeaths closes sessions whose death linger has elapsed. The
// snake id is zeroed first so no further broadcast can reach the session.
func (s *Server) processDelayedDeaths(now int64) {
	for _, sess := range s.sessions {
		if sess.DeathTimestamp == 0 || now-sess.DeathTimestamp <= deathLingerMs {
			continue
		}
		delete(s.bySnake, sess.SnakeID)
		sess.SnakeID = 0
		sess.DeathTimestamp = 0
		sess.Close(websocket.CloseNormalClosure)
	}
}

// removeDeadSnakes drops this tick's dead from the world and, when
// configured, replaces fallen bots with fresh ones.
func (s *Server) removeDeadSnakes() {
	for _, id := range s.world.Dead() {
		sn := s.world.GetSnake(id)
		respawn := sn != nil && sn.Bot && s.cfg.World.BotRespawn
		s.world.RemoveSnake(id)
		if respawn {
			nb := s.world.CreateSnakeBot()
			s.world.AddSnake(nb)
			s.broadcastAddSnake(nb)
		}
	}
	s.world.ClearDead()
}

// broadcastAddSnake announces a freshly spawned snake to every live session.
func (s *Server) broadcastAddSnake(sn *game.Snake) {
	now := nowMs()
	pkt := packet.AddSnake(sn)
	for _, sess := range s.sessions {
		if sess.SnakeID == 0 || sess.DeathTimestamp > 0 {
			continue
		}
		sess.Send(pkt, now)
	}
	s.broadcast(packet.MoveHead(sn), now)
}
