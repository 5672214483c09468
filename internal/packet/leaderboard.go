package packet

import "slitherd/internal/game"

// Leaderboard builds the 'l' packet: the receiver's top-10 rank (0 when not
// on the board), their global rank, the player count, then the top entries.
// The top slice is shared across receivers; only the two rank fields differ
// per session.
func Leaderboard(boardRank uint8, localRank uint16, players uint16, top []*game.Snake) []byte {
	w := NewWriter(TypeLeaderboard).
		Uint8(boardRank).
		Uint16(localRank).
		Uint16(players)

	for _, s := range top {
		w.Uint16(uint16(len(s.Parts))).
			Fp24(float64(s.Fullness) / 100).
			Uint8(s.Skin).
			String(s.Name)
	}
	return w.Bytes()
}
