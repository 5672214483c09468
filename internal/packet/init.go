package packet

import "slitherd/internal/game"

// preInitPayload is the opaque handshake blob the client expects verbatim
// after the '6' header, with no length prefix.
const preInitPayload = "dakrtywcilopu" +
	"hgrmzwsdolitualk" +
	"srrarjsrzyjhrnzv" +
	"fdfkrsyahjvuobhj" +
	"kmzwvgoppxaagiwv" +
	"scjlqoualghnuvde" +
	"dozuwcdjosrcnhjp" +
	"rwlkfqbyegkorwte" +
	"pmlstcfhksxakilr" +
	"uwdhhouwdchnsqec" +
	"ngvqpcz"

// PreInit builds the '6' handshake packet.
func PreInit() []byte {
	return NewWriter(TypePreInit).Raw([]byte(preInitPayload)).Bytes()
}

// Init builds the 32-byte 'a' packet advertising the arena parameters. The
// angular speeds are per virtual frame, so the client integrates the same
// curve the server does. The six tail bytes are fixed by the client parser.
func Init() []byte {
	return NewWriter(TypeInit).
		Uint24(game.GameRadius).
		Uint16(game.MaxSnakeParts).
		Uint16(game.SectorSize).
		Uint16(game.SectorCountAlongEdge).
		Fp8(game.Spangdv).
		Fp16(game.Nsp1, 2).
		Fp16(game.Nsp2, 2).
		Fp16(game.Nsp3, 2).
		Fp16(game.SnakeAngularSpeed*game.FrameTimeMs/1000, 3).
		Fp16(game.PreyAngularSpeed*game.FrameTimeMs/1000, 3).
		Fp16(game.SnakeTailK, 3).
		Uint8(game.ProtocolVersion).
		Uint8(game.MoveStepDistance).
		Uint8(0).Uint8(0).Uint8(0).
		Uint8(82).Uint8(207).
		Bytes()
}

// Pong builds the 'p' ping reply.
func Pong() []byte {
	return NewWriter(TypePong).Bytes()
}

// Kill builds the 'k' notification sent to a snake's killer.
func Kill() []byte {
	return NewWriter(TypeKill).Bytes()
}

// End builds the 'v' game-over packet sent to the dead snake's session.
func End(status uint8) []byte {
	return NewWriter(TypeEnd).Uint8(status).Bytes()
}
