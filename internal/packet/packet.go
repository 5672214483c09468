package packet

// Outbound packet types. The type byte follows the two client-time bytes.
const (
	TypeInit          = 'a'
	TypePreInit       = '6'
	TypePong          = 'p'
	TypeSnake         = 's' // add and remove share the type, lengths differ
	TypeMove          = 'g'
	TypeMoveRel       = 'G'
	TypeInc           = 'n'
	TypeIncRel        = 'N'
	TypeRemPart       = 'r'
	TypeFullness      = 'h'
	TypeAddSector     = 'W'
	TypeRemSector     = 'w'
	TypeSetFood       = 'F'
	TypeSpawnFood     = 'b'
	TypeAddFood       = 'f'
	TypeEatFood       = 'c'
	TypeLeaderboard   = 'l'
	TypeMinimap       = 'M' // modern: u16 dim header, grid encoded in reverse
	TypeMinimapLegacy = 'u' // legacy: no header, 80x80, forward
	TypeKill          = 'k'
	TypeEnd           = 'v'

	// Rotation variants. The type encodes the turn direction and which of
	// {angle, wangle, speed} follow as single-byte fields.
	TypeRotCcwAng     = 'e' // ang [,sp] [,wang+sp]
	TypeRotCcwWang    = 'E' // wang [,sp]
	TypeRotCcwAngWang = '3' // ang+wang, or sp alone
	TypeRotCwWang     = '4' // wang [,sp] [,ang+sp]
	TypeRotCwAngWang  = '5' // ang+wang
)

// Snake removal status bytes.
const (
	StatusSnakeLeft = 0
	StatusSnakeDied = 1
)

// End-of-game status byte carried by 'v'.
const StatusDeath = 0

// Inbound packet types. Any single byte 0-250 is a wanted-angle command;
// the named values below are carved out of or above that range.
const (
	InStartLogin = 'c'
	InIdentify   = 's'
	InRotLeft    = 108
	InRotRight   = 114
	InPing       = 251
	InRotation   = 252
	InStartAcc   = 253
	InStopAcc    = 254
	InVictory    = 255
)
