package board

// Zobrist hash keys for position hashing.
// Generated from a fixed seed so hashes are stable across runs.
var (
	zobristPiece      [12][64]uint64 // [Piece][Square]
	zobristEnPassant  [8]uint64      // One per file
	zobristCastling   [16]uint64     // All 16 castling combinations
	zobristSideToMove uint64         // XOR when black to move
)

const zobristSeed = 0x98F107A2BEEF1234

func init() {
	initZobrist()
}

// prng is a xorshift64* generator. It seeds the Zobrist keys and drives
// the offline magic search.
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	if seed == 0 {
		seed = zobristSeed
	}
	return &prng{state: seed}
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// sparse returns a value with roughly an eighth of its bits set.
func (p *prng) sparse() uint64 {
	return p.next() & p.next() & p.next()
}

func initZobrist() {
	rng := newPRNG(zobristSeed)

	for p := WhitePawn; p < NoPiece; p++ {
		for sq := A1; sq <= H8; sq++ {
			zobristPiece[p][sq] = rng.next()
		}
	}
	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

// ZobristPiece returns the key for a piece on a square.
func ZobristPiece(p Piece, sq Square) uint64 {
	return zobristPiece[p][sq]
}

// ZobristEnPassant returns the key for an en passant target on the 1-based file.
func ZobristEnPassant(file int) uint64 {
	return zobristEnPassant[file-1]
}

// ZobristCastling returns the key for a set of castling rights.
func ZobristCastling(cr CastlingRights) uint64 {
	return zobristCastling[cr&AllCastling]
}

// ZobristSideToMove returns the key toggled when black is to move.
func ZobristSideToMove() uint64 {
	return zobristSideToMove
}

// ComputeHash computes the Zobrist hash from scratch.
// Incremental updates in ApplyMove must always agree with it.
func (b *Board) ComputeHash() uint64 {
	var hash uint64
	for p := WhitePawn; p < NoPiece; p++ {
		bb := b.pieces[p]
		for bb != 0 {
			hash ^= zobristPiece[p][bb.PopLSB()]
		}
	}
	if b.enPassant != NoSquare {
		hash ^= zobristEnPassant[b.enPassant.File()-1]
	}
	hash ^= zobristCastling[b.castling]
	if b.side == Black {
		hash ^= zobristSideToMove
	}
	return hash
}

// ComputePawnKey computes the pawn-only hash used by the pawn structure cache.
func (b *Board) ComputePawnKey() uint64 {
	var key uint64
	for _, p := range [2]Piece{WhitePawn, BlackPawn} {
		bb := b.pieces[p]
		for bb != 0 {
			key ^= zobristPiece[p][bb.PopLSB()]
		}
	}
	return key
}
