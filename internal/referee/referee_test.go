package referee

import (
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func mustMove(t *testing.T, b *board.Board, notation string) board.Move {
	t.Helper()
	from, err := board.ParseSquare(notation[:2])
	if err != nil {
		t.Fatal(err)
	}
	m, err := board.ParseMove(notation, b.PieceOn(from))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestKingWalksIntoQueen(t *testing.T) {
	b := board.MustParseFEN("8/8/8/8/8/8/8/kQ6 b - - 0 1")
	m := MoveIsLegal(b, board.NewMoveAt(board.BlackKing, 1, 1, 2, 1))
	if m.Result.IsLegal() {
		t.Fatalf("a1a2 accepted: %s", m.Result)
	}
	if !m.Result.Has(board.KingInCheck) {
		t.Errorf("a1a2 result = %s, want king-in-check", m.Result)
	}

	// Taking the queen is the only way out.
	m = MoveIsLegal(b, board.NewMoveAt(board.BlackKing, 1, 1, 1, 2))
	if !m.Result.IsLegal() || !m.Result.Has(board.Capture) || m.Captured != board.WhiteQueen {
		t.Errorf("a1b1 result = %s captured %s", m.Result, m.Captured)
	}
}

func TestValidateMoveReasons(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		want board.Result
	}{
		{"own piece", board.StartFEN, "d1d2", board.Illegal | board.OwnPiece},
		{"unreachable knight", board.StartFEN, "g1g3", board.Illegal | board.Unreachable},
		{"blocked rook", board.StartFEN, "a1a3", board.Illegal | board.Unreachable},
		{"empty origin", board.StartFEN, "e4e5", board.Illegal | board.Unreachable},
		{"out of turn", board.StartFEN, "e7e5", board.Illegal | board.OutOfTurn},
		{"ghost diagonal", board.StartFEN, "e2d3", board.Illegal | board.GhostDiagonal},
		{"rook lift", "4k3/8/8/8/8/8/8/4KR2 w - - 0 1", "f1f8", board.Push},
		{"takes king", "4k3/8/8/8/8/8/8/4R1K1 w - - 0 1", "e1e8", board.Illegal | board.KingCapture},
		{"missing promotion", "8/P7/8/8/8/8/8/k6K w - - 0 1", "a7a8", board.Illegal | board.BadPromotion},
		{"promotion on wrong rank", board.StartFEN, "e2e4q", board.Illegal | board.BadPromotion},
		{"castle through attack", "r3k2r/8/8/8/8/8/5r2/R3K2R w KQkq - 0 1", "e1g1", board.Illegal | board.BadCastle},
		{"castle without right", "r3k2r/8/8/8/8/8/8/R3K2R w Qkq - 0 1", "e1g1", board.Illegal | board.BadCastle},
		{"castle blocked", "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1", "e1c1", board.Illegal | board.BadCastle},
		{"push", board.StartFEN, "e2e4", board.Push},
		{"knight push", board.StartFEN, "g1f3", board.Push},
		{"capture", "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2", "e4d5", board.Capture},
		{"en passant", "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3", "e5f6", board.Capture | board.EnPassant},
		{"castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", board.Castling},
		{"promotion", "8/P7/8/8/8/8/8/k6K w - - 0 1", "a7a8n", board.Push | board.Promotion},
		{"capture promotion", "1r6/P7/8/8/8/8/8/k6K w - - 0 1", "a7b8q", board.Capture | board.Promotion},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := board.MustParseFEN(tc.fen)
			m := ValidateMove(b, mustMove(t, b, tc.move))
			if m.Result != tc.want {
				t.Errorf("%s: result = %s, want %s", tc.move, m.Result, tc.want)
			}
		})
	}
}

func TestWrongColourPromotion(t *testing.T) {
	b := board.MustParseFEN("8/P7/8/8/8/8/8/k6K w - - 0 1")
	m := board.NewPromotion(board.WhitePawn, board.A7, board.A8, board.BlackQueen)
	if got := ValidateMove(b, m).Result; got != board.Illegal|board.BadPromotion {
		t.Errorf("result = %s", got)
	}
	m = board.NewPromotion(board.WhitePawn, board.A7, board.A8, board.WhiteKing)
	if got := ValidateMove(b, m).Result; got != board.Illegal|board.BadPromotion {
		t.Errorf("king promotion result = %s", got)
	}
}

func TestMoveIsLegalCheckBits(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		want board.Result
	}{
		{"check", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", "a1a8", board.Push | board.Check},
		{"back rank mate", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "a1a8", board.Push | board.Check | board.Checkmate},
		{"pinned piece", "4k3/4r3/8/8/8/8/4N3/4K3 w - - 0 1", "e2c3", board.Push | board.Illegal | board.KingInCheck},
		{"fools mate", "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2", "d8h4", board.Push | board.Check | board.Checkmate},
		{"en passant discovers own king", "8/8/8/K2pP2r/8/8/8/7k w - d6 0 1", "e5d6", board.Capture | board.EnPassant | board.Illegal | board.KingInCheck},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := board.MustParseFEN(tc.fen)
			m := MoveIsLegal(b, mustMove(t, b, tc.move))
			if m.Result != tc.want {
				t.Errorf("%s: result = %s, want %s", tc.move, m.Result, tc.want)
			}
		})
	}
}

func TestMoveIsLegalLeavesBoardUntouched(t *testing.T) {
	b := board.MustParseFEN(board.StartFEN)
	before := *b
	MoveIsLegal(b, mustMove(t, b, "e2e4"))
	if *b != before {
		t.Error("MoveIsLegal mutated the board")
	}
}

func TestCheckBoardStatus(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		inCheck   [2]bool
		checkmate bool
		stalemate bool
	}{
		{"start", board.StartFEN, [2]bool{}, false, false},
		{"back rank mate", "R6k/6pp/8/8/8/8/8/K7 b - - 0 1", [2]bool{false, true}, true, false},
		{"king takes rook", "6Rk/8/8/8/8/8/8/K7 b - - 0 1", [2]bool{false, true}, false, false},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", [2]bool{}, false, true},
		{"smothered", "6rk/5Npp/8/8/8/8/8/7K b - - 0 1", [2]bool{false, true}, true, false},
		{"block escapes", "4k3/8/8/8/8/1N6/3PPP2/r3K3 w - - 0 1", [2]bool{true, false}, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := CheckBoardStatus(board.MustParseFEN(tc.fen))
			if s.InCheck != tc.inCheck || s.Checkmate != tc.checkmate || s.Stalemate != tc.stalemate {
				t.Errorf("status = %+v, want check=%v mate=%v stalemate=%v", s, tc.inCheck, tc.checkmate, tc.stalemate)
			}
		})
	}
}

func TestSquareAttacked(t *testing.T) {
	b := board.MustParseFEN("4k3/8/8/3p4/8/2N5/8/R3K3 w - - 0 1")
	tests := []struct {
		sq   board.Square
		by   board.Color
		want bool
	}{
		{board.A8, board.White, true},  // rook up the a-file
		{board.E4, board.White, true},  // knight
		{board.C4, board.Black, true},  // pawn d5
		{board.E4, board.Black, true},  // pawn d5
		{board.D4, board.Black, false}, // pawns do not attack forward
		{board.H1, board.White, false}, // rook blocked by king
		{board.D7, board.Black, true},  // king
	}
	for _, tc := range tests {
		if got := SquareAttacked(b, tc.sq, tc.by); got != tc.want {
			t.Errorf("SquareAttacked(%s, %s) = %v, want %v", tc.sq, tc.by, got, tc.want)
		}
	}
	if got := AttackersOf(b, board.E4, board.White); got != board.SquareBB(board.C3) {
		t.Errorf("AttackersOf(e4) =\n%s", got)
	}
}

func TestDestinationsIncludeUnmaskedDiagonals(t *testing.T) {
	b := board.MustParseFEN(board.StartFEN)
	got := Destinations(b, board.WhitePawn, board.E2)
	want := board.SquareBB(board.D3) | board.SquareBB(board.F3) | board.SquareBB(board.E3) | board.SquareBB(board.E4)
	if got != want {
		t.Errorf("Destinations(e2) =\n%swant\n%s", got, want)
	}
	if got := PseudoLegalDestinations(b, board.WhitePawn, board.E2); got != board.SquareBB(board.E3)|board.SquareBB(board.E4) {
		t.Errorf("PseudoLegalDestinations(e2) =\n%s", got)
	}
}
