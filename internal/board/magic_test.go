package board

import (
	"context"
	"testing"
)

func TestBakedMagicsCollisionFree(t *testing.T) {
	for _, class := range []SliderClass{RookClass, BishopClass} {
		for sq := A1; sq <= H8; sq++ {
			magic, shift := BakedMagic(class, sq)
			if err := ValidateMagic(class, sq, magic, shift); err != nil {
				t.Error(err)
			}
		}
	}
}

func TestMagicLookupMatchesRayCast(t *testing.T) {
	rng := newPRNG(42)
	for i := 0; i < 2000; i++ {
		occ := Bitboard(rng.next() & rng.next())
		sq := Square(rng.next() % 64)
		if got, want := RookAttacks(sq, occ), SlidingAttacksSlow(RookClass, sq, occ); got != want {
			t.Fatalf("RookAttacks(%s) mismatch\noccupancy:\n%sgot:\n%swant:\n%s", sq, occ, got, want)
		}
		if got, want := BishopAttacks(sq, occ), SlidingAttacksSlow(BishopClass, sq, occ); got != want {
			t.Fatalf("BishopAttacks(%s) mismatch\noccupancy:\n%sgot:\n%swant:\n%s", sq, occ, got, want)
		}
	}
}

func TestRelevantMask(t *testing.T) {
	tests := []struct {
		class SliderClass
		sq    Square
		bits  int
	}{
		{RookClass, A1, 12},
		{RookClass, D4, 10},
		{RookClass, H8, 12},
		{BishopClass, A1, 6},
		{BishopClass, D4, 9},
		{BishopClass, B1, 5},
	}
	for _, tc := range tests {
		mask := RelevantMask(tc.class, tc.sq)
		if got := mask.PopCount(); got != tc.bits {
			t.Errorf("RelevantMask(%s, %s) has %d bits, want %d", tc.class, tc.sq, got, tc.bits)
		}
		if mask.IsSet(tc.sq) {
			t.Errorf("RelevantMask(%s, %s) contains its own square", tc.class, tc.sq)
		}
	}
	if RelevantMask(RookClass, A1)&(FileH|Rank8) != 0 {
		t.Error("rook mask on a1 includes edge squares")
	}
}

func TestFindMagic(t *testing.T) {
	search := MagicSearch{Seed: 7, MaxAttempts: 1 << 22}
	cases := []struct {
		class SliderClass
		sq    Square
		shift uint8
	}{
		{BishopClass, A1, bishopShift},
		{BishopClass, D4, bishopShift},
		{RookClass, D4, rookShift},
	}
	for _, tc := range cases {
		magic, _, err := search.FindMagic(context.Background(), tc.class, tc.sq, tc.shift)
		if err != nil {
			t.Fatalf("FindMagic(%s, %s): %v", tc.class, tc.sq, err)
		}
		if err := ValidateMagic(tc.class, tc.sq, magic, tc.shift); err != nil {
			t.Error(err)
		}
	}
}

func TestFindMagicShiftTooLarge(t *testing.T) {
	_, _, err := MagicSearch{MaxAttempts: 10}.FindMagic(context.Background(), RookClass, A1, 60)
	if err == nil {
		t.Error("expected error for a 4-bit index on a 12-bit mask")
	}
}

func TestLeaperTables(t *testing.T) {
	tests := []struct {
		name string
		got  Bitboard
		want int
	}{
		{"knight a1", KnightAttacks(A1), 2},
		{"knight d4", KnightAttacks(D4), 8},
		{"knight h8", KnightAttacks(H8), 2},
		{"king a1", KingAttacks(A1), 3},
		{"king e4", KingAttacks(E4), 8},
		{"white pawn a2", PawnAttacks(A2, White), 1},
		{"black pawn e7", PawnAttacks(E7, Black), 2},
		{"white pawn h8", PawnAttacks(H8, White), 0},
	}
	for _, tc := range tests {
		if got := tc.got.PopCount(); got != tc.want {
			t.Errorf("%s: %d squares, want %d\n%s", tc.name, got, tc.want, tc.got)
		}
	}
	if KnightAttacks(H1).IsSet(A3) {
		t.Error("knight on h1 wrapped to the a-file")
	}
	if PawnPushes(E2, White) != SquareBB(E3) || PawnPushes(E7, Black) != SquareBB(E6) {
		t.Error("pawn push tables wrong")
	}
}
