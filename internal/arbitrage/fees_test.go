package arbitrage

import "testing"

func TestFeeCents_S1Table(t *testing.T) {
	cases := []struct {
		contracts, price, want int64
	}{
		{2, 5, 1},
		{2, 10, 2},
		{2, 50, 4},
		{5, 5, 2},
		{5, 10, 4},
		{5, 20, 6},
		{5, 25, 7},
		{5, 33, 8},
		{5, 50, 9},
		{5, 0, 0},
		{5, 100, 0},
		{0, 50, 0},
	}

	for _, tc := range cases {
		got := FeeCents(tc.contracts, tc.price)
		if got != tc.want {
			t.Errorf("FeeCents(%d, %d) = %d, want %d", tc.contracts, tc.price, got, tc.want)
		}
	}
}

func TestFeeCents_ZeroAtExtremesAndZeroContracts(t *testing.T) {
	if FeeCents(0, 50) != 0 {
		t.Error("fee(0, P) must be 0")
	}
	if FeeCents(10, 0) != 0 {
		t.Error("fee(C, 0) must be 0")
	}
	if FeeCents(10, 100) != 0 {
		t.Error("fee(C, 100) must be 0")
	}
}

func TestFeeCents_PositiveInInterior(t *testing.T) {
	for p := int64(1); p < 100; p++ {
		if FeeCents(1, p) < 1 {
			t.Errorf("fee(1, %d) must be >= 1, got %d", p, FeeCents(1, p))
		}
	}
}

func TestFeeCents_MonotoneInContractsAtFixedPrice(t *testing.T) {
	prev := int64(0)
	for c := int64(1); c <= 20; c++ {
		cur := FeeCents(c, 37)
		if cur < prev {
			t.Errorf("fee must be monotone in contracts: fee(%d,37)=%d < fee(%d,37)=%d", c, cur, c-1, prev)
		}
		prev = cur
	}
}

func TestFeeCents_SymmetricAroundFifty(t *testing.T) {
	for p := int64(1); p < 100; p++ {
		if FeeCents(5, p) != FeeCents(5, 100-p) {
			t.Errorf("fee(5,%d)=%d != fee(5,%d)=%d", p, FeeCents(5, p), 100-p, FeeCents(5, 100-p))
		}
	}
}
