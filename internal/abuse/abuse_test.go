package abuse

import (
	"testing"
	"time"
)

func TestValidMoveDeltaBoundary(t *testing.T) {
	if !ValidMoveDelta(0, 20) {
		t.Errorf("expected delta of exactly %v to be accepted", MaxMoveDelta)
	}
	if ValidMoveDelta(0, 20.0001) {
		t.Errorf("expected delta past %v to be rejected", MaxMoveDelta)
	}
	if !ValidMoveDelta(0, -20) {
		t.Errorf("expected negative delta of exactly -%v to be accepted", MaxMoveDelta)
	}
}

func TestWithinChunkRadiusBoundary(t *testing.T) {
	if !WithinChunkRadius(0, 0, 5, 0) {
		t.Errorf("expected Chebyshev distance 5 to be accepted")
	}
	if WithinChunkRadius(0, 0, 6, 0) {
		t.Errorf("expected Chebyshev distance 6 to be rejected")
	}
	if !WithinChunkRadius(0, 0, 5, 5) {
		t.Errorf("expected diagonal Chebyshev distance 5 to be accepted")
	}
}

func TestValidTileBoundary(t *testing.T) {
	if !ValidTile(0) || !ValidTile(7) {
		t.Errorf("expected tile ids 0 and 7 to be accepted")
	}
	if ValidTile(-1) || ValidTile(8) {
		t.Errorf("expected tile ids -1 and 8 to be rejected")
	}
}

func TestValidColor(t *testing.T) {
	cases := map[string]bool{
		"#55AAFF": true,
		"#000000": true,
		"55AAFF":  false,
		"#55AAF":  false,
		"#GGAAFF": false,
	}
	for color, want := range cases {
		if got := ValidColor(color); got != want {
			t.Errorf("ValidColor(%q) = %v, want %v", color, got, want)
		}
	}
}

func TestWithinBlockRange(t *testing.T) {
	if !WithinBlockRange(0, 0, 10, 0, HumanBlockRange) {
		t.Errorf("expected range 10 to be accepted for humans")
	}
	if WithinBlockRange(0, 0, 11, 0, HumanBlockRange) {
		t.Errorf("expected range 11 to be rejected for humans")
	}
	if !WithinBlockRange(0, 0, 50, 50, AgentBlockRange) {
		t.Errorf("expected range 50 diagonal to be accepted for agents")
	}
}

func TestBlockRangeByAgentFlag(t *testing.T) {
	if BlockRange(false) != HumanBlockRange {
		t.Errorf("expected human range %v", HumanBlockRange)
	}
	if BlockRange(true) != AgentBlockRange {
		t.Errorf("expected agent range %v", AgentBlockRange)
	}
}

func TestRateLimited(t *testing.T) {
	last := time.Unix(0, 0)
	if !RateLimited(last, last.Add(10*time.Millisecond)) {
		t.Errorf("expected message 10ms later to be rate limited")
	}
	if RateLimited(last, last.Add(51*time.Millisecond)) {
		t.Errorf("expected message 51ms later to be accepted")
	}
}
