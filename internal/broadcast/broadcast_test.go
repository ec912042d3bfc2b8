package broadcast

import (
	"encoding/json"
	"testing"

	"github.com/Ptchwir3/Aetharia/internal/player"
	"github.com/Ptchwir3/Aetharia/internal/zone"
)

type testFrame struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}

func TestToZoneExcludesSender(t *testing.T) {
	zones := zone.NewIndex(zone.DefaultTable())
	zones.Assign("a", 0, 0)
	zones.Assign("b", 0, 0)

	h := NewHub(zones)
	a := &Client{SessionID: "a", Send: make(chan []byte, 4)}
	b := &Client{SessionID: "b", Send: make(chan []byte, 4)}
	h.Register(a)
	h.Register(b)

	h.ToZone("zone_central", testFrame{Type: "t", Msg: "hi"}, "a")

	select {
	case <-a.Send:
		t.Errorf("expected excluded sender to receive nothing")
	default:
	}

	select {
	case data := <-b.Send:
		var got testFrame
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Msg != "hi" {
			t.Errorf("got message %q, want hi", got.Msg)
		}
	default:
		t.Errorf("expected non-excluded recipient to receive the frame")
	}
}

func TestToZoneNoMembersIsNoOp(t *testing.T) {
	zones := zone.NewIndex(zone.DefaultTable())
	h := NewHub(zones)
	h.ToZone("empty-zone", testFrame{Type: "t"}, "")
}

func TestUnregisterClosesSendChannel(t *testing.T) {
	zones := zone.NewIndex(zone.DefaultTable())
	h := NewHub(zones)
	c := &Client{SessionID: "a", Send: make(chan []byte, 1)}
	h.Register(c)
	h.Unregister("a")

	_, ok := <-c.Send
	if ok {
		t.Errorf("expected Send channel to be closed after Unregister")
	}
}

func TestFullBufferDropsWithoutBlocking(t *testing.T) {
	zones := zone.NewIndex(zone.DefaultTable())
	zones.Assign("a", 0, 0)

	h := NewHub(zones)
	c := &Client{SessionID: "a", Send: make(chan []byte, 1)}
	h.Register(c)

	h.ToZone("zone_central", testFrame{Type: "t", Msg: "1"}, "")
	h.ToZone("zone_central", testFrame{Type: "t", Msg: "2"}, "") // buffer full, dropped

	data := <-c.Send
	var got testFrame
	json.Unmarshal(data, &got)
	if got.Msg != "1" {
		t.Errorf("expected first message to survive, got %q", got.Msg)
	}
	select {
	case <-c.Send:
		t.Errorf("expected second message to have been dropped")
	default:
	}
}

func TestPhysicsNotifierPositionCorrectionUsesRegistryX(t *testing.T) {
	zones := zone.NewIndex(zone.DefaultTable())
	h := NewHub(zones)
	c := &Client{SessionID: "a", Send: make(chan []byte, 1)}
	h.Register(c)

	registry := player.NewRegistry()
	p := player.New("a", "A", 7, 3)
	registry.Add("a", p)

	notifier := &PhysicsNotifier{Hub: h, Registry: registry}
	notifier.PositionCorrection("a", 3, true)

	data := <-c.Send
	var frame struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if frame.X != 7 {
		t.Errorf("expected x to be read from registry (7), got %v", frame.X)
	}
}
