package rules

import "testing"

func TestTeamDeathmatchScoreLimit(t *testing.T) {
	cfg := RoundConfig{RoundLimit: 1, Victory: VictoryScoreLimit, ScoreLimit: 3, RestTicks: 60}
	m := NewTeamDeathmatch(cfg)

	for i := 0; i < 2; i++ {
		m.RegisterKill(1)
	}
	if events := m.Tick(0, 1.0/60, nil); events != nil {
		t.Fatalf("expected no transition before score limit, got %v", events)
	}

	m.RegisterKill(1)
	events := m.Tick(0, 1.0/60, nil)
	if len(events) != 1 || events[0].Kind != EventRoundEnd {
		t.Fatalf("expected round end at score limit, got %v", events)
	}
	if m.Phase() != PhaseRest {
		t.Fatalf("expected phase rest, got %v", m.Phase())
	}
}

func TestKOTHZoneCaptureAndContest(t *testing.T) {
	z := NewZone(1, 0, 0, 80, 3)

	for i := 0; i < 3; i++ {
		z.advance(map[int]int{1: 2})
	}
	if z.State() != ZoneControlled {
		t.Fatalf("expected zone controlled after capture window, got %v progress=%v", z.State(), z.Progress())
	}

	z.advance(map[int]int{1: 1, 2: 1})
	if z.State() != ZoneContested {
		t.Fatalf("expected contested once a second team enters, got %v", z.State())
	}
}

func TestFlagCaptureCycle(t *testing.T) {
	flag := NewFlag(1, 1, 0, 0)
	if !flag.TryPickup(100, 2) {
		t.Fatalf("expected opposing team to pick up flag")
	}
	if flag.TryPickup(101, 2) {
		t.Fatalf("expected pickup to fail while already carried")
	}

	flag.OnCarrierDeath(50, 50, 300)
	if flag.State() != FlagDropped {
		t.Fatalf("expected flag dropped on carrier death")
	}

	cfg := RoundConfig{RoundLimit: 1, RestTicks: 60}
	ctf := NewCaptureTheFlag(cfg, []*Flag{flag})
	flag.TryPickup(102, 2)
	if !ctf.Capture(flag, 2) {
		t.Fatalf("expected capture to succeed for carried flag")
	}
	if ctf.Scores()[2] != 1 {
		t.Fatalf("expected score 1 for capturing team, got %d", ctf.Scores()[2])
	}
	if flag.State() != FlagHome {
		t.Fatalf("expected flag to return home after capture")
	}
}

func TestJuggernautRotation(t *testing.T) {
	order := map[int][]EntityID{1: {10, 20, 30}}
	cfg := RoundConfig{RoundLimit: 1, RestTicks: 60}
	m := NewJuggernaut(cfg, order)

	alive := map[EntityID]bool{10: false, 20: true, 30: true}
	events := m.OnJuggernautKilled(2, 1, 10, alive)
	if len(events) != 1 || events[0].PlayerID != 20 {
		t.Fatalf("expected next VIP to be 20, got %v", events)
	}
	if m.Scores()[2] != 1 {
		t.Fatalf("expected killer team scored, got %v", m.Scores())
	}
}
