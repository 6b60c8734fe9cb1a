package round

import (
	"context"
	"errors"
	"testing"

	"serotonyl.ru/castle-economy/internal/common"
	"serotonyl.ru/castle-economy/internal/features/siege"
)

func newTestSessions(w *fakeWallet, d *fakeDisplay, damage int) *Sessions {
	return NewSessions(w, d, SessionConfig{
		CastleMaxHealth: 100,
		Settlement:      testSettlement,
		Siege:           siege.Config{MinDamage: damage, MaxDamage: damage},
		Seed:            1,
	})
}

func TestSessions_OpenStartsFirstWave(t *testing.T) {
	s := newTestSessions(newFakeWallet(), &fakeDisplay{}, 5)
	ctx := context.Background()

	if err := s.Open(ctx, 1); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Open(ctx, 1); err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	if players := s.Players(); len(players) != 1 || players[0] != 1 {
		t.Errorf("Players() = %v, want [1]", players)
	}

	reports := s.AdvanceWave(ctx)
	if len(reports) != 1 || reports[0].Wave != 1 {
		t.Fatalf("AdvanceWave() = %+v, want one report for wave 1", reports)
	}
}

func TestSessions_CombatAndSettlement(t *testing.T) {
	w := newFakeWallet()
	s := newTestSessions(w, &fakeDisplay{}, 5)
	ctx := context.Background()
	s.Open(ctx, 1)
	s.Open(ctx, 2)

	// Два удара по 5 HP: потеряно 10% — поражение
	s.Combat(ctx)
	s.Combat(ctx)

	health, err := s.Health(1)
	if err != nil {
		t.Fatal(err)
	}
	if health != 90 {
		t.Errorf("Health(1) = %d, want 90", health)
	}

	reports := s.AdvanceWave(ctx)
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	for _, r := range reports {
		if r.Settlement.Won || r.Settlement.LoseStreak != 1 {
			t.Errorf("player %d: settlement = %+v, want a loss", r.PlayerID, r.Settlement)
		}
	}

	// Следующая волна без урона — победа
	reports = s.AdvanceWave(ctx)
	win, lose, err := s.Streaks(1)
	if err != nil {
		t.Fatal(err)
	}
	if win != 1 || lose != 0 {
		t.Errorf("Streaks(1) = (%d, %d), want (1, 0)", win, lose)
	}
	if reports[0].Wave != 2 {
		t.Errorf("Wave = %d, want 2", reports[0].Wave)
	}
}

func TestSessions_DestroyedCastleRestartsSession(t *testing.T) {
	s := newTestSessions(newFakeWallet(), &fakeDisplay{}, 60)
	ctx := context.Background()
	s.Open(ctx, 1)

	s.Combat(ctx)
	s.Combat(ctx)

	reports := s.AdvanceWave(ctx)
	if len(reports) != 1 || !reports[0].CastleDestroyed {
		t.Fatalf("expected destroyed castle report, got %+v", reports)
	}

	// Новая сессия: полный замок, серии с нуля, волна 1
	health, _ := s.Health(1)
	if health != 100 {
		t.Errorf("Health after restart = %d, want 100", health)
	}
	win, lose, _ := s.Streaks(1)
	if win != 0 || lose != 0 {
		t.Errorf("Streaks after restart = (%d, %d), want (0, 0)", win, lose)
	}

	reports = s.AdvanceWave(ctx)
	if reports[0].Wave != 1 {
		t.Errorf("Wave after restart = %d, want 1", reports[0].Wave)
	}
}

func TestSessions_ReadFailureRetriesNextTick(t *testing.T) {
	w := newFakeWallet()
	s := newTestSessions(w, &fakeDisplay{}, 0)
	ctx := context.Background()
	s.Open(ctx, 1)

	w.getErr = errStorage
	if reports := s.AdvanceWave(ctx); len(reports) != 0 {
		t.Errorf("expected no reports on failure, got %d", len(reports))
	}

	w.getErr = nil
	reports := s.AdvanceWave(ctx)
	if len(reports) != 1 || reports[0].Wave != 1 {
		t.Errorf("retry should settle wave 1, got %+v", reports)
	}
}

func TestSessions_Close(t *testing.T) {
	s := newTestSessions(newFakeWallet(), &fakeDisplay{}, 5)
	ctx := context.Background()
	s.Open(ctx, 1)
	s.Close(1)

	if _, _, err := s.Streaks(1); !errors.Is(err, common.ErrUnknownPlayer) {
		t.Errorf("Streaks() after Close error = %v, want ErrUnknownPlayer", err)
	}
	if _, err := s.Health(1); !errors.Is(err, common.ErrUnknownPlayer) {
		t.Errorf("Health() after Close error = %v, want ErrUnknownPlayer", err)
	}
	if reports := s.AdvanceWave(ctx); len(reports) != 0 {
		t.Errorf("closed session should not settle, got %d reports", len(reports))
	}
}

func TestSessions_OpenInvalidConfig(t *testing.T) {
	s := NewSessions(newFakeWallet(), &fakeDisplay{}, SessionConfig{
		CastleMaxHealth: 0,
		Settlement:      testSettlement,
	})
	if err := s.Open(context.Background(), 1); !errors.Is(err, common.ErrInvalidHealth) {
		t.Errorf("Open() error = %v, want ErrInvalidHealth", err)
	}
}

func TestSessions_PanicIsolatedPerPlayer(t *testing.T) {
	w := newFakeWallet()
	w.panicFor = 1
	s := newTestSessions(w, &fakeDisplay{}, 0)
	ctx := context.Background()
	s.Open(ctx, 1)
	s.Open(ctx, 2)

	reports := s.AdvanceWave(ctx)
	if len(reports) != 1 || reports[0].PlayerID != 2 {
		t.Fatalf("AdvanceWave() = %+v, want only player 2", reports)
	}
	if _, _, err := s.Streaks(1); err != nil {
		t.Errorf("session of panicking player should survive: %v", err)
	}
}
