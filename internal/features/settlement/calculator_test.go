package settlement

import (
	"errors"
	"testing"

	"serotonyl.ru/castle-economy/internal/common"
)

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	c, err := NewCalculator(Config{
		InterestRate:       0.25,
		MaxHealth:          100,
		PerStreakUnitBonus: 1,
	})
	if err != nil {
		t.Fatalf("NewCalculator() error = %v", err)
	}
	return c
}

func TestNewCalculator_InvalidMaxHealth(t *testing.T) {
	for _, maxHealth := range []int{0, -1, -100} {
		_, err := NewCalculator(Config{InterestRate: 0.25, MaxHealth: maxHealth, PerStreakUnitBonus: 1})
		if !errors.Is(err, common.ErrConfiguration) {
			t.Errorf("NewCalculator(MaxHealth=%d) error = %v, want ErrConfiguration", maxHealth, err)
		}
	}
}

func TestNewCalculator_DefaultLossThreshold(t *testing.T) {
	c := newTestCalculator(t)
	if c.Config().LossThreshold != DefaultLossThreshold {
		t.Errorf("LossThreshold = %v, want %v", c.Config().LossThreshold, DefaultLossThreshold)
	}
	win, lose := c.Streaks()
	if win != 0 || lose != 0 {
		t.Errorf("initial streaks = (%d, %d), want (0, 0)", win, lose)
	}
}

func TestEvaluateStreak_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		wantWin  int
		wantLose int
	}{
		{"A: 5% lost is a win", 95, 1, 0},
		{"B: 15% lost is a loss", 85, 0, 1},
		{"C: exactly 10% lost is a loss", 90, 0, 1},
		{"no damage is a win", 100, 1, 0},
		{"healing is a win", 110, 1, 0},
		{"just under 10% is a win", 91, 1, 0},
		{"castle destroyed is a loss", 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCalculator(t)
			c.SnapshotRoundStart(100)
			if err := c.EvaluateStreak(tt.current); err != nil {
				t.Fatalf("EvaluateStreak() error = %v", err)
			}
			win, lose := c.Streaks()
			if win != tt.wantWin || lose != tt.wantLose {
				t.Errorf("streaks = (%d, %d), want (%d, %d)", win, lose, tt.wantWin, tt.wantLose)
			}
		})
	}
}

func TestEvaluateStreak_BoundaryWithLargerMaxHealth(t *testing.T) {
	c, err := NewCalculator(Config{InterestRate: 0.25, MaxHealth: 300, PerStreakUnitBonus: 1})
	if err != nil {
		t.Fatal(err)
	}
	c.SnapshotRoundStart(300)
	if err := c.EvaluateStreak(270); err != nil {
		t.Fatal(err)
	}
	if _, lose := c.Streaks(); lose != 1 {
		t.Errorf("30/300 should be a loss, loseStreak = %d", lose)
	}
}

func TestEvaluateStreak_CustomThreshold(t *testing.T) {
	c, err := NewCalculator(Config{InterestRate: 0.25, MaxHealth: 100, PerStreakUnitBonus: 1, LossThreshold: 0.2})
	if err != nil {
		t.Fatal(err)
	}
	c.SnapshotRoundStart(100)
	c.EvaluateStreak(85) // 15% < 20%
	if win, _ := c.Streaks(); win != 1 {
		t.Errorf("15%% with 20%% threshold should be a win, winStreak = %d", win)
	}
	c.SnapshotRoundStart(85)
	c.EvaluateStreak(65) // exactly 20%
	if win, lose := c.Streaks(); win != 0 || lose != 1 {
		t.Errorf("streaks = (%d, %d), want (0, 1)", win, lose)
	}
}

func TestEvaluateStreak_ExactlyOneNonZero(t *testing.T) {
	c := newTestCalculator(t)
	health := 100
	// чередуем победы и поражения
	damage := []int{0, 20, 5, 30, 10, 9, 50, 0, -5, 15}
	for i, d := range damage {
		c.SnapshotRoundStart(health)
		health -= d
		if err := c.EvaluateStreak(health); err != nil {
			t.Fatal(err)
		}
		win, lose := c.Streaks()
		if (win == 0) == (lose == 0) {
			t.Fatalf("round %d: streaks = (%d, %d), exactly one must be nonzero", i, win, lose)
		}
	}
}

func TestEvaluateStreak_Monotonic(t *testing.T) {
	c := newTestCalculator(t)

	for i := 1; i <= 4; i++ {
		c.SnapshotRoundStart(100)
		c.EvaluateStreak(80)
		win, lose := c.Streaks()
		if win != 0 || lose != i {
			t.Fatalf("loss %d: streaks = (%d, %d), want (0, %d)", i, win, lose, i)
		}
	}

	for i := 1; i <= 3; i++ {
		c.SnapshotRoundStart(100)
		c.EvaluateStreak(100)
		win, lose := c.Streaks()
		if win != i || lose != 0 {
			t.Fatalf("win %d: streaks = (%d, %d), want (%d, 0)", i, win, lose, i)
		}
	}
}

func TestSnapshotRoundStart_Idempotent(t *testing.T) {
	once := newTestCalculator(t)
	once.SnapshotRoundStart(100)
	onceResult, err := once.SettleRound(92, 40)
	if err != nil {
		t.Fatal(err)
	}

	twice := newTestCalculator(t)
	twice.SnapshotRoundStart(100)
	twice.SnapshotRoundStart(100)
	twiceResult, err := twice.SettleRound(92, 40)
	if err != nil {
		t.Fatal(err)
	}

	if onceResult != twiceResult {
		t.Errorf("double snapshot changed result: %+v vs %+v", onceResult, twiceResult)
	}
	if twice.PreRoundHealth() != 100 {
		t.Errorf("PreRoundHealth = %d, want 100", twice.PreRoundHealth())
	}
}

func TestEvaluateStreak_ZeroValueCalculatorDoesNotMutate(t *testing.T) {
	var c Calculator
	c.SnapshotRoundStart(100)

	err := c.EvaluateStreak(50)
	if !errors.Is(err, common.ErrConfiguration) {
		t.Fatalf("EvaluateStreak() error = %v, want ErrConfiguration", err)
	}
	if win, lose := c.Streaks(); win != 0 || lose != 0 {
		t.Errorf("streaks changed on error: (%d, %d)", win, lose)
	}

	if _, err := c.SettleRound(50, 10); !errors.Is(err, common.ErrConfiguration) {
		t.Errorf("SettleRound() error = %v, want ErrConfiguration", err)
	}
}

func TestSettleRound_ScenarioD(t *testing.T) {
	c := newTestCalculator(t)
	c.SnapshotRoundStart(100)

	got, err := c.SettleRound(95, 10)
	if err != nil {
		t.Fatalf("SettleRound() error = %v", err)
	}

	want := Settlement{
		Outcome:     Outcome{Lost: 5, LossRatio: 0.05, Won: true},
		Bonus:       1,
		Total:       11,
		Interest:    3, // round(2.75)
		GoldAwarded: 4,
		WinStreak:   1,
		LoseStreak:  0,
	}
	if got != want {
		t.Errorf("SettleRound() = %+v, want %+v", got, want)
	}
}

func TestSettleRound_LossStreakBonus(t *testing.T) {
	c := newTestCalculator(t)

	var last Settlement
	for i := 0; i < 3; i++ {
		c.SnapshotRoundStart(100)
		s, err := c.SettleRound(70, 20)
		if err != nil {
			t.Fatal(err)
		}
		last = s
	}

	// bonus = |0 - 3| * 1 = 3, total = 23, interest = round(5.75) = 6
	if last.Bonus != 3 {
		t.Errorf("Bonus = %d, want 3", last.Bonus)
	}
	if last.Interest != 6 {
		t.Errorf("Interest = %d, want 6", last.Interest)
	}
	if last.GoldAwarded != 9 {
		t.Errorf("GoldAwarded = %d, want 9", last.GoldAwarded)
	}
	if last.Won {
		t.Error("round should be a loss")
	}
}

func TestSettleRound_DoesNotDependOnHiddenState(t *testing.T) {
	// Два калькулятора с одинаковой историей дают одинаковый результат
	a := newTestCalculator(t)
	b := newTestCalculator(t)

	for _, c := range []*Calculator{a, b} {
		c.SnapshotRoundStart(100)
		c.SettleRound(100, 0)
		c.SnapshotRoundStart(100)
		c.SettleRound(99, 0)
	}

	a.SnapshotRoundStart(99)
	b.SnapshotRoundStart(99)
	ra, _ := a.SettleRound(97, 57)
	rb, _ := b.SettleRound(97, 57)
	if ra != rb {
		t.Errorf("results differ: %+v vs %+v", ra, rb)
	}
	if ra.WinStreak != 3 {
		t.Errorf("WinStreak = %d, want 3", ra.WinStreak)
	}
}
