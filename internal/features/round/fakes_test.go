package round

import (
	"context"
	"errors"
	"sync"
)

type fakeWallet struct {
	mu       sync.Mutex
	gold     map[int64]int64
	granted  []int64
	getErr   error
	grantErr error
	panicFor int64 // GetGold паникует для этого игрока
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{gold: make(map[int64]int64)}
}

func (w *fakeWallet) GetGold(_ context.Context, userID int64) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.panicFor != 0 && w.panicFor == userID {
		panic("wallet corrupted")
	}
	if w.getErr != nil {
		return 0, w.getErr
	}
	return w.gold[userID], nil
}

func (w *fakeWallet) GrantGold(_ context.Context, userID int64, amount int64, _ string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.grantErr != nil {
		return w.grantErr
	}
	w.gold[userID] += amount
	w.granted = append(w.granted, amount)
	return nil
}

type shownStreaks struct {
	playerID   int64
	win, lose int
}

type fakeDisplay struct {
	shown []shownStreaks
}

func (d *fakeDisplay) ShowStreaks(_ context.Context, playerID int64, win, lose int) {
	d.shown = append(d.shown, shownStreaks{playerID, win, lose})
}

// fakeCastle — источник HP с ручным управлением.
type fakeCastle struct {
	health, max int
}

func (c *fakeCastle) Health() int    { return c.health }
func (c *fakeCastle) MaxHealth() int { return c.max }

var errStorage = errors.New("storage unavailable")
