package engine

import (
	"errors"
	"testing"

	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/world"
)

func TestSessionDispatch(t *testing.T) {
	sess := NewSession(testEngine(entropy.Fixed(0.99)))
	ch, cancel := sess.Subscribe(8)
	defer cancel()

	var commits int
	sess.OnCommit = func(prev, next *world.GameState, a Action) { commits++ }

	if _, err := sess.Dispatch(AdvanceTurn{}); !errors.Is(err, ErrGameOver) {
		t.Fatalf("dispatch before new game: err = %v", err)
	}

	g, err := sess.NewGame(Setup{PlayerParty: "Civic Union"})
	if err != nil {
		t.Fatal(err)
	}
	if n := <-ch; n.Tag != TagSuccess || n.Action != "new_game" {
		t.Errorf("new game notification = %+v", n)
	}

	got, err := sess.Dispatch(ConvertFunds{})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if got.Turn != g.Turn {
		t.Errorf("failed dispatch returned turn %d", got.Turn)
	}
	if n := <-ch; n.Tag != TagFailure || n.Error == "" {
		t.Errorf("failure notification = %+v", n)
	}

	if _, err := sess.Dispatch(SetBudgetTier{Item: world.Tax, Level: world.Low}); err != nil {
		t.Fatal(err)
	}
	if n := <-ch; n.Tag != TagClick {
		t.Errorf("budget notification = %+v", n)
	}

	next, err := sess.Dispatch(AdvanceTurn{})
	if err != nil {
		t.Fatal(err)
	}
	if n := <-ch; n.Tag != TagNextTurn || n.Turn != 2 {
		t.Errorf("turn notification = %+v", n)
	}
	if next.Turn != 2 || sess.State().Turn != 2 {
		t.Errorf("turn = %d / %d, want 2", next.Turn, sess.State().Turn)
	}
	if commits != 3 {
		t.Errorf("commits = %d, want 3", commits)
	}

	// Returned states are copies.
	next.Turn = 99
	if sess.State().Turn != 2 {
		t.Error("caller mutation leaked into the session")
	}

	sess.Reset()
	if sess.State() != nil {
		t.Error("reset kept the game")
	}
}

func TestSessionDropsForSlowSubscribers(t *testing.T) {
	sess := NewSession(testEngine(entropy.Fixed(0.99)))
	ch, cancel := sess.Subscribe(1)
	if _, err := sess.NewGame(Setup{PlayerParty: "Civic Union"}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := sess.Dispatch(SetBudgetTier{Item: world.Tax, Level: world.High}); err != nil {
			t.Fatal(err)
		}
	}
	if len(ch) != 1 {
		t.Errorf("buffered = %d, want 1", len(ch))
	}
	cancel()
	cancel()
	if _, ok := <-ch; !ok {
		t.Fatal("buffered notification lost on cancel")
	}
	if _, ok := <-ch; ok {
		t.Error("channel still open after cancel")
	}
}
