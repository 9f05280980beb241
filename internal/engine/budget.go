package engine

import (
	"fmt"

	"github.com/talgya/statecraft/internal/world"
)

const executeBudgetCost = 20

func setBudgetTier(s *world.GameState, a SetBudgetTier) error {
	if a.Item >= world.NumBudgetItems {
		return fmt.Errorf("%w: budget item %d", ErrInvalidChoice, a.Item)
	}
	switch a.Level {
	case world.Normal, world.Low, world.High:
	default:
		return fmt.Errorf("%w: budget level %d", ErrInvalidChoice, a.Level)
	}
	s.BudgetDraft = s.BudgetDraft.With(a.Item, a.Level)
	return nil
}

func executeBudget(s *world.GameState) error {
	if err := requirePhase(s, world.StatusPlaying); err != nil {
		return err
	}
	if err := requirePP(s, executeBudgetCost); err != nil {
		return err
	}
	spendPP(s, executeBudgetCost)
	s.Budget = s.BudgetDraft
	s.Log(fmt.Sprintf("[Budget] New budget approved: tax %s, education %s, welfare %s, defense %s.",
		s.Budget.Tax, s.Budget.Education, s.Budget.Welfare, s.Budget.Defense))
	return nil
}
