package world

import "fmt"

// BudgetItem is one of the four budget lines.
type BudgetItem uint8

const (
	Tax BudgetItem = iota
	Education
	Welfare
	Defense
	NumBudgetItems
)

var budgetItemNames = [NumBudgetItems]string{"tax", "education", "welfare", "defense"}

func (b BudgetItem) String() string {
	if b < NumBudgetItems {
		return budgetItemNames[b]
	}
	return fmt.Sprintf("budget_item(%d)", uint8(b))
}

func ParseBudgetItem(s string) (BudgetItem, error) {
	for i, n := range budgetItemNames {
		if n == s {
			return BudgetItem(i), nil
		}
	}
	return 0, fmt.Errorf("unknown budget item %q", s)
}

func (b BudgetItem) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *BudgetItem) UnmarshalText(t []byte) error {
	v, err := ParseBudgetItem(string(t))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// BudgetLevel is a spending tier. The zero value is Normal.
type BudgetLevel uint8

const (
	Normal BudgetLevel = iota
	Low
	High
)

func (l BudgetLevel) String() string {
	switch l {
	case Normal:
		return "normal"
	case Low:
		return "low"
	case High:
		return "high"
	}
	return fmt.Sprintf("budget_level(%d)", uint8(l))
}

func ParseBudgetLevel(s string) (BudgetLevel, error) {
	switch s {
	case "normal":
		return Normal, nil
	case "low":
		return Low, nil
	case "high":
		return High, nil
	}
	return Normal, fmt.Errorf("unknown budget level %q", s)
}

func (l BudgetLevel) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *BudgetLevel) UnmarshalText(t []byte) error {
	v, err := ParseBudgetLevel(string(t))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Budget holds the level of each budget line.
type Budget struct {
	Tax       BudgetLevel `json:"tax"`
	Education BudgetLevel `json:"education"`
	Welfare   BudgetLevel `json:"welfare"`
	Defense   BudgetLevel `json:"defense"`
}

// Level returns the level of item.
func (b Budget) Level(item BudgetItem) BudgetLevel {
	switch item {
	case Tax:
		return b.Tax
	case Education:
		return b.Education
	case Welfare:
		return b.Welfare
	case Defense:
		return b.Defense
	}
	return Normal
}

// With returns a copy with item set to level.
func (b Budget) With(item BudgetItem, level BudgetLevel) Budget {
	switch item {
	case Tax:
		b.Tax = level
	case Education:
		b.Education = level
	case Welfare:
		b.Welfare = level
	case Defense:
		b.Defense = level
	}
	return b
}

// BudgetEffect is the per-turn bundle a budget line applies at a level.
type BudgetEffect struct {
	Treasury            int
	Factions            FactionChanges
	ResearchPoints      int
	Manpower            int
	MilitaryPower       int
	MilitaryFrustration int
}

// fc orders faction deltas wealthy, middle class, poor, capitalists, workers.
func fc(w, m, p, c, k float64) FactionChanges {
	return FactionChanges{Wealthy: w, MiddleClass: m, Poor: p, Capitalists: c, Workers: k}
}

// EffectOf returns the fixed effect bundle for item at level. Normal is
// always the zero bundle.
func EffectOf(item BudgetItem, level BudgetLevel) BudgetEffect {
	if level == Normal {
		return BudgetEffect{}
	}
	switch item {
	case Tax:
		if level == Low {
			return BudgetEffect{Treasury: -1500, Factions: fc(4, 2, 1, 5, 1)}
		}
		return BudgetEffect{Treasury: 2000, Factions: fc(-6, -4, -2, -7, -3)}
	case Education:
		if level == Low {
			return BudgetEffect{Treasury: 800, Factions: fc(1, -3, -2, 0, -1), ResearchPoints: -5}
		}
		return BudgetEffect{Treasury: -1500, Factions: fc(-1, 4, 2, 1, 2), ResearchPoints: 10}
	case Welfare:
		if level == Low {
			return BudgetEffect{Treasury: 1000, Factions: fc(2, -2, -8, 1, -6), Manpower: -50}
		}
		return BudgetEffect{Treasury: -2500, Factions: fc(-4, 3, 10, -2, 8), Manpower: 80}
	case Defense:
		if level == Low {
			return BudgetEffect{Treasury: 1200, MilitaryPower: -20, MilitaryFrustration: 2}
		}
		return BudgetEffect{Treasury: -3000, Factions: fc(1, 1, 0, 2, 1), MilitaryPower: 30, MilitaryFrustration: -2}
	}
	return BudgetEffect{}
}
