package world

import (
	"fmt"
	"strings"
)

// Ideology is a party or minister's political position. The zero value is
// IdeologyUnknown, which scores with the center-right default weights.
type Ideology uint8

const (
	IdeologyUnknown Ideology = iota
	Conservatism
	TraditionalConservatism
	CenterRight
	Nationalism
	Liberalism
	Socialism
	SocialDemocracy
	CenterLeft
	Progressivism
	Egalitarianism
	SocialLiberalism
	Neoliberalism
	Libertarianism
	Environmentalism
	Pacifism
	Technocracy
	Regionalism
	Populism
	Agrarianism
	Urbanism
	AntiGlobalism
	Radicalism
	Republicanism
	Centrism
	numIdeologies
)

var ideologyNames = [numIdeologies]string{
	"unknown",
	"conservatism",
	"traditional-conservatism",
	"center-right",
	"nationalism",
	"liberalism",
	"socialism",
	"social-democracy",
	"center-left",
	"progressivism",
	"egalitarianism",
	"social-liberalism",
	"neoliberalism",
	"libertarianism",
	"environmentalism",
	"pacifism",
	"technocracy",
	"regionalism",
	"populism",
	"agrarianism",
	"urbanism",
	"anti-globalism",
	"radicalism",
	"republicanism",
	"centrism",
}

func (i Ideology) String() string {
	if i < numIdeologies {
		return ideologyNames[i]
	}
	return fmt.Sprintf("ideology(%d)", uint8(i))
}

// Ideologies lists every known ideology, excluding IdeologyUnknown.
func Ideologies() []Ideology {
	out := make([]Ideology, 0, numIdeologies-1)
	for i := Conservatism; i < numIdeologies; i++ {
		out = append(out, i)
	}
	return out
}

// ParseIdeology resolves a name case-insensitively. Underscores and spaces
// are accepted in place of hyphens.
func ParseIdeology(s string) (Ideology, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", "-", " ", "-").Replace(key)
	for i, name := range ideologyNames {
		if i > 0 && name == key {
			return Ideology(i), nil
		}
	}
	return IdeologyUnknown, fmt.Errorf("unknown ideology %q", s)
}

func (i Ideology) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

func (i *Ideology) UnmarshalText(b []byte) error {
	v, err := ParseIdeology(string(b))
	if err != nil {
		return err
	}
	*i = v
	return nil
}
