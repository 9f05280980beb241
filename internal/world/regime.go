package world

import (
	"fmt"
	"strings"
)

// Regime is a political system a law can switch the country to.
type Regime uint8

const (
	RegimeNone Regime = iota
	Monarchy
	Republic
	Socialist
	Dictatorship
	Democracy
	Theocracy
	Federation
	Empire
	MilitaryJunta // reachable only through the coup event
	numRegimes
)

var regimeKeys = [numRegimes]string{
	"", "MONARCHY", "REPUBLIC", "SOCIALISM", "DICTATORSHIP",
	"DEMOCRACY", "THEOCRACY", "FEDERATION", "EMPIRE", "MILITARY_JUNTA",
}

var regimeSuffixes = [numRegimes]string{
	"", "Kingdom", "Republic", "Socialist Republic", "Dictatorship",
	"Democracy", "Holy State", "Federation", "Empire", "Military Junta",
}

func (r Regime) String() string {
	if r < numRegimes {
		return regimeKeys[r]
	}
	return fmt.Sprintf("regime(%d)", uint8(r))
}

// Suffix is the name appended to the country's base name.
func (r Regime) Suffix() string {
	if r < numRegimes {
		return regimeSuffixes[r]
	}
	return ""
}

// LawRegimes lists the regimes a law may request.
func LawRegimes() []Regime {
	return []Regime{Monarchy, Republic, Socialist, Dictatorship, Democracy, Theocracy, Federation, Empire}
}

// ParseRegime resolves an upper-case regime key. The empty string is RegimeNone.
func ParseRegime(s string) (Regime, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	for i, k := range regimeKeys {
		if k == key {
			return Regime(i), nil
		}
	}
	return RegimeNone, fmt.Errorf("unknown political system %q", s)
}

func (r Regime) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Regime) UnmarshalText(b []byte) error {
	v, err := ParseRegime(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// RegimeName builds "<base> <suffix>" where base is the first word of the
// current country name.
func RegimeName(current string, r Regime) string {
	base, _, _ := strings.Cut(current, " ")
	if r.Suffix() == "" {
		return current
	}
	return base + " " + r.Suffix()
}
