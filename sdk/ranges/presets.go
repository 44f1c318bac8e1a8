package ranges

import (
	"fmt"
	"strings"
)

// Preset is a named starting range.
type Preset struct {
	Name  string
	Range Range
}

var presetNotation = []struct{ name, notation string }{
	{"Top 5%", "AA-TT,AKs,AQs,AKo"},
	{"Top 10%", "AA-99,AKs-ATs,KQs,AKo,AQo"},
	{"Top 20%", "AA-77,AKs-ATs,KQs-KTs,QJs,QTs,JTs,AKo-AJo,KQo"},
	{"Top 30%", "AA-55,AKs-A2s,KQs-K9s,QJs,QTs,JTs,T9s,98s,87s,76s,AKo-ATo,KQo,KJo,QJo"},
	{"Top 40%", "AA-22,AKs-A2s,KQs-K6s,QJs-Q9s,JTs,J9s,T9s,98s,87s,76s,65s,54s,AKo-A9o,KQo-KTo,QJo,QTo,JTo"},
	{"Pairs", "AA-22"},
	{"Broadways", "AKs-ATs,KQs-KTs,QJs,QTs,JTs,AKo-ATo,KQo-KTo,QJo,QTo,JTo"},
	{"Suited Connectors", "JTs,T9s,98s,87s,76s,65s,54s,43s,32s"},
}

var presets = func() []Preset {
	out := make([]Preset, len(presetNotation))
	for i, p := range presetNotation {
		out[i] = Preset{Name: p.name, Range: MustParse(p.notation)}
	}
	return out
}()

// Presets lists the built-in ranges in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a preset by name, ignoring case.
func LookupPreset(name string) (Range, error) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p.Range, nil
		}
	}
	return Range{}, fmt.Errorf("unknown preset %q", name)
}
