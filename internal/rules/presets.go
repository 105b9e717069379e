package rules

import (
	"fmt"
	"sort"
	"strings"
)

// Preset names accepted by FromPreset
const (
	PresetDefault   = "default"
	PresetVegas     = "vegas"
	PresetEuropean  = "european"
	PresetFavorable = "favorable"
)

var presets = map[string]func() CasinoRules{
	PresetDefault: Default,
	PresetVegas: func() CasinoRules {
		r := Default()
		r.DealerStandsOnSoft17 = false
		r.Surrender = SurrenderLate
		return r
	},
	PresetEuropean: func() CasinoRules {
		r := Default()
		r.DealerPeeks = false
		r.InsuranceAvailable = false
		return r
	},
	PresetFavorable: func() CasinoRules {
		r := Default()
		r.Decks = 1
		r.Surrender = SurrenderEarly
		r.ResplitAces = true
		r.HitSplitAces = true
		return r
	},
}

// FromPreset returns the named rule set. Names are case-insensitive.
func FromPreset(name string) (CasinoRules, error) {
	build, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return CasinoRules{}, fmt.Errorf("unknown rules preset %q (want one of %s)", name, strings.Join(PresetNames(), ", "))
	}
	return build(), nil
}

// PresetNames returns the known preset names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
