package voyager

// Mode is the vessel's physical mode of traversal, encoded as a tagged
// variant rather than the source's free-form string, per spec.md §9.
type Mode int

const (
	ModeDrift Mode = iota
	ModePaddling
	ModeSailing
)

func (m Mode) String() string {
	switch m {
	case ModeDrift:
		return "drift"
	case ModePaddling:
		return "paddling"
	case ModeSailing:
		return "sailing"
	default:
		return "unknown"
	}
}

// LevisonCraftID is the craft id that switches drift mode onto the discrete
// Beaufort-like Levison leeway table instead of the Sl/Yt/Da formula.
const LevisonCraftID = 7

// DriftParams carries the leeway coefficients used by drift (and as the
// base contribution of paddling). Ignored when Craft == LevisonCraftID.
type DriftParams struct {
	Sl float64 `json:"Sl"`
	Yt float64 `json:"Yt"`
	Da float64 `json:"Da"` // degrees
}

// PaddlingParams extends drift with a constant paddling speed in m/s.
type PaddlingParams struct {
	DriftParams
	Speed float64 `json:"speed"`
}

// SailingParams carries the tacking angle and wind-fraction polar table.
type SailingParams struct {
	Mt        float64 `json:"mt"` // max tacking angle, degrees
	Wf0_40    float64 `json:"wf 0-40"`
	Wf40_80   float64 `json:"wf 40-80"`
	Wf80_100  float64 `json:"wf 80-100"`
	Wf100_110 float64 `json:"wf 100-110"`
	Wf110_120 float64 `json:"wf 110-120"`
}

// WindFraction selects the wf coefficient for the given absolute
// bearing-relative angle b (degrees), by the first-matching band rule of
// spec.md §4.4.4.
func (p SailingParams) WindFraction(b float64) float64 {
	switch {
	case b <= 40:
		return p.Wf0_40
	case b <= 80:
		return p.Wf40_80
	case b <= 100:
		return p.Wf80_100
	case b <= 110:
		return p.Wf100_110
	default:
		return p.Wf110_120
	}
}

// VesselConfig is the nested { mode: { craft_id: { param: value } } }
// mapping described in spec.md §6, loaded once (as JSON — the Non-goal on
// YAML configuration names the external collaborator's format, not the
// core's) and passed to the vessel constructor verbatim.
type VesselConfig struct {
	Drift    map[int]DriftParams    `json:"drift"`
	Paddling map[int]PaddlingParams `json:"paddling"`
	Sailing  map[int]SailingParams  `json:"sailing"`
}

// Lookup resolves the parameter record for (mode, craft), returning the
// configuration-error taxonomy of spec.md §7 on a miss. Craft ==
// LevisonCraftID in drift mode never requires a table entry.
func (c *VesselConfig) Lookup(mode Mode, craft int) (any, error) {
	switch mode {
	case ModeDrift:
		if craft == LevisonCraftID {
			return DriftParams{}, nil
		}
		p, ok := c.Drift[craft]
		if !ok {
			return nil, ErrMissingParams
		}
		return p, nil

	case ModePaddling:
		p, ok := c.Paddling[craft]
		if !ok {
			return nil, ErrMissingParams
		}
		return p, nil

	case ModeSailing:
		p, ok := c.Sailing[craft]
		if !ok {
			return nil, ErrMissingParams
		}
		return p, nil

	default:
		return nil, ErrUnknownMode
	}
}
