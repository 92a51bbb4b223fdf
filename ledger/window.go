/*
window.go - Date-window resolution

PURPOSE:
  Translates a named preset (weekly, monthly, quarterly, yearly, custom,
  all_time) into a concrete [Start, End] window. A nil Start means "no lower
  bound": the window covers all history up to End.

GUARANTEES:
  Every resolved window has End >= Start. For named presets this holds by
  construction; for custom windows the resolver validates and rejects
  reversed ranges so the engine only ever has to check defensively.

SEE ALSO:
  - time.go: Calendar helpers the resolver is built on
  - engine.go: Consumes resolved windows
*/
package ledger

// =============================================================================
// WINDOW - The time boundary for every computation
// =============================================================================

// Window is a [Start, End] date range. Start == nil means unbounded below.
type Window struct {
	Start *TimePoint
	End   TimePoint
}

// Contains returns true if the time point is within the window.
func (w Window) Contains(t TimePoint) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	return t.BeforeOrEqual(w.End)
}

// Bounded returns true when the window has a lower bound.
func (w Window) Bounded() bool { return w.Start != nil }

func (w Window) String() string {
	if w.Start == nil {
		return "[.., " + w.End.String() + "]"
	}
	return "[" + w.Start.String() + ", " + w.End.String() + "]"
}

// =============================================================================
// PRESETS
// =============================================================================

type Preset string

const (
	PresetWeekly    Preset = "weekly"    // Sunday .. Saturday containing the reference date
	PresetMonthly   Preset = "monthly"   // Calendar month of the reference date
	PresetQuarterly Preset = "quarterly" // Calendar quarter of the reference date
	PresetYearly    Preset = "yearly"    // Jan 1 .. Dec 31 of the reference year
	PresetCustom    Preset = "custom"    // Caller-supplied boundaries
	PresetAllTime   Preset = "all_time"  // No lower bound
)

// ResolveWindow turns a preset and reference date into a concrete window.
//
// customStart/customEnd are only consulted for PresetCustom (both required)
// and PresetAllTime (customEnd optionally overrides the reference date).
// Window ends are always normalized to the last instant of their calendar
// day, so boundary-day records are included.
func ResolveWindow(preset Preset, ref TimePoint, customStart, customEnd *TimePoint) (Window, error) {
	switch preset {
	case PresetWeekly:
		start := MostRecentSunday(ref)
		return boundedWindow(start, start.AddDays(6).EndOfDay()), nil

	case PresetMonthly:
		return boundedWindow(StartOfMonth(ref), EndOfMonth(ref)), nil

	case PresetQuarterly:
		return boundedWindow(StartOfQuarter(ref), EndOfQuarter(ref)), nil

	case PresetYearly:
		return boundedWindow(StartOfYear(ref), EndOfYear(ref)), nil

	case PresetCustom:
		if customStart == nil || customEnd == nil {
			return Window{}, ErrMissingCustomRange
		}
		start := *customStart
		end := customEnd.EndOfDay()
		if end.Before(start) {
			return Window{}, &InvalidWindowError{Start: start, End: end}
		}
		return boundedWindow(start, end), nil

	case PresetAllTime:
		end := ref
		if customEnd != nil {
			end = customEnd.EndOfDay()
		}
		return Window{Start: nil, End: end}, nil

	default:
		return Window{}, ErrUnknownPreset
	}
}

func boundedWindow(start, end TimePoint) Window {
	return Window{Start: &start, End: end}
}
