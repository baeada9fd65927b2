package taxonomy

// Default scoring policy.
const (
	DefaultPassFailThreshold = 40.0
	DefaultCriticalErrorMax  = 1
)

// DefaultRatingThresholds are the inclusive upper bounds of ratings 5, 4, 3 and 2.
// An error score above the last one is rating 1.
var DefaultRatingThresholds = [4]float64{5, 15, 25, 40}

// Rating is a discrete 1-5 quality grade, 5 being best.
type Rating struct {
	Value       int    `json:"value"`
	Description string `json:"description"`
	Action      string `json:"action"`
}

var ratingTable = map[int]Rating{
	5: {5, "Functional", "No action needed. Ready for publication."},
	4: {4, "Minor deficiencies", "A light proofread is enough."},
	3: {3, "Isolated significant deficiencies", "Needs editing but is salvageable."},
	2: {2, "Serious deficiencies", "Heavy editing or partial retranslation."},
	1: {1, "Very serious deficiencies", "Rejected. Retranslation required."},
}

// RatingFor returns the band for a rating value. Values outside 1-5 map to rating 1.
func RatingFor(value int) Rating {
	r, ok := ratingTable[value]
	if !ok {
		return ratingTable[1]
	}
	return r
}

// Settings is a fully resolved scoring policy.
type Settings struct {
	RatingThresholds  [4]float64 `json:"rating_thresholds" yaml:"rating_thresholds" mapstructure:"rating_thresholds"`
	PassFailThreshold float64    `json:"pass_fail_threshold" yaml:"pass_fail_threshold" mapstructure:"pass_fail_threshold"`
	CriticalErrorMax  int        `json:"critical_error_max" yaml:"critical_error_max" mapstructure:"critical_error_max"`
}

// DefaultSettings returns the built-in policy.
func DefaultSettings() Settings {
	return Settings{
		RatingThresholds:  DefaultRatingThresholds,
		PassFailThreshold: DefaultPassFailThreshold,
		CriticalErrorMax:  DefaultCriticalErrorMax,
	}
}

// SettingsOverride is a caller-supplied partial policy. Nil and empty fields
// mean "use the default".
type SettingsOverride struct {
	RatingThresholds  []float64 `json:"rating_thresholds,omitempty" yaml:"rating_thresholds,omitempty" mapstructure:"rating_thresholds"`
	PassFailThreshold *float64  `json:"pass_fail_threshold,omitempty" yaml:"pass_fail_threshold,omitempty" mapstructure:"pass_fail_threshold"`
	CriticalErrorMax  *int      `json:"critical_error_max,omitempty" yaml:"critical_error_max,omitempty" mapstructure:"critical_error_max"`
}

// IsEmpty reports whether the override sets no field. A nil override is empty.
func (o *SettingsOverride) IsEmpty() bool {
	return o == nil || (len(o.RatingThresholds) == 0 && o.PassFailThreshold == nil && o.CriticalErrorMax == nil)
}

// OverrideFrom converts resolved settings into an override that sets every field.
func OverrideFrom(s Settings) *SettingsOverride {
	pf := s.PassFailThreshold
	cm := s.CriticalErrorMax
	return &SettingsOverride{
		RatingThresholds:  s.RatingThresholds[:],
		PassFailThreshold: &pf,
		CriticalErrorMax:  &cm,
	}
}

// Merge resolves an override against the defaults.
//
// Each omitted field falls back to its default. RatingThresholds is
// all-or-nothing: it replaces the default bands only when it holds exactly four
// values; any other length leaves all four default bands in place.
func Merge(o *SettingsOverride) Settings {
	s := DefaultSettings()
	if o == nil {
		return s
	}
	if o.PassFailThreshold != nil {
		s.PassFailThreshold = *o.PassFailThreshold
	}
	if o.CriticalErrorMax != nil {
		s.CriticalErrorMax = *o.CriticalErrorMax
	}
	if len(o.RatingThresholds) == len(s.RatingThresholds) {
		copy(s.RatingThresholds[:], o.RatingThresholds)
	}
	return s
}

// RateErrorScore maps an error score onto the rating ladder. Cut points are
// scanned tightest first and are inclusive, so a score equal to a cut point
// gets the better rating.
func (s Settings) RateErrorScore(errorScore float64) Rating {
	for i, cut := range s.RatingThresholds {
		if errorScore <= cut {
			return RatingFor(5 - i)
		}
	}
	return RatingFor(1)
}
