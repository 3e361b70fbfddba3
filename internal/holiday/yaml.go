package holiday

import (
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Custom holiday file format:
//
//	holidays:
//	  - name: Festivus
//	    rule:
//	      kind: fixed        # fixed | nth_weekday | easter_offset
//	      month: 12
//	      day: 23
//	    window:
//	      days_before: 1
//	      days_after: 0
//	    effect: sparkle

type yamlRule struct {
	Kind    string `yaml:"kind"`
	Month   int    `yaml:"month"`
	Day     int    `yaml:"day"`
	Weekday string `yaml:"weekday"`
	N       int    `yaml:"n"`
	Days    int    `yaml:"days"`
}

type yamlHoliday struct {
	Name   string   `yaml:"name"`
	Rule   yamlRule `yaml:"rule"`
	Window Window   `yaml:"window"`
	Effect string   `yaml:"effect"`
}

// LoadCustom reads additional holidays from a YAML file.
func LoadCustom(path string) ([]Holiday, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "holiday: read custom file %s", path)
	}
	holidays, err := ParseCustom(data)
	if err != nil {
		return nil, eris.Wrapf(err, "holiday: parse custom file %s", path)
	}
	return holidays, nil
}

// ParseCustom parses the custom holiday YAML document.
func ParseCustom(data []byte) ([]Holiday, error) {
	var wrapper struct {
		Holidays []yamlHoliday `yaml:"holidays"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "unmarshal")
	}

	holidays := make([]Holiday, 0, len(wrapper.Holidays))
	for _, yh := range wrapper.Holidays {
		h, err := yh.toHoliday()
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, nil
}

func (yh yamlHoliday) toHoliday() (Holiday, error) {
	var zero Holiday

	if yh.Name == "" {
		return zero, eris.New("holiday entry missing name")
	}
	if yh.Window.DaysBefore < 0 || yh.Window.DaysAfter < 0 {
		return zero, eris.Errorf("%s: window days must be >= 0", yh.Name)
	}

	effect := EffectSparkle
	if yh.Effect != "" {
		if !ValidEffect(yh.Effect) {
			return zero, eris.Errorf("%s: unknown effect %q", yh.Name, yh.Effect)
		}
		effect = EffectKind(yh.Effect)
	}

	rule, err := yh.Rule.toRule()
	if err != nil {
		return zero, eris.Wrap(err, yh.Name)
	}

	return Holiday{Name: yh.Name, Rule: rule, Window: yh.Window, Effect: effect}, nil
}

func (yr yamlRule) toRule() (Rule, error) {
	switch yr.Kind {
	case "fixed":
		if yr.Month < 1 || yr.Month > 12 {
			return nil, eris.Errorf("month %d out of range", yr.Month)
		}
		// Validate against a non-leap year so Feb 29 is rejected: a rule that
		// only exists every fourth year is not a usable fixed date.
		probe := time.Date(2001, time.Month(yr.Month), yr.Day, 0, 0, 0, 0, time.UTC)
		if yr.Day < 1 || probe.Day() != yr.Day || probe.Month() != time.Month(yr.Month) {
			return nil, eris.Errorf("day %d invalid for month %d", yr.Day, yr.Month)
		}
		return FixedDate{Month: time.Month(yr.Month), Day: yr.Day}, nil

	case "nth_weekday":
		if yr.Month < 1 || yr.Month > 12 {
			return nil, eris.Errorf("month %d out of range", yr.Month)
		}
		if yr.N != -1 && (yr.N < 1 || yr.N > 4) {
			return nil, eris.Errorf("n must be 1..4 or -1, got %d", yr.N)
		}
		wd, err := parseWeekday(yr.Weekday)
		if err != nil {
			return nil, err
		}
		return NthWeekday{Month: time.Month(yr.Month), Weekday: wd, N: yr.N}, nil

	case "easter_offset":
		if yr.Days < -90 || yr.Days > 90 {
			return nil, eris.Errorf("easter offset %d out of range", yr.Days)
		}
		return EasterOffset{Days: yr.Days}, nil

	default:
		return nil, eris.Errorf("unknown rule kind %q", yr.Kind)
	}
}

func parseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(s) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	}
	return time.Sunday, eris.Errorf("unknown weekday %q", s)
}
