package compliance

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/oj"

	"github.com/mpapenbr/racemetrics/pkg/model"
)

type CheckResult struct {
	Rule    string   `json:"rule"`
	Label   string   `json:"label"`
	Value   *float64 `json:"value"`
	Limit   float64  `json:"limit"`
	Bound   Bound    `json:"bound"`
	Unit    string   `json:"unit"`
	Passes  bool     `json:"passes"`
	Skipped bool     `json:"skipped,omitempty"`
	Message string   `json:"message"`
}

type Report struct {
	Rulebook   string        `json:"rulebook"`
	Compliant  bool          `json:"compliant"`
	Checks     []CheckResult `json:"checks"`
	Violations []string      `json:"violations"`
}

// Check evaluates every rule of the rulebook against specs.
func (b *Rulebook) Check(specs *model.CarSpecs) (*Report, error) {
	raw, err := json.Marshal(specs)
	if err != nil {
		return nil, err
	}
	doc, err := oj.ParseString(string(raw))
	if err != nil {
		return nil, err
	}
	ret := &Report{
		Rulebook:   b.Name,
		Compliant:  true,
		Checks:     make([]CheckResult, 0, len(b.Rules)),
		Violations: make([]string, 0),
	}
	for i := range b.Rules {
		c := b.Rules[i].evaluate(doc)
		ret.Checks = append(ret.Checks, c)
		if !c.Passes {
			ret.Compliant = false
			ret.Violations = append(ret.Violations, b.Rules[i].violationText(c))
		}
	}
	return ret, nil
}

func (r *Rule) evaluate(doc any) CheckResult {
	ret := CheckResult{
		Rule:  r.Name,
		Label: r.Label,
		Limit: r.Limit,
		Bound: r.Bound,
		Unit:  r.Unit,
	}
	v, ok := r.resolve(doc)
	if !ok {
		if r.Optional {
			ret.Passes = true
			ret.Skipped = true
			ret.Message = "PASS"
			return ret
		}
		ret.Message = "FAIL - Invalid value"
		return ret
	}
	ret.Value = &v
	switch r.Bound {
	case BoundMax:
		ret.Passes = v <= r.Limit
		if !ret.Passes {
			ret.Message = fmt.Sprintf("FAIL - Exceeds %s", r.limitText())
		}
	case BoundMin:
		ret.Passes = v >= r.Limit
		if !ret.Passes {
			ret.Message = fmt.Sprintf("FAIL - Below %s", r.limitText())
		}
	}
	if ret.Passes {
		ret.Message = "PASS"
	}
	return ret
}

func (r *Rule) limitText() string {
	return strings.TrimSpace(fmt.Sprintf("%g %s", r.Limit, r.Unit))
}

func (r *Rule) violationText(c CheckResult) string {
	if r.Violation != "" && c.Value != nil {
		return r.Violation
	}
	return fmt.Sprintf("%s: %s", r.Label, c.Message)
}

// resolve returns the numeric value the rule path points to.
func (r *Rule) resolve(doc any) (float64, bool) {
	var v float64
	switch x := r.expr.First(doc).(type) {
	case int64:
		v = float64(x)
	case float64:
		v = x
	case string:
		if r.Transform == TransformTireWidth {
			return tireWidth(x)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// tireWidth extracts the section width of a size like 225/50R15.
func tireWidth(size string) (float64, bool) {
	idx := strings.Index(size, "/")
	if idx < 0 {
		return 0, false
	}
	w, err := strconv.Atoi(strings.TrimSpace(size[:idx]))
	if err != nil {
		return 0, false
	}
	return float64(w), true
}
