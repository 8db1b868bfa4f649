package compliance

import (
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racemetrics/pkg/model"
)

func registry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry()
	require.NoError(t, err)
	return r
}

func TestBuiltinRulebooks(t *testing.T) {
	r := registry(t)
	assert.Equal(t, []string{HSRAStandards, SixShooter}, r.Names())
	_, err := r.Get("nascar")
	assert.ErrorIs(t, err, ErrUnknownRulebook)
}

func TestSixShooter(t *testing.T) {
	book, err := registry(t).Get(SixShooter)
	require.NoError(t, err)

	tests := []struct {
		name       string
		specs      model.CarSpecs
		compliant  bool
		violations []string
	}{
		{
			name: "legal car",
			specs: model.CarSpecs{
				Engine: model.EngineSpecs{Displacement: lo.ToPtr(350.0), CompressionRatio: lo.ToPtr(9.5)},
				Weight: model.WeightSpecs{TotalWeight: lo.ToPtr(2750.0)},
				Wheels: model.WheelSpecs{FrontTireSize: "225/50R15"},
			},
			compliant:  true,
			violations: []string{},
		},
		{
			name:       "missing values are skipped",
			specs:      model.CarSpecs{},
			compliant:  true,
			violations: []string{},
		},
		{
			name: "every limit broken",
			specs: model.CarSpecs{
				Engine: model.EngineSpecs{Displacement: lo.ToPtr(362.0), CompressionRatio: lo.ToPtr(10.5)},
				Weight: model.WeightSpecs{TotalWeight: lo.ToPtr(2650.0)},
				Wheels: model.WheelSpecs{FrontTireSize: "285/40R17"},
			},
			compliant: false,
			violations: []string{
				"Engine displacement exceeds 360 cubic inch limit",
				"Compression ratio exceeds 10.0:1 limit",
				"Car weight below 2700 lb minimum",
				"Front tire width exceeds maximum allowed",
			},
		},
		{
			name: "tire size without width",
			specs: model.CarSpecs{
				Wheels: model.WheelSpecs{FrontTireSize: "slick"},
			},
			compliant:  true,
			violations: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := book.Check(&tt.specs)
			require.NoError(t, err)
			assert.Equal(t, tt.compliant, rep.Compliant)
			assert.Equal(t, tt.violations, rep.Violations)
			assert.Len(t, rep.Checks, 4)
		})
	}
}

func TestHSRAStandards(t *testing.T) {
	book, err := registry(t).Get(HSRAStandards)
	require.NoError(t, err)

	specs := &model.CarSpecs{
		Engine:     model.EngineSpecs{Displacement: lo.ToPtr(350.0)},
		Weight:     model.WeightSpecs{TotalWeight: lo.ToPtr(2600.0)},
		Dimensions: model.DimensionSpecs{Wheelbase: lo.ToPtr(88.0)},
	}
	rep, err := book.Check(specs)
	require.NoError(t, err)
	assert.False(t, rep.Compliant)

	messages := lo.Map(rep.Checks, func(c CheckResult, _ int) string { return c.Message })
	assert.Equal(t, []string{
		"FAIL - Exceeds 2500 lbs",
		"FAIL - Below 90 inches",
		"FAIL - Invalid value",
		"PASS",
	}, messages)
	assert.InDelta(t, 2600.0, *rep.Checks[0].Value, 1e-9)
	assert.Nil(t, rep.Checks[2].Value)
	assert.Equal(t, "Height: FAIL - Invalid value", rep.Violations[2])

	rep, err = book.Check(&model.CarSpecs{
		Engine:     model.EngineSpecs{Displacement: lo.ToPtr(305.0)},
		Weight:     model.WeightSpecs{TotalWeight: lo.ToPtr(2500.0)},
		Dimensions: model.DimensionSpecs{Wheelbase: lo.ToPtr(90.0), Height: lo.ToPtr(52.5)},
	})
	require.NoError(t, err)
	assert.True(t, rep.Compliant)
	assert.Empty(t, rep.Violations)
}

func TestLoadReader(t *testing.T) {
	r := registry(t)
	custom := `
rulebooks:
  - name: club
    rules:
      - name: rpm
        path: $.electronics.rpmLimiter
        bound: max
        limit: 7000
        unit: rpm
`
	require.NoError(t, r.LoadReader(strings.NewReader(custom)))
	book, err := r.Get("club")
	require.NoError(t, err)
	rep, err := book.Check(&model.CarSpecs{
		Electronics: model.ElectronicsSpecs{RPMLimiter: lo.ToPtr(7200.0)},
	})
	require.NoError(t, err)
	assert.Equal(t, "FAIL - Exceeds 7000 rpm", rep.Checks[0].Message)
	assert.Equal(t, []string{"rpm: FAIL - Exceeds 7000 rpm"}, rep.Violations)

	bad := `
rulebooks:
  - name: broken
    rules:
      - name: x
        path: $.engine.displacement
        bound: between
`
	assert.Error(t, r.LoadReader(strings.NewReader(bad)))
	_, err = r.Get("broken")
	assert.ErrorIs(t, err, ErrUnknownRulebook)
}

func TestTireWidth(t *testing.T) {
	w, ok := tireWidth("275/40R17")
	assert.True(t, ok)
	assert.InDelta(t, 275.0, w, 1e-9)
	_, ok = tireWidth("P235")
	assert.False(t, ok)
	_, ok = tireWidth("wide/40")
	assert.False(t, ok)
}
