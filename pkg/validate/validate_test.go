package validate

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	var errs Errors
	assert.NoError(t, errs.Err())

	nan := math.NaN()
	inf := math.Inf(1)
	ok := 12.5
	errs.Required("name", "  ")
	errs.Number("lapTime", &nan)
	errs.Number("rpm", &inf)
	errs.Number("fuel", &ok)
	errs.Number("missing", nil)
	errs.OneOf("trackCondition", "icy", "dry", "wet")

	err := errs.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Len(t, errs, 4)
	assert.Equal(t, "name: is required", errs[0].Error())
	assert.Contains(t, err.Error(), "lapTime: is not a number")
	assert.Contains(t, err.Error(), "trackCondition: must be one of dry, wet")
}

func TestNumbersOrdered(t *testing.T) {
	nan := math.NaN()
	values := map[string]*float64{
		"rearRight": &nan, "frontLeft": &nan, "rearLeft": &nan, "frontRight": &nan,
	}
	for range 10 {
		var errs Errors
		errs.Numbers("camber", values)
		assert.Equal(t,
			"camber.frontLeft: is not a number; camber.frontRight: is not a number; "+
				"camber.rearLeft: is not a number; camber.rearRight: is not a number",
			errs.Error())
	}
}

func TestParseNumber(t *testing.T) {
	v, err := ParseNumber(" 81.25 ")
	require.NoError(t, err)
	assert.InDelta(t, 81.25, *v, 1e-9)

	v, err = ParseNumber("")
	require.NoError(t, err)
	assert.Nil(t, v)

	for _, in := range []string{"abc", "NaN", "Inf", "1.2.3"} {
		_, err = ParseNumber(in)
		assert.ErrorIs(t, err, ErrInvalid, in)
	}
}
