package mytypes

import (
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racemetrics/pkg/model"
)

func TestJSONRoundtrip(t *testing.T) {
	src := NewJSON(model.Corners{FrontLeft: lo.ToPtr(31.5), RearRight: lo.ToPtr(30.0)})
	v, err := src.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"frontLeft":31.5,"rearRight":30}`, string(v.([]byte)))

	var dst JSON[model.Corners]
	require.NoError(t, dst.Scan(v))
	assert.Equal(t, src, dst)

	require.NoError(t, dst.Scan(`{"frontRight":29}`))
	assert.InDelta(t, 29.0, *dst.Val.FrontRight, 1e-9)
	assert.Nil(t, dst.Val.FrontLeft)

	require.NoError(t, dst.Scan(nil))
	assert.True(t, dst.Val.Empty())

	assert.Error(t, dst.Scan(42))
}

func TestNumeric(t *testing.T) {
	assert.False(t, NumericFromPtr(nil).Valid)
	assert.Nil(t, PtrFromNumeric(NumericFromPtr(nil)))

	n := NumericFromPtr(lo.ToPtr(81.25))
	assert.True(t, n.Valid)
	assert.Equal(t, "81.25", n.Decimal.String())
	assert.InDelta(t, 81.25, *PtrFromNumeric(n), 1e-9)
}

func TestNullUUID(t *testing.T) {
	assert.False(t, NullUUID(nil).Valid)
	assert.Nil(t, PtrFromNullUUID(NullUUID(nil)))

	id := uuid.Must(uuid.NewV4())
	n := NullUUID(&id)
	assert.True(t, n.Valid)
	assert.Equal(t, id, *PtrFromNullUUID(n))
}
