package category_test

import (
	"context"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob/category"
	"github.com/mpapenbr/racemetrics/pkg/model"
	base "github.com/mpapenbr/racemetrics/testsupport/basedata"
	"github.com/mpapenbr/racemetrics/testsupport/testdb"
)

func TestEnsure(t *testing.T) {
	db := base.NewDB(testdb.InitTestDB())
	r := category.NewCategoryRepository(db)
	ctx := context.Background()

	for i := range model.DefaultCategories {
		inserted, err := r.Ensure(ctx, &model.DefaultCategories[i])
		assert.NilError(t, err)
		assert.Assert(t, inserted)
	}
	// second round must not create duplicates
	for i := range model.DefaultCategories {
		inserted, err := r.Ensure(ctx, &model.DefaultCategories[i])
		assert.NilError(t, err)
		assert.Assert(t, !inserted)
	}
	all, err := r.LoadAll(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(all), len(model.DefaultCategories))
	assert.Equal(t, all[0].Name, "Aerodynamics")
}

func TestCreateAndDelete(t *testing.T) {
	db := base.NewDB(testdb.InitTestDB())
	r := category.NewCategoryRepository(db)
	ctx := context.Background()

	c, err := r.Create(ctx, &model.MetricCategory{Name: "Brakes", Color: "#000000"})
	assert.NilError(t, err)
	_, err = r.Create(ctx, &model.MetricCategory{Name: "Brakes"})
	assert.Assert(t, err != nil)

	loaded, err := r.LoadByID(ctx, c.ID)
	assert.NilError(t, err)
	assert.DeepEqual(t, loaded, c)

	num, err := r.DeleteByID(ctx, c.ID)
	assert.NilError(t, err)
	assert.Equal(t, num, 1)
}
