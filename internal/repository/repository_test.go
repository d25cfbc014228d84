package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/kashvicrafts/storefront-api/internal/model"
)

func TestTranslateErrMarksTimeoutsTransient(t *testing.T) {
	assert.ErrorIs(t, translateErr(context.DeadlineExceeded), ErrTransient)
	assert.ErrorIs(t, translateErr(fmt.Errorf("find users: %w", context.DeadlineExceeded)), ErrTransient)

	maxTime := mongo.CommandError{Code: 50, Name: "MaxTimeMSExpired", Message: "operation exceeded time limit"}
	assert.ErrorIs(t, translateErr(maxTime), ErrTransient)
}

func TestTranslateErrPassesThroughDomainErrors(t *testing.T) {
	assert.NoError(t, translateErr(nil))

	err := translateErr(mongo.ErrNoDocuments)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	assert.NotErrorIs(t, err, ErrTransient)
}

func TestPageFindOptionsAppliesWindowAndSort(t *testing.T) {
	built := pageFindOptions(model.PageOptions{
		Page:      3,
		Limit:     10,
		SortField: "created_dt",
		SortOrder: model.SortAscending,
	}.Normalized())

	var opts options.FindOptions
	for _, set := range built.Opts {
		require.NoError(t, set(&opts))
	}

	require.NotNil(t, opts.Skip)
	assert.EqualValues(t, 20, *opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.EqualValues(t, 10, *opts.Limit)
	assert.Equal(t, bson.D{{Key: "created_dt", Value: 1}}, opts.Sort)
}

func TestPageFindOptionsSortsDescending(t *testing.T) {
	built := pageFindOptions(model.PageOptions{SortOrder: model.SortDescending}.Normalized())

	var opts options.FindOptions
	for _, set := range built.Opts {
		require.NoError(t, set(&opts))
	}

	assert.Equal(t, bson.D{{Key: "created_dt", Value: -1}}, opts.Sort)
}

func TestLiveFilterRestrictsToNullDeletedAt(t *testing.T) {
	filter := liveFilter(bson.M{"email": "enc"})
	assert.Equal(t, bson.M{"email": "enc", "deleted_dt": nil}, filter)
}
