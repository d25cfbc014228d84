// Package repository implements the MongoDB stores. Every read, update and
// soft delete is implicitly restricted to live documents (deleted_dt null),
// and the user and address stores are the single write boundary where PII is
// encrypted; callers above this package never see ciphertext.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/kashvicrafts/storefront-api/internal/model"
)

// ErrTransient marks storage failures that are safe to retry at the caller,
// such as timeouts. Everything else propagates unchanged.
var ErrTransient = errors.New("transient storage error")

// DeleteResult reports what a soft delete matched and changed. Matched == 0
// means the document is absent or already deleted; Matched > 0 with
// Modified == 0 is a benign concurrent-mutation race.
type DeleteResult struct {
	Matched  int64
	Modified int64
}

// liveFilter returns filter restricted to live documents. Soft-deleted
// documents carry a deleted_dt timestamp; live ones store an explicit null
// (legacy documents may omit the field, which Mongo also matches on null).
func liveFilter(filter bson.M) bson.M {
	filter["deleted_dt"] = nil
	return filter
}

// translateErr wraps timeout-shaped failures in ErrTransient so callers can
// distinguish retryable storage trouble from domain errors.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return err
}

// pageFindOptions translates normalized PageOptions into find options.
func pageFindOptions(opts model.PageOptions) *options.FindOptionsBuilder {
	order := 1
	if opts.SortOrder == model.SortDescending {
		order = -1
	}

	return options.Find().
		SetSort(bson.D{{Key: opts.SortField, Value: order}}).
		SetSkip(opts.Skip()).
		SetLimit(opts.Limit)
}

// softDelete stamps deleted_dt on a single live document matching filter.
func softDelete(ctx context.Context, coll *mongo.Collection, filter bson.M) (DeleteResult, error) {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"deleted_dt":  now,
		"modified_dt": now,
	}}

	result, err := coll.UpdateOne(ctx, liveFilter(filter), update)
	if err != nil {
		return DeleteResult{}, translateErr(err)
	}

	return DeleteResult{Matched: result.MatchedCount, Modified: result.ModifiedCount}, nil
}
