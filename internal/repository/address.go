package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/kashvicrafts/storefront-api/internal/model"
	"github.com/kashvicrafts/storefront-api/internal/security"
)

// AddressRepository defines the address store. Address fields are PII and
// are encrypted at this boundary.
type AddressRepository interface {
	Create(ctx context.Context, address *model.Address) (*model.Address, error)
	Get(ctx context.Context, id bson.ObjectID) (*model.Address, error)
	ListByUser(ctx context.Context, userID bson.ObjectID) ([]model.Address, error)
	CountLiveByUser(ctx context.Context, userID bson.ObjectID) (int64, error)
	List(ctx context.Context, filter FilterAddressesParams, opts model.PageOptions) (*model.Page[model.Address], error)
	Update(ctx context.Context, id bson.ObjectID, params UpdateAddressParams) (*model.Address, error)
	SoftDelete(ctx context.Context, id bson.ObjectID) (DeleteResult, error)
	// SoftDeleteByUser marks every live address of a user deleted; used when
	// the owning user is deleted.
	SoftDeleteByUser(ctx context.Context, userID bson.ObjectID) (DeleteResult, error)
	// Delete physically removes a user's addresses; saga compensation only.
	DeleteByUser(ctx context.Context, userID bson.ObjectID) error
}

// FilterAddressesParams are optional equality matches for listing addresses.
type FilterAddressesParams struct {
	UserID   *bson.ObjectID
	City     *string
	State    *string
	Pincode  *string
	Landmark *string
}

// UpdateAddressParams defines the optional fields of a partial address
// update. Only the fields that are not nil are written.
type UpdateAddressParams struct {
	City         *string
	State        *string
	Pincode      *string
	AddressLine1 *string
	AddressLine2 *string
	Landmark     *string
}

const addressCollection = "address"

type addressMongoRepository struct {
	coll   *mongo.Collection
	cipher *security.FieldCipher
}

func NewAddressMongoRepository(db *mongo.Database, cipher *security.FieldCipher) AddressRepository {
	return &addressMongoRepository{coll: db.Collection(addressCollection), cipher: cipher}
}

func (r *addressMongoRepository) Create(ctx context.Context, address *model.Address) (*model.Address, error) {
	now := time.Now().UTC()
	address.CreatedAt = now
	address.ModifiedAt = now
	address.DeletedAt = nil

	stored := *address
	if err := r.encrypt(&stored); err != nil {
		return nil, err
	}

	result, err := r.coll.InsertOne(ctx, &stored)
	if err != nil {
		return nil, translateErr(err)
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		address.ID = objectID
	}

	return address, nil
}

func (r *addressMongoRepository) Get(ctx context.Context, id bson.ObjectID) (*model.Address, error) {
	result := r.coll.FindOne(ctx, liveFilter(bson.M{"_id": id}))
	if result.Err() != nil {
		return nil, translateErr(result.Err())
	}

	var address model.Address
	if err := result.Decode(&address); err != nil {
		return nil, err
	}
	if err := r.decrypt(&address); err != nil {
		return nil, err
	}

	return &address, nil
}

func (r *addressMongoRepository) ListByUser(ctx context.Context, userID bson.ObjectID) ([]model.Address, error) {
	cursor, err := r.coll.Find(ctx, liveFilter(bson.M{"user_id": userID}))
	if err != nil {
		return nil, translateErr(err)
	}
	defer cursor.Close(ctx)

	return r.decodeAll(ctx, cursor)
}

func (r *addressMongoRepository) CountLiveByUser(ctx context.Context, userID bson.ObjectID) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, liveFilter(bson.M{"user_id": userID}))
	return count, translateErr(err)
}

func (r *addressMongoRepository) List(
	ctx context.Context,
	filter FilterAddressesParams,
	opts model.PageOptions,
) (*model.Page[model.Address], error) {
	query := liveFilter(bson.M{})
	if filter.UserID != nil {
		query["user_id"] = *filter.UserID
	}
	for field, value := range map[string]*string{
		"city":     filter.City,
		"state":    filter.State,
		"pincode":  filter.Pincode,
		"landmark": filter.Landmark,
	} {
		if value == nil {
			continue
		}
		encrypted, err := r.cipher.Encrypt(*value)
		if err != nil {
			return nil, err
		}
		query[field] = encrypted
	}

	opts = opts.Normalized()

	totalRecords, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, translateErr(err)
	}

	cursor, err := r.coll.Find(ctx, query, pageFindOptions(opts))
	if err != nil {
		return nil, translateErr(err)
	}
	defer cursor.Close(ctx)

	addresses, err := r.decodeAll(ctx, cursor)
	if err != nil {
		return nil, err
	}

	return &model.Page[model.Address]{
		Data:       addresses,
		Pagination: model.NewPagination(opts, totalRecords),
	}, nil
}

func (r *addressMongoRepository) Update(
	ctx context.Context,
	id bson.ObjectID,
	params UpdateAddressParams,
) (*model.Address, error) {
	set := bson.M{}
	for field, value := range map[string]*string{
		"city":         params.City,
		"state":        params.State,
		"pincode":      params.Pincode,
		"addressLine1": params.AddressLine1,
		"addressLine2": params.AddressLine2,
		"landmark":     params.Landmark,
	} {
		if value == nil {
			continue
		}
		encrypted, err := r.cipher.Encrypt(*value)
		if err != nil {
			return nil, err
		}
		set[field] = encrypted
	}
	set["modified_dt"] = time.Now().UTC()

	result := r.coll.FindOneAndUpdate(
		ctx,
		liveFilter(bson.M{"_id": id}),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, translateErr(result.Err())
	}

	var address model.Address
	if err := result.Decode(&address); err != nil {
		return nil, err
	}
	if err := r.decrypt(&address); err != nil {
		return nil, err
	}

	return &address, nil
}

func (r *addressMongoRepository) SoftDelete(ctx context.Context, id bson.ObjectID) (DeleteResult, error) {
	return softDelete(ctx, r.coll, bson.M{"_id": id})
}

func (r *addressMongoRepository) SoftDeleteByUser(ctx context.Context, userID bson.ObjectID) (DeleteResult, error) {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"deleted_dt":  now,
		"modified_dt": now,
	}}

	result, err := r.coll.UpdateMany(ctx, liveFilter(bson.M{"user_id": userID}), update)
	if err != nil {
		return DeleteResult{}, translateErr(err)
	}

	return DeleteResult{Matched: result.MatchedCount, Modified: result.ModifiedCount}, nil
}

func (r *addressMongoRepository) DeleteByUser(ctx context.Context, userID bson.ObjectID) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	return translateErr(err)
}

func (r *addressMongoRepository) decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]model.Address, error) {
	addresses := []model.Address{}
	for cursor.Next(ctx) {
		var address model.Address
		if err := cursor.Decode(&address); err != nil {
			return nil, err
		}
		if err := r.decrypt(&address); err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}
	if err := cursor.Err(); err != nil {
		return nil, translateErr(err)
	}

	return addresses, nil
}

func (r *addressMongoRepository) encrypt(address *model.Address) error {
	fields := []*string{
		&address.City, &address.State, &address.Pincode,
		&address.AddressLine1, &address.AddressLine2, &address.Landmark,
	}
	for _, field := range fields {
		if *field == "" {
			continue
		}
		encrypted, err := r.cipher.Encrypt(*field)
		if err != nil {
			return err
		}
		*field = encrypted
	}
	return nil
}

func (r *addressMongoRepository) decrypt(address *model.Address) error {
	fields := []*string{
		&address.City, &address.State, &address.Pincode,
		&address.AddressLine1, &address.AddressLine2, &address.Landmark,
	}
	for _, field := range fields {
		if *field == "" {
			continue
		}
		decrypted, err := r.cipher.Decrypt(*field)
		if err != nil {
			return err
		}
		*field = decrypted
	}
	return nil
}
