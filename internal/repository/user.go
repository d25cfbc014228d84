package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/kashvicrafts/storefront-api/internal/model"
	"github.com/kashvicrafts/storefront-api/internal/security"
)

// UserRepository defines the user store. All reads return decrypted PII;
// all lookups by email or mobile match against the encrypted value.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	Get(ctx context.Context, id bson.ObjectID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByMobile(ctx context.Context, mobile string) (*model.User, error)
	GetByResetToken(ctx context.Context, token string) (*model.User, error)
	List(ctx context.Context, filter FilterUsersParams, opts model.PageOptions) (*model.Page[model.User], error)
	Update(ctx context.Context, id bson.ObjectID, params UpdateUserParams) (*model.User, error)
	UpdateResetToken(ctx context.Context, email string, token *string, expiresAt *time.Time) error
	UpdatePasswordAndClearResetToken(ctx context.Context, id bson.ObjectID, passwordHash string) error
	SoftDelete(ctx context.Context, id bson.ObjectID) (DeleteResult, error)
	// Delete physically removes a document. It exists only so a saga can
	// roll back a creation that should never have been observable.
	Delete(ctx context.Context, id bson.ObjectID) error
}

// FilterUsersParams are optional equality matches for listing users.
type FilterUsersParams struct {
	FullName *string
	Email    *string
	Mobile   *string
}

// UpdateUserParams defines the optional fields of a partial user update.
// Only the fields that are not nil are written. Password must already be
// hashed by the caller.
type UpdateUserParams struct {
	FullName *string
	Email    *string
	Mobile   *string
	Password *string
}

const userCollection = "users"

type userMongoRepository struct {
	coll   *mongo.Collection
	cipher *security.FieldCipher
}

// NewUserMongoRepository builds the user store and creates the unique
// indexes that make the storage layer the authority for email and mobile
// uniqueness among live users.
func NewUserMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
	cipher *security.FieldCipher,
) UserRepository {
	coll := db.Collection(userCollection)

	liveOnly := bson.M{"deleted_dt": bson.M{"$type": "null"}}
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(liveOnly),
		},
		{
			Keys:    bson.D{{Key: "mobile", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(liveOnly),
		},
		{
			Keys: bson.D{{Key: "resetToken", Value: 1}},
		},
	}

	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{coll: coll, cipher: cipher}
}

func (r *userMongoRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.ModifiedAt = now
	user.DeletedAt = nil

	stored := *user
	if err := r.encrypt(&stored); err != nil {
		return nil, err
	}

	result, err := r.coll.InsertOne(ctx, &stored)
	if err != nil {
		return nil, translateErr(err)
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	}

	return user, nil
}

func (r *userMongoRepository) Get(ctx context.Context, id bson.ObjectID) (*model.User, error) {
	return r.findOne(ctx, liveFilter(bson.M{"_id": id}))
}

func (r *userMongoRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	encrypted, err := r.cipher.Encrypt(email)
	if err != nil {
		return nil, err
	}

	return r.findOne(ctx, liveFilter(bson.M{"email": encrypted}))
}

func (r *userMongoRepository) GetByMobile(ctx context.Context, mobile string) (*model.User, error) {
	encrypted, err := r.cipher.Encrypt(mobile)
	if err != nil {
		return nil, err
	}

	return r.findOne(ctx, liveFilter(bson.M{"mobile": encrypted}))
}

func (r *userMongoRepository) GetByResetToken(ctx context.Context, token string) (*model.User, error) {
	return r.findOne(ctx, liveFilter(bson.M{"resetToken": token}))
}

func (r *userMongoRepository) List(
	ctx context.Context,
	filter FilterUsersParams,
	opts model.PageOptions,
) (*model.Page[model.User], error) {
	query := liveFilter(bson.M{})
	if filter.FullName != nil {
		encrypted, err := r.cipher.Encrypt(*filter.FullName)
		if err != nil {
			return nil, err
		}
		query["full_name"] = encrypted
	}
	if filter.Email != nil {
		encrypted, err := r.cipher.Encrypt(*filter.Email)
		if err != nil {
			return nil, err
		}
		query["email"] = encrypted
	}
	if filter.Mobile != nil {
		encrypted, err := r.cipher.Encrypt(*filter.Mobile)
		if err != nil {
			return nil, err
		}
		query["mobile"] = encrypted
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

	users := []model.User{}
	for cursor.Next(ctx) {
		var user model.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		if err := r.decrypt(&user); err != nil {
			return nil, err
		}
		user.Password = ""
		users = append(users, user)
	}
	if err := cursor.Err(); err != nil {
		return nil, translateErr(err)
	}

	return &model.Page[model.User]{
		Data:       users,
		Pagination: model.NewPagination(opts, totalRecords),
	}, nil
}

func (r *userMongoRepository) Update(
	ctx context.Context,
	id bson.ObjectID,
	params UpdateUserParams,
) (*model.User, error) {
	set := bson.M{}
	if params.FullName != nil {
		encrypted, err := r.cipher.Encrypt(*params.FullName)
		if err != nil {
			return nil, err
		}
		set["full_name"] = encrypted
	}
	if params.Email != nil {
		encrypted, err := r.cipher.Encrypt(*params.Email)
		if err != nil {
			return nil, err
		}
		set["email"] = encrypted
	}
	if params.Mobile != nil {
		encrypted, err := r.cipher.Encrypt(*params.Mobile)
		if err != nil {
			return nil, err
		}
		set["mobile"] = encrypted
	}
	if params.Password != nil {
		set["password"] = *params.Password
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

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}
	if err := r.decrypt(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) UpdateResetToken(
	ctx context.Context,
	email string,
	token *string,
	expiresAt *time.Time,
) error {
	encrypted, err := r.cipher.Encrypt(email)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"resetToken":        token,
		"resetTokenExpires": expiresAt,
		"modified_dt":       time.Now().UTC(),
	}}

	result, err := r.coll.UpdateOne(ctx, liveFilter(bson.M{"email": encrypted}), update)
	if err != nil {
		return translateErr(err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

// UpdatePasswordAndClearResetToken writes the new password hash and removes
// the reset token in a single update, so the token cannot survive a
// successful password change.
func (r *userMongoRepository) UpdatePasswordAndClearResetToken(
	ctx context.Context,
	id bson.ObjectID,
	passwordHash string,
) error {
	update := bson.M{
		"$set": bson.M{
			"password":    passwordHash,
			"modified_dt": time.Now().UTC(),
		},
		"$unset": bson.M{
			"resetToken":        "",
			"resetTokenExpires": "",
		},
	}

	result, err := r.coll.UpdateOne(ctx, liveFilter(bson.M{"_id": id}), update)
	if err != nil {
		return translateErr(err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *userMongoRepository) SoftDelete(ctx context.Context, id bson.ObjectID) (DeleteResult, error) {
	return softDelete(ctx, r.coll, bson.M{"_id": id})
}

func (r *userMongoRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return translateErr(err)
}

func (r *userMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	result := r.coll.FindOne(ctx, filter)
	if result.Err() != nil {
		return nil, translateErr(result.Err())
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}
	if err := r.decrypt(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) encrypt(user *model.User) error {
	var err error
	if user.FullName, err = r.cipher.Encrypt(user.FullName); err != nil {
		return err
	}
	if user.Email, err = r.cipher.Encrypt(user.Email); err != nil {
		return err
	}
	if user.Mobile, err = r.cipher.Encrypt(user.Mobile); err != nil {
		return err
	}
	return nil
}

func (r *userMongoRepository) decrypt(user *model.User) error {
	var err error
	if user.FullName, err = r.cipher.Decrypt(user.FullName); err != nil {
		return err
	}
	if user.Email, err = r.cipher.Decrypt(user.Email); err != nil {
		return err
	}
	if user.Mobile, err = r.cipher.Decrypt(user.Mobile); err != nil {
		return err
	}
	return nil
}
