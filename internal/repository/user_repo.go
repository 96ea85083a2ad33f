package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mathieu-neron/cineflix-go/internal/model"
)

type UserRepo struct {
	coll *mongo.Collection
}

func NewUserRepo(coll *mongo.Collection) *UserRepo {
	return &UserRepo{coll: coll}
}

// Insert stores a new user. A clash on user_id yields ErrDuplicateKey.
func (r *UserRepo) Insert(ctx context.Context, u *model.User) error {
	_, err := r.coll.InsertOne(ctx, u)
	return classify(err)
}

// FindByUserID returns a single user.
func (r *UserRepo) FindByUserID(ctx context.Context, userID int64) (*model.User, error) {
	var u model.User
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&u); err != nil {
		return nil, classify(err)
	}
	return &u, nil
}

// Touch moves last_active forward to at. $max keeps it monotonic under
// out-of-order writers. It reports whether the user exists.
func (r *UserRepo) Touch(ctx context.Context, userID int64, at time.Time) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$max": bson.M{"last_active": at}},
	)
	if err != nil {
		return false, classify(err)
	}
	return res.MatchedCount > 0, nil
}

// RecordActivity touches last_active and adds exactly one to the watch counter.
func (r *UserRepo) RecordActivity(ctx context.Context, userID int64, at time.Time) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$max": bson.M{"last_active": at},
			"$inc": bson.M{"total_videos_watched": 1},
		},
	)
	if err != nil {
		return false, classify(err)
	}
	return res.MatchedCount > 0, nil
}

// ListActive returns every user that is not banned.
func (r *UserRepo) ListActive(ctx context.Context) ([]model.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{"is_banned": false})
	if err != nil {
		return nil, classify(err)
	}
	defer cur.Close(ctx)

	users := make([]model.User, 0)
	if err := cur.All(ctx, &users); err != nil {
		return nil, classify(err)
	}
	return users, nil
}

// SetBanned bans or unbans a user. Banning stamps banned_at; unbanning
// leaves it in place as a historical marker.
func (r *UserRepo) SetBanned(ctx context.Context, userID int64, banned bool, at time.Time) (bool, error) {
	set := bson.M{"is_banned": banned}
	if banned {
		set["banned_at"] = at
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": set})
	if err != nil {
		return false, classify(err)
	}
	return res.MatchedCount > 0, nil
}

// CountActive counts users that are not banned.
func (r *UserRepo) CountActive(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"is_banned": false})
	return n, classify(err)
}

// CountJoinedSince counts users that joined at or after since.
func (r *UserRepo) CountJoinedSince(ctx context.Context, since time.Time) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"joined_at": bson.M{"$gte": since}})
	return n, classify(err)
}
