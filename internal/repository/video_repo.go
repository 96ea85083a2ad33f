package repository

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mathieu-neron/cineflix-go/internal/model"
)

type VideoRepo struct {
	coll *mongo.Collection
}

func NewVideoRepo(coll *mongo.Collection) *VideoRepo {
	return &VideoRepo{coll: coll}
}

// Insert stores a new video. A clash on video_id yields ErrDuplicateKey.
func (r *VideoRepo) Insert(ctx context.Context, v *model.Video) error {
	_, err := r.coll.InsertOne(ctx, v)
	return classify(err)
}

// FindActive returns the active video with the given id.
func (r *VideoRepo) FindActive(ctx context.Context, videoID string) (*model.Video, error) {
	var v model.Video
	err := r.coll.FindOne(ctx, bson.M{"video_id": videoID, "status": model.StatusActive}).Decode(&v)
	if err != nil {
		return nil, classify(err)
	}
	return &v, nil
}

// ListActive returns active videos newest first, optionally for one category.
func (r *VideoRepo) ListActive(ctx context.Context, category model.Category, limit int) ([]model.Video, error) {
	filter := bson.M{"status": model.StatusActive}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "added_at", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, filter, opts)
}

// Update sets the given fields and last_updated. It reports whether a
// document was modified.
func (r *VideoRepo) Update(ctx context.Context, videoID string, upd model.VideoUpdate, at time.Time) (bool, error) {
	set := bson.M{"last_updated": at}
	for k, v := range upd.Fields() {
		set[k] = v
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"video_id": videoID}, bson.M{"$set": set})
	if err != nil {
		return false, classify(err)
	}
	return res.ModifiedCount > 0, nil
}

// SoftDelete marks an active video deleted. Deleting twice reports false the
// second time and keeps the original deleted_at.
func (r *VideoRepo) SoftDelete(ctx context.Context, videoID string, at time.Time) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"video_id": videoID, "status": model.StatusActive},
		bson.M{"$set": bson.M{"status": model.StatusDeleted, "deleted_at": at}},
	)
	if err != nil {
		return false, classify(err)
	}
	return res.ModifiedCount > 0, nil
}

// Increment atomically adds one to a counter.
func (r *VideoRepo) Increment(ctx context.Context, videoID string, counter model.Counter) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"video_id": videoID},
		bson.M{"$inc": bson.M{string(counter): 1}},
	)
	return classify(err)
}

// SearchTitle matches text as a case-insensitive literal substring of the
// title. Order is the store's natural order.
func (r *VideoRepo) SearchTitle(ctx context.Context, text string, limit int) ([]model.Video, error) {
	filter := bson.M{
		"title":  primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"},
		"status": model.StatusActive,
	}
	return r.find(ctx, filter, options.Find().SetLimit(int64(limit)))
}

// CountActive counts active videos, optionally for one category.
func (r *VideoRepo) CountActive(ctx context.Context, category model.Category) (int64, error) {
	filter := bson.M{"status": model.StatusActive}
	if category != "" {
		filter["category"] = category
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	return n, classify(err)
}

// CountAddedSince counts active videos added at or after since.
func (r *VideoRepo) CountAddedSince(ctx context.Context, since time.Time) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{
		"status":   model.StatusActive,
		"added_at": bson.M{"$gte": since},
	})
	return n, classify(err)
}

// TopViewedSince returns active videos added since the cutoff, ranked by the
// stored view counter.
func (r *VideoRepo) TopViewedSince(ctx context.Context, since time.Time, limit int) ([]model.Video, error) {
	filter := bson.M{
		"status":   model.StatusActive,
		"added_at": bson.M{"$gte": since},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "views", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, filter, opts)
}

func (r *VideoRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.Video, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, classify(err)
	}
	defer cur.Close(ctx)

	videos := make([]model.Video, 0)
	if err := cur.All(ctx, &videos); err != nil {
		return nil, classify(err)
	}
	return videos, nil
}
