package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mathieu-neron/cineflix-go/internal/model"
)

type EventRepo struct {
	coll *mongo.Collection
}

func NewEventRepo(coll *mongo.Collection) *EventRepo {
	return &EventRepo{coll: coll}
}

// Insert appends an analytics event.
func (r *EventRepo) Insert(ctx context.Context, e *model.Event) error {
	_, err := r.coll.InsertOne(ctx, e)
	return classify(err)
}

// TopVideos groups events of the given action since the cutoff by video and
// returns the most frequent first.
func (r *EventRepo) TopVideos(ctx context.Context, action model.Action, since time.Time, limit int) ([]model.VideoCount, error) {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"timestamp": bson.M{"$gte": since},
			"action":    action,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$video_id",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: int64(limit)}},
	}

	cur, err := r.coll.Aggregate(ctx, pipe)
	if err != nil {
		return nil, classify(err)
	}
	defer cur.Close(ctx)

	counts := make([]model.VideoCount, 0)
	if err := cur.All(ctx, &counts); err != nil {
		return nil, classify(err)
	}
	return counts, nil
}

// DeleteBefore removes events older than cutoff and returns how many.
func (r *EventRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"timestamp": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, classify(err)
	}
	return res.DeletedCount, nil
}
