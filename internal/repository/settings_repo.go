package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mathieu-neron/cineflix-go/internal/model"
)

type SettingsRepo struct {
	coll *mongo.Collection
}

func NewSettingsRepo(coll *mongo.Collection) *SettingsRepo {
	return &SettingsRepo{coll: coll}
}

// GetOrCreate returns the singleton document, inserting defaults atomically
// when it does not exist yet.
func (r *SettingsRepo) GetOrCreate(ctx context.Context, defaults model.Settings) (*model.Settings, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var s model.Settings
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": model.SettingsID},
		bson.M{"$setOnInsert": settingsDoc(defaults)},
		opts,
	).Decode(&s)
	if err != nil {
		return nil, classify(err)
	}
	return &s, nil
}

// SetField merges one dotted field into the document.
func (r *SettingsRepo) SetField(ctx context.Context, key string, value any) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": model.SettingsID},
		bson.M{"$set": bson.M{key: value}},
	)
	return classify(err)
}

// IncField atomically adds delta to a numeric field.
func (r *SettingsRepo) IncField(ctx context.Context, key string, delta int64) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": model.SettingsID},
		bson.M{"$inc": bson.M{key: delta}},
	)
	return classify(err)
}

// settingsDoc renders s without _id, which is supplied by the upsert filter.
func settingsDoc(s model.Settings) bson.M {
	return bson.M{
		"welcome_message": s.WelcomeMessage,
		"help_message":    s.HelpMessage,
		"features": bson.M{
			"maintenance_mode":      s.Features.MaintenanceMode,
			"new_user_registration": s.Features.NewUserRegistration,
			"broadcast_enabled":     s.Features.BroadcastEnabled,
		},
		"stats": bson.M{
			"total_broadcasts":  s.Stats.TotalBroadcasts,
			"total_videos_sent": s.Stats.TotalVideosSent,
		},
	}
}
