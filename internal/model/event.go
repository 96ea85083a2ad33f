package model

import "time"

// Action is the kind of content delivery recorded in analytics.
type Action string

const (
	ActionView     Action = "view"
	ActionDownload Action = "download"
)

// Event is an append-only analytics record.
type Event struct {
	EventID   string    `bson:"event_id" json:"eventId"`
	UserID    int64     `bson:"user_id" json:"userId"`
	VideoID   string    `bson:"video_id" json:"videoId"`
	Action    Action    `bson:"action" json:"action"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// VideoCount is one row of the group-by-video aggregation.
type VideoCount struct {
	VideoID string `bson:"_id"`
	Count   int64  `bson:"count"`
}
