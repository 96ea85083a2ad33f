package model

import "time"

// DefaultLanguage is assigned to users on first contact.
const DefaultLanguage = "bangla"

// User is a registered bot user keyed by platform user id.
type User struct {
	UserID             int64      `bson:"user_id" json:"userId"`
	Username           string     `bson:"username,omitempty" json:"username,omitempty"`
	FirstName          string     `bson:"first_name,omitempty" json:"firstName,omitempty"`
	JoinedAt           time.Time  `bson:"joined_at" json:"joinedAt"`
	LastActive         time.Time  `bson:"last_active" json:"lastActive"`
	IsBanned           bool       `bson:"is_banned" json:"isBanned"`
	BannedAt           *time.Time `bson:"banned_at,omitempty" json:"bannedAt,omitempty"`
	TotalVideosWatched int64      `bson:"total_videos_watched" json:"totalVideosWatched"`
	Language           string     `bson:"language" json:"language"`
}

// Profile carries the optional display fields seen on contact.
type Profile struct {
	Username  string `json:"username,omitempty"`
	FirstName string `json:"firstName,omitempty"`
}

// ContactResult tells whether UpsertOnContact created the user.
type ContactResult string

const (
	ContactCreated  ContactResult = "created"
	ContactExisting ContactResult = "existing"
)

// StatsSnapshot is the admin summary. All counts are computed per call.
type StatsSnapshot struct {
	TotalUsers     int64   `json:"total_users"`
	TotalVideos    int64   `json:"total_videos"`
	AdultVideos    int64   `json:"adult_videos"`
	MovieVideos    int64   `json:"movie_videos"`
	SeriesVideos   int64   `json:"series_videos"`
	NewUsersToday  int64   `json:"new_users_today"`
	NewVideosToday int64   `json:"new_videos_today"`
	TopVideos      []Video `json:"top_videos"`
}
