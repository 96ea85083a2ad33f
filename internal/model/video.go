package model

import "time"

// Category classifies a catalog entry. Values are part of the stored contract.
type Category string

const (
	CategoryAdult  Category = "adult"
	CategoryMovie  Category = "movie"
	CategorySeries Category = "series"
	CategoryOther  Category = "other"
)

// ReportedCategories is the fixed category set counted by the stats snapshot.
var ReportedCategories = []Category{CategoryAdult, CategoryMovie, CategorySeries}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryAdult, CategoryMovie, CategorySeries, CategoryOther:
		return true
	}
	return false
}

// VideoStatus is the lifecycle state of a video. It only moves active -> deleted.
type VideoStatus string

const (
	StatusActive  VideoStatus = "active"
	StatusDeleted VideoStatus = "deleted"
)

// Video is a catalog record. VideoID is immutable and unique across all statuses.
type Video struct {
	VideoID     string      `bson:"video_id" json:"videoId" validate:"required,max=64"`
	Title       string      `bson:"title" json:"title" validate:"required,max=200"`
	Category    Category    `bson:"category" json:"category" validate:"required,oneof=adult movie series other"`
	Database    int64       `bson:"database" json:"database"`
	MessageID   int64       `bson:"message_id,omitempty" json:"messageId,omitempty"`
	FileName    string      `bson:"file_name,omitempty" json:"fileName,omitempty" validate:"max=100"`
	Season      *int        `bson:"season,omitempty" json:"season,omitempty" validate:"omitempty,gt=0"`
	Episode     *int        `bson:"episode,omitempty" json:"episode,omitempty" validate:"omitempty,gt=0"`
	FileSize    *int64      `bson:"file_size,omitempty" json:"fileSize,omitempty" validate:"omitempty,gte=0"`
	Duration    *int64      `bson:"duration,omitempty" json:"duration,omitempty" validate:"omitempty,gte=0"`
	Views       int64       `bson:"views" json:"views"`
	Downloads   int64       `bson:"downloads" json:"downloads"`
	Status      VideoStatus `bson:"status" json:"status"`
	AddedAt     time.Time   `bson:"added_at" json:"addedAt"`
	LastUpdated time.Time   `bson:"last_updated" json:"lastUpdated"`
	DeletedAt   *time.Time  `bson:"deleted_at,omitempty" json:"deletedAt,omitempty"`
}

// VideoUpdate is a partial update. Nil fields are left untouched.
type VideoUpdate struct {
	Title    *string   `json:"title,omitempty"`
	Category *Category `json:"category,omitempty"`
	Database *int64    `json:"database,omitempty"`
	Season   *int      `json:"season,omitempty"`
	Episode  *int      `json:"episode,omitempty"`
	FileSize *int64    `json:"fileSize,omitempty"`
	Duration *int64    `json:"duration,omitempty"`
}

// Fields returns the set fields keyed by their stored names.
func (u VideoUpdate) Fields() map[string]any {
	fields := make(map[string]any)
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Category != nil {
		fields["category"] = string(*u.Category)
	}
	if u.Database != nil {
		fields["database"] = *u.Database
	}
	if u.Season != nil {
		fields["season"] = *u.Season
	}
	if u.Episode != nil {
		fields["episode"] = *u.Episode
	}
	if u.FileSize != nil {
		fields["file_size"] = *u.FileSize
	}
	if u.Duration != nil {
		fields["duration"] = *u.Duration
	}
	return fields
}

// Apply merges the set fields into v.
func (u VideoUpdate) Apply(v *Video) {
	if u.Title != nil {
		v.Title = *u.Title
	}
	if u.Category != nil {
		v.Category = *u.Category
	}
	if u.Database != nil {
		v.Database = *u.Database
	}
	if u.Season != nil {
		s := *u.Season
		v.Season = &s
	}
	if u.Episode != nil {
		e := *u.Episode
		v.Episode = &e
	}
	if u.FileSize != nil {
		fs := *u.FileSize
		v.FileSize = &fs
	}
	if u.Duration != nil {
		d := *u.Duration
		v.Duration = &d
	}
}

// Counter names a monotonically increasing video counter.
type Counter string

const (
	CounterViews     Counter = "views"
	CounterDownloads Counter = "downloads"
)

// PopularVideo is a catalog record ranked by analytics view events.
type PopularVideo struct {
	Video
	RequestCount int64 `bson:"request_count" json:"requestCount"`
}

// StoreMap maps a category to the backing channel that holds its media.
type StoreMap map[Category]int64

// For returns the backing channel for c, falling back to the movie channel.
func (m StoreMap) For(c Category) int64 {
	if id, ok := m[c]; ok && id != 0 {
		return id
	}
	return m[CategoryMovie]
}
