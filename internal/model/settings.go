package model

// SettingsID is the fixed key of the singleton settings document.
const SettingsID = "config"

// Settings is the mutable bot configuration document.
type Settings struct {
	ID             string        `bson:"_id" json:"-"`
	WelcomeMessage string        `bson:"welcome_message" json:"welcome_message"`
	HelpMessage    string        `bson:"help_message" json:"help_message"`
	Features       Features      `bson:"features" json:"features"`
	Stats          SettingsStats `bson:"stats" json:"stats"`
}

type Features struct {
	MaintenanceMode     bool `bson:"maintenance_mode" json:"maintenance_mode"`
	NewUserRegistration bool `bson:"new_user_registration" json:"new_user_registration"`
	BroadcastEnabled    bool `bson:"broadcast_enabled" json:"broadcast_enabled"`
}

type SettingsStats struct {
	TotalBroadcasts int64 `bson:"total_broadcasts" json:"total_broadcasts"`
	TotalVideosSent int64 `bson:"total_videos_sent" json:"total_videos_sent"`
}

// Settings keys accepted by SettingsService.Set and Increment.
const (
	SettingWelcomeMessage      = "welcome_message"
	SettingHelpMessage         = "help_message"
	SettingMaintenanceMode     = "features.maintenance_mode"
	SettingNewUserRegistration = "features.new_user_registration"
	SettingBroadcastEnabled    = "features.broadcast_enabled"
	SettingTotalBroadcasts     = "stats.total_broadcasts"
	SettingTotalVideosSent     = "stats.total_videos_sent"
)

// DefaultSettings returns the document created on first access.
func DefaultSettings() Settings {
	return Settings{
		ID: SettingsID,
		Features: Features{
			MaintenanceMode:     false,
			NewUserRegistration: true,
			BroadcastEnabled:    true,
		},
	}
}
