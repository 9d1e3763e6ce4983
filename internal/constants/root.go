package constants

import "time"

// NotificationFrequency represents how often pep talk notifications fire.
type NotificationFrequency string

const (
	AppName            = "peptalk"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/peptalk/peptalk.db"
	Version            = "v0.2.0"

	// TimeFormat is the standard wall-clock format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Frequency constants
	FrequencyDaily      NotificationFrequency = "daily"
	FrequencyTwiceDaily NotificationFrequency = "twice_daily"
	FrequencyCustom     NotificationFrequency = "custom"

	// MaxCustomTimes caps custom notification times per day
	MaxCustomTimes = 3

	// QuoteHistoryCapacity bounds the stored quote history (newest first)
	QuoteHistoryCapacity = 50

	// Notify constants
	NotifierLockfileName   = "peptalk-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.peptalk.buddy"

	// Calendar provider identifiers
	ProviderGoogle = "google"
	ProviderApple  = "apple"

	// RelayTimeout bounds each of the relay's outbound provider calls
	RelayTimeout = 10 * time.Second

	// StateMaxAge is how long a relay state token stays valid
	StateMaxAge = 15 * time.Minute
)
