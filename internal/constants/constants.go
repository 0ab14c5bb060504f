package constants

import "time"

const (
	// published upstream quota is higher; 190 leaves headroom
	DefaultRequestBudget = 190
	DefaultRateWindow    = 120 * time.Second
	DefaultRetryAfter    = 5 * time.Second
	RetryAfterPadding    = 1 * time.Second
)

const (
	DefaultMinMatches     = 5
	DefaultAccountBaseURL = "https://americas.api.riotgames.com"
)

var DefaultRegionalBaseURLs = []string{
	"https://americas.api.riotgames.com",
	"https://europe.api.riotgames.com",
	"https://asia.api.riotgames.com",
	"https://sea.api.riotgames.com",
}

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	LeaderboardDefaultLimit = 50
	LeaderboardMaxLimit     = 100
	MatchHistoryLimit       = 20
	RunHistoryLimit         = 10
)
