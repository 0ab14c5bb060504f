package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned by stores when no row matches.
	ErrNotFound      = errors.New("not found")
	ErrInvalidHandle = errors.New("handle must look like name#tag")
)

// PlayerHandle is what the user typed; case is preserved as entered.
type PlayerHandle struct {
	GameName string
	TagLine  string
}

func (h PlayerHandle) String() string {
	return h.GameName + "#" + h.TagLine
}

// ParseHandle splits "name#tag". Surrounding whitespace is trimmed from
// both parts; neither may be empty.
func ParseHandle(s string) (PlayerHandle, error) {
	name, tag, ok := strings.Cut(s, "#")
	name, tag = strings.TrimSpace(name), strings.TrimSpace(tag)
	if !ok || name == "" || tag == "" {
		return PlayerHandle{}, fmt.Errorf("%w: %q", ErrInvalidHandle, s)
	}
	return PlayerHandle{GameName: name, TagLine: tag}, nil
}

// Player is a resolved identity. GameName and TagLine are the canonical
// spelling returned upstream.
type Player struct {
	Puuid     string    `json:"puuid"`
	GameName  string    `json:"gameName"`
	TagLine   string    `json:"tagLine"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GameStats is one player's derived record for one match, keyed by
// (MatchID, Puuid).
type GameStats struct {
	MatchID  string  `json:"matchId"`
	Puuid    string  `json:"puuid"`
	Champion string  `json:"champion"`
	Role     *string `json:"role"` // teamPosition, nil when upstream sends ""
	Lane     *string `json:"lane"`

	Kills   int     `json:"kills"`
	Deaths  int     `json:"deaths"`
	Assists int     `json:"assists"`
	KDA     float64 `json:"kda"`

	KillParticipation float64 `json:"killParticipation"`
	KillShare         float64 `json:"killShare"`
	DamageShare       float64 `json:"damageShare"`

	DamagePerMin      float64 `json:"damagePerMin"`
	GoldPerMin        float64 `json:"goldPerMin"`
	CS                int     `json:"cs"`
	CSPerMin          float64 `json:"csPerMin"`
	VisionScore       int     `json:"visionScore"`
	VisionPerMin      float64 `json:"visionPerMin"`
	DamageTakenPerMin float64 `json:"damageTakenPerMin"`

	Gold        int `json:"gold"`
	Damage      int `json:"damage"`
	DamageTaken int `json:"damageTaken"`
	DamageToObj int `json:"damageToObjectives"`

	WardsPlaced int `json:"wardsPlaced"`
	WardsKilled int `json:"wardsKilled"`

	TurretKills int `json:"turretKills"`
	DragonKills int `json:"dragonKills"`
	BaronKills  int `json:"baronKills"`
	HeraldKills int `json:"heraldKills"`

	DoubleKills int `json:"doubleKills"`
	TripleKills int `json:"tripleKills"`
	QuadraKills int `json:"quadraKills"`
	PentaKills  int `json:"pentaKills"`

	GameDuration int64   `json:"gameDuration"` // seconds
	Win          bool    `json:"win"`
	ImpactScore  float64 `json:"impactScore"`
	MatchTS      int64   `json:"matchTs"` // unix ms

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PlayerSummary is the aggregate over one validated sample. The rate-derived
// means (AvgDPM, AvgGPM, AvgCSPerMin) and the raw-total means (AvgDamage,
// AvgGold, AvgCS, AvgVisionScore) are accumulated independently.
type PlayerSummary struct {
	Puuid    string  `json:"puuid"`
	GameName string  `json:"gameName"`
	TagLine  string  `json:"tagLine"`
	Region   *string `json:"region"`

	AvgKills       float64 `json:"avgKills"`
	AvgDeaths      float64 `json:"avgDeaths"`
	AvgAssists     float64 `json:"avgAssists"`
	AvgKDA         float64 `json:"avgKda"`
	WinRate        float64 `json:"winRate"` // percent
	AvgDPM         float64 `json:"avgDpm"`
	AvgGPM         float64 `json:"avgGpm"`
	AvgCSPerMin    float64 `json:"avgCsPerMin"`
	AvgImpactScore float64 `json:"avgImpactScore"`

	AvgDamage      float64 `json:"avgDamage"`
	AvgVisionScore float64 `json:"avgVisionScore"`
	AvgCS          float64 `json:"avgCs"`
	AvgGold        float64 `json:"avgGold"`

	MatchesCount int `json:"matchesCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Ingestion terminal reasons. Stable values; they are stored and exported
// as metric labels.
const (
	ReasonOK                     = "ok"
	ReasonAccountNotFound        = "account_not_found"
	ReasonNoMatches              = "no_matches"
	ReasonInsufficientDiscovered = "insufficient_discovered"
	ReasonInsufficientValid      = "insufficient_valid"
	ReasonPersistPlayerFailed    = "persist_player_failed"
	ReasonPersistMatchesFailed   = "persist_matches_failed"
	ReasonPersistSummaryFailed   = "persist_summary_failed"
)

// IngestResult is the whole contract the UI depends on.
type IngestResult struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	ResolvedGameName string `json:"resolvedGameName,omitempty"`
	ResolvedTagLine  string `json:"resolvedTagLine,omitempty"`
	Reason           string `json:"reason"`
	MatchesCount     int    `json:"matchesCount"`
}

// IngestionRun is the audit row written at the end of every run.
type IngestionRun struct {
	ID           string    `json:"id"`
	GameName     string    `json:"gameName"`
	TagLine      string    `json:"tagLine"`
	Puuid        string    `json:"puuid"`
	Success      bool      `json:"success"`
	Reason       string    `json:"reason"`
	Message      string    `json:"message"`
	MatchesCount int       `json:"matchesCount"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
}

type MetricComparison struct {
	Metric string  `json:"metric"`
	Player float64 `json:"player"`
	Rival  float64 `json:"rival"`
	Share  float64 `json:"share"` // player / (player + rival), 0.5 when both are 0
}

type RivalComparison struct {
	Puuid      string             `json:"puuid"`
	RivalPuuid string             `json:"rivalPuuid"`
	Metrics    []MetricComparison `json:"metrics"`
	Edge       float64            `json:"edge"`
}
