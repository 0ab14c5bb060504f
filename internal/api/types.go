package api

// AccountResponse is account-v1 by-riot-id. The name and tag are the
// canonical capitalisation, which may differ from what the user typed.
type AccountResponse struct {
	Puuid    string `json:"puuid" validate:"required"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// MatchResponse is match-v5. Nothing here is validated on decode: a missing
// duration is skipped by the analyzer and a participant without a team just
// drops out of the team totals.
type MatchResponse struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

type MatchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

type MatchInfo struct {
	GameDuration       *int64        `json:"gameDuration"` // seconds
	GameCreation       int64         `json:"gameCreation"`
	GameStartTimestamp int64         `json:"gameStartTimestamp"`
	GameMode           string        `json:"gameMode"`
	QueueID            int           `json:"queueId"`
	Participants       []Participant `json:"participants"`
}

type Participant struct {
	Puuid          string `json:"puuid"`
	RiotIDGameName string `json:"riotIdGameName"`
	RiotIDTagline  string `json:"riotIdTagline"`
	ChampionName   string `json:"championName"`
	TeamID         int    `json:"teamId"` // 0 when upstream omits it
	Win            bool   `json:"win"`

	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`

	TotalMinionsKilled          int `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int `json:"neutralMinionsKilled"`
	GoldEarned                  int `json:"goldEarned"`
	TotalDamageDealtToChampions int `json:"totalDamageDealtToChampions"`
	TotalDamageTaken            int `json:"totalDamageTaken"`
	DamageDealtToObjectives     int `json:"damageDealtToObjectives"`

	VisionScore int `json:"visionScore"`
	WardsPlaced int `json:"wardsPlaced"`
	WardsKilled int `json:"wardsKilled"`

	TurretKills     int `json:"turretKills"`
	DragonKills     int `json:"dragonKills"`
	BaronKills      int `json:"baronKills"`
	RiftHeraldKills int `json:"riftHeraldKills"`

	DoubleKills int `json:"doubleKills"`
	TripleKills int `json:"tripleKills"`
	QuadraKills int `json:"quadraKills"`
	PentaKills  int `json:"pentaKills"`

	TeamPosition string `json:"teamPosition"`
	Lane         string `json:"lane"`
}

func (m *MatchResponse) Participant(puuid string) (*Participant, bool) {
	for i := range m.Info.Participants {
		if m.Info.Participants[i].Puuid == puuid {
			return &m.Info.Participants[i], true
		}
	}
	return nil, false
}

// StartedAt prefers gameStartTimestamp and falls back to gameCreation (ms).
func (m *MatchResponse) StartedAt() int64 {
	if m.Info.GameStartTimestamp != 0 {
		return m.Info.GameStartTimestamp
	}
	return m.Info.GameCreation
}
