package riot

// Account is the response from /riot/account/v1/accounts/by-riot-id.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// Match is the response from /lol/match/v5/matches/{matchId}.
type Match struct {
	Metadata Metadata `json:"metadata"`
	Info     Info     `json:"info"`
}

type Metadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"` // PUUIDs
}

type Info struct {
	GameCreation       int64         `json:"gameCreation"`
	GameStartTimestamp int64         `json:"gameStartTimestamp"` // epoch millis
	GameDuration       int           `json:"gameDuration"`       // seconds
	GameMode           string        `json:"gameMode"`
	GameType           string        `json:"gameType"` // CUSTOM_GAME for lobby customs
	GameVersion        string        `json:"gameVersion"`
	QueueID            int           `json:"queueId"`
	TournamentCode     string        `json:"tournamentCode,omitempty"`
	Participants       []Participant `json:"participants"`
	Teams              []Team        `json:"teams"`
}

// GameStartSeconds converts the millisecond start timestamp to epoch seconds,
// the unit every window comparison uses.
func (i Info) GameStartSeconds() int64 {
	return i.GameStartTimestamp / 1000
}

// Participant carries the per-player counters the extractor reads. Absent
// fields decode to zero values, which double as the output defaults.
type Participant struct {
	ParticipantID  int    `json:"participantId"`
	PUUID          string `json:"puuid"`
	RiotIdGameName string `json:"riotIdGameName"`
	RiotIdTagline  string `json:"riotIdTagline"`
	SummonerName   string `json:"summonerName"`
	ChampionName   string `json:"championName"`
	TeamPosition   string `json:"teamPosition"` // TOP, JUNGLE, MIDDLE, BOTTOM, UTILITY
	TeamID         int    `json:"teamId"`       // 100 blue, 200 red
	Win            bool   `json:"win"`

	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`

	DoubleKills int `json:"doubleKills"`
	TripleKills int `json:"tripleKills"`
	QuadraKills int `json:"quadraKills"`
	PentaKills  int `json:"pentaKills"`

	TotalDamageDealtToChampions    int `json:"totalDamageDealtToChampions"`
	PhysicalDamageDealtToChampions int `json:"physicalDamageDealtToChampions"`
	MagicDamageDealtToChampions    int `json:"magicDamageDealtToChampions"`
	TrueDamageDealtToChampions     int `json:"trueDamageDealtToChampions"`
	TotalDamageTaken               int `json:"totalDamageTaken"`
	DamageSelfMitigated            int `json:"damageSelfMitigated"`

	TotalMinionsKilled   int `json:"totalMinionsKilled"`
	NeutralMinionsKilled int `json:"neutralMinionsKilled"`
	GoldEarned           int `json:"goldEarned"`

	VisionScore             int `json:"visionScore"`
	WardsPlaced             int `json:"wardsPlaced"`
	WardsKilled             int `json:"wardsKilled"`
	VisionWardsBoughtInGame int `json:"visionWardsBoughtInGame"`

	TurretKills             int `json:"turretKills"`
	DamageDealtToTurrets    int `json:"damageDealtToTurrets"`
	DamageDealtToObjectives int `json:"damageDealtToObjectives"`
}

// Team is one side's entry in info.teams.
type Team struct {
	TeamID     int        `json:"teamId"`
	Win        bool       `json:"win"`
	Objectives Objectives `json:"objectives"`
}

// Objectives groups the per-objective counters. "champion" is first blood,
// "horde" is void grubs.
type Objectives struct {
	Champion   Objective `json:"champion"`
	Dragon     Objective `json:"dragon"`
	Baron      Objective `json:"baron"`
	RiftHerald Objective `json:"riftHerald"`
	Horde      Objective `json:"horde"`
	Tower      Objective `json:"tower"`
	Inhibitor  Objective `json:"inhibitor"`
	Atakhan    Objective `json:"atakhan"`
}

// Objective is a single neutral-monster or structure tally.
type Objective struct {
	First bool `json:"first"`
	Kills int  `json:"kills"`
}
