package riot

// Account is the response of /riot/account/v1/accounts/by-riot-id.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// MatchQuery selects entries of /lol/match/v5/matches/by-puuid/{puuid}/ids.
type MatchQuery struct {
	Start int
	Count int    // 1-100
	Type  string // "ranked", "normal", "tourney", "tutorial"; empty for all
	Queue int    // queue id filter, 0 for all
}

// Regional routing hosts for account-v1 and match-v5.
var regionHosts = map[string]string{
	"americas": "https://americas.api.riotgames.com",
	"europe":   "https://europe.api.riotgames.com",
	"asia":     "https://asia.api.riotgames.com",
	"sea":      "https://sea.api.riotgames.com",
}
