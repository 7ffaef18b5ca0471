package features

import "github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/models"

// Keyword sets scanned against the URL. The gambling set is additionally
// scanned against the bare domain.

var phishingKeywords = []string{
	"login", "signin", "verify", "account", "update", "suspend",
	"confirm", "secure", "validate", "authenticate", "credential",
	"password", "security", "alert", "warning", "blocked",
}

var financialKeywords = []string{
	"bank", "paypal", "wallet", "payment", "credit", "debit",
	"transaction", "transfer", "wire", "swift", "iban",
	"crypto", "bitcoin", "ethereum", "blockchain", "invest", "trading",
	"forex", "stock", "profit", "money",
}

var scamKeywords = []string{
	"reward", "prize", "winner", "congratulations", "claim",
	"free", "bonus", "gift", "lottery", "sweepstakes",
	"offer", "limited", "expires", "urgent", "act-now",
	"guaranteed", "risk-free", "no-cost",
}

var gamblingKeywords = []string{
	"bet", "betting", "wager", "gamble", "casino", "poker",
	"slots", "jackpot", "roulette", "blackjack", "odds",
	"rummy", "fantasy", "dream11", "my11", "contest", "league",
	"tournament", "winning", "cash-prize", "real-money", "earn-money",
	"play-win", "prize-pool", "join-contest", "prediction",
	"mpl", "winzo", "paytm-games", "ludo", "carrom", "chess-money",
	"skill-game", "earn-playing", "game-money", "withdraw",
	"1xbet", "betway", "bet365", "10cric", "fairbet", "pure-win",
	"dafabet", "parimatch", "melbet",
}

var malwareKeywords = []string{
	"download", "exe", "install", "plugin", "codec",
	"update-now", "flash", "java", "activex", "setup",
}

var piracyKeywords = []string{
	"crack", "cracked", "keygen", "serial", "patch", "nulled",
	"repack", "repacks", "fitgirl", "dodi", "codex", "skidrow",
	"torrent", "pirate", "warez", "free-download", "full-version",
	"activated", "unlocked", "premium-free", "mod-apk", "hacked",
}

// categoryPrecedence fixes the tie-break order when two categories match
// the same number of keywords: the earlier category wins.
var categoryPrecedence = []string{
	models.RiskTypePhishing,
	models.RiskTypeFinancial,
	models.RiskTypeScam,
	models.RiskTypeGambling,
	models.RiskTypeMalware,
	models.RiskTypePiracy,
}

var keywordSets = map[string][]string{
	models.RiskTypePhishing:  phishingKeywords,
	models.RiskTypeFinancial: financialKeywords,
	models.RiskTypeScam:      scamKeywords,
	models.RiskTypeGambling:  gamblingKeywords,
	models.RiskTypeMalware:   malwareKeywords,
	models.RiskTypePiracy:    piracyKeywords,
}
