package reputation

// Built-in reputation data. Kept as plain slices/maps so an override file
// can extend them without code changes.

var trustedDomains = []string{
	"google.com", "youtube.com", "gmail.com", "google.co.in", "google.co.uk",
	"facebook.com", "instagram.com", "whatsapp.com", "meta.com",
	"microsoft.com", "office.com", "outlook.com", "live.com", "xbox.com",
	"apple.com", "icloud.com", "itunes.com",
	"amazon.com", "amazon.in", "amazon.co.uk", "aws.amazon.com",
	"twitter.com", "x.com", "linkedin.com", "reddit.com", "discord.com",
	"telegram.org", "signal.org", "snapchat.com", "tiktok.com",
	"github.com", "gitlab.com", "stackoverflow.com", "stackexchange.com",
	"npmjs.com", "pypi.org", "docker.com", "kubernetes.io",
	"wikipedia.org", "wikimedia.org", "scholar.google.com",
	"coursera.org", "udemy.com", "khanacademy.org", "edx.org",
	"bbc.com", "cnn.com", "nytimes.com", "reuters.com", "theguardian.com",
	"paypal.com", "stripe.com", "visa.com", "mastercard.com",
	"netflix.com", "spotify.com", "hulu.com", "primevideo.com",
	"twitch.tv", "soundcloud.com",
	"gov.in", "nic.in", "gov.uk", "usa.gov", "irs.gov",
	"cloudflare.com", "wordpress.com", "medium.com", "zoom.us",
	"slack.com", "notion.so", "figma.com", "canva.com",
	"shopify.com", "flipkart.com", "myntra.com", "meesho.com",
	"hotstar.com", "irctc.co.in", "razorpay.com", "paytm.com",
	"phonepe.com", "openai.com", "anthropic.com", "huggingface.co",
	"example.com", "example.org",
}

var gamblingPlatforms = []string{
	"rummycircle.com", "ace2three.com", "junglee.com", "classicrummy.com",
	"dream11.com", "my11circle.com", "mpl.live", "paytmfirstgames.com",
	"winzo.com", "ballebaazi.com", "howzat.com", "gamezy.com",
	"1xbet.com", "betway.com", "bet365.com", "10cric.com", "dafabet.com",
	"fairbet.com", "pure.win", "parimatch.in", "betfair.com",
	"poker.com", "pokerstars.com", "zynga.com",
	"draftkings.com", "fanduel.com", "caesars.com",
	"bovada.lv", "betonline.ag", "ignition.casino",
	"pokerbaazi.com", "adda52.com", "khelo365.com",
	"rummyculture.com", "rummytime.com", "khelplayrummy.com",
	"addarummy.com", "rummynabob.com", "rummypassion.com",
	"zupee.com", "getmega.com", "firstgames.in",
	"myteam11.com", "playerzpot.com", "halaplay.com", "fantasypower11.com",
	"borgata.com",
}

var tldReputation = map[string]int{
	".tk": 25, ".ml": 25, ".ga": 25, ".cf": 25, ".gq": 25,
	".top": 20, ".xyz": 18, ".club": 18, ".win": 20, ".bid": 20,
	".loan": 22, ".work": 18, ".click": 18, ".download": 20,
	".stream": 18, ".science": 18, ".racing": 18, ".review": 18,
	".trade": 18, ".date": 18, ".party": 18, ".faith": 18,
	".site": 12, ".online": 12, ".store": 10, ".tech": 10,
	".space": 12, ".fun": 12, ".host": 12, ".website": 10,
	".press": 10, ".news": 10, ".live": 10, ".world": 10,
	".com": 0, ".org": 0, ".net": 0, ".edu": 0, ".gov": 0,
	".co.uk": 0, ".co.in": 0, ".de": 0, ".fr": 0, ".jp": 0,
	".au": 0, ".ca": 0, ".us": 0, ".info": 2, ".biz": 3,
	".in": 0,
}
