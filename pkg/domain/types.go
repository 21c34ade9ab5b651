package domain

import "time"

// Category is the closed set of catalog categories. Special marks the
// premium tier that is excluded from the standard category tabs and only
// shown in the dedicated premium view.
type Category string

const (
	CategoryCrypto          Category = "Crypto"
	CategoryForex           Category = "Forex"
	CategoryStocks          Category = "Stocks"
	CategoryIndices         Category = "Indices"
	CategoryCommodities     Category = "Commodities"
	CategoryDeFi            Category = "DeFi"
	CategoryNFTMetaverse    Category = "NFT & Metaverse"
	CategoryTokenizedAssets Category = "Tokenized Assets"
	CategoryDigitalBusiness Category = "Digital Business"
	CategoryPsychology      Category = "Psychology"
	CategorySpecial         Category = "Special"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryCrypto,
		CategoryForex,
		CategoryStocks,
		CategoryIndices,
		CategoryCommodities,
		CategoryDeFi,
		CategoryNFTMetaverse,
		CategoryTokenizedAssets,
		CategoryDigitalBusiness,
		CategoryPsychology,
		CategorySpecial,
	}
}

// StandardCategories returns the categories offered in the standard view,
// i.e. everything except Special.
func StandardCategories() []Category {
	all := Categories()
	out := make([]Category, 0, len(all)-1)
	for _, c := range all {
		if c != CategorySpecial {
			out = append(out, c)
		}
	}
	return out
}

// ParseCategory resolves a category string, reporting whether it is known.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

// ParseLevel resolves a level string, reporting whether it is known.
func ParseLevel(s string) (Level, bool) {
	switch Level(s) {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return Level(s), true
	default:
		return "", false
	}
}

// ViewMode selects which slice of the catalog a browse request targets.
type ViewMode string

const (
	ViewStandard ViewMode = "standard"
	ViewPremium  ViewMode = "premium"
)

// Course is a catalog record. Downloads is the working count: the static
// seed count plus any extras accrued locally since deployment.
type Course struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    Category `json:"category"`
	Level       Level    `json:"level"`
	Rating      float64  `json:"rating"`
	Students    int      `json:"students"`
	Downloads   int      `json:"downloads"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
	DownloadURL string   `json:"downloadUrl,omitempty"`
	MaterialKey string   `json:"-"`
}

// ChatRole identifies the author of an advisor transcript entry.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry in the advisor transcript.
type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Checkout is the order summary surfaced when a user starts enrollment.
// Fee is always zero; the total is the course price verbatim.
type Checkout struct {
	CourseID   string  `json:"courseId"`
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	Fee        float64 `json:"fee"`
	Total      float64 `json:"total"`
	PaymentURL string  `json:"paymentUrl"`
}
