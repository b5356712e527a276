package models

// Asset is a supported coin symbol.
type Asset string

const (
	AssetBTC  Asset = "BTC"
	AssetETH  Asset = "ETH"
	AssetSOL  Asset = "SOL"
	AssetDOGE Asset = "DOGE"
)

// Assets lists every supported symbol in display order.
var Assets = []Asset{AssetBTC, AssetETH, AssetSOL, AssetDOGE}

// Valid reports whether a is a supported symbol.
func (a Asset) Valid() bool {
	for _, s := range Assets {
		if s == a {
			return true
		}
	}
	return false
}

// InvestorType is the category a user picks during onboarding.
type InvestorType string

const (
	InvestorHODLer       InvestorType = "HODLer"
	InvestorDayTrader    InvestorType = "Day Trader"
	InvestorNFTCollector InvestorType = "NFT Collector"
)

var InvestorTypes = []InvestorType{InvestorHODLer, InvestorDayTrader, InvestorNFTCollector}

func (t InvestorType) Valid() bool {
	for _, s := range InvestorTypes {
		if s == t {
			return true
		}
	}
	return false
}

// ContentType is a feed toggle as stored in preferences. The values are the
// labels shown on the onboarding screen.
type ContentType string

const (
	ContentNews   ContentType = "Market News"
	ContentCharts ContentType = "Charts"
	ContentSocial ContentType = "Social"
	ContentFun    ContentType = "Fun"
)

var ContentTypes = []ContentType{ContentNews, ContentCharts, ContentSocial, ContentFun}

func (c ContentType) Valid() bool {
	_, ok := contentSections[c]
	return ok
}

// Section returns the dashboard section the toggle controls.
func (c ContentType) Section() (Section, bool) {
	s, ok := contentSections[c]
	return s, ok
}

// Section identifies one dashboard section. Sections are composed in the
// order of the Sections slice.
type Section string

const (
	SectionNews   Section = "news"
	SectionCharts Section = "charts"
	SectionSocial Section = "social"
	SectionFun    Section = "fun"
)

var Sections = []Section{SectionNews, SectionCharts, SectionSocial, SectionFun}

var contentSections = map[ContentType]Section{
	ContentNews:   SectionNews,
	ContentCharts: SectionCharts,
	ContentSocial: SectionSocial,
	ContentFun:    SectionFun,
}

// ContentType returns the preference toggle that enables s.
func (s Section) ContentType() ContentType {
	for c, sec := range contentSections {
		if sec == s {
			return c
		}
	}
	return ""
}

// FeedbackType is the kind of content a vote applies to.
type FeedbackType string

const (
	FeedbackNews    FeedbackType = "news"
	FeedbackPrice   FeedbackType = "price"
	FeedbackInsight FeedbackType = "insight"
	FeedbackMeme    FeedbackType = "meme"
)

var FeedbackTypes = []FeedbackType{FeedbackNews, FeedbackPrice, FeedbackInsight, FeedbackMeme}

func (f FeedbackType) Valid() bool {
	for _, s := range FeedbackTypes {
		if s == f {
			return true
		}
	}
	return false
}
