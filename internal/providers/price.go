package providers

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"coinpulse/internal/models"
)

var coinGeckoIDs = map[models.Asset]string{
	models.AssetBTC:  "bitcoin",
	models.AssetETH:  "ethereum",
	models.AssetSOL:  "solana",
	models.AssetDOGE: "dogecoin",
}

// Quote is a USD spot price. Symbol is the vote item id.
type Quote struct {
	Symbol  models.Asset    `json:"symbol"`
	CoinID  string          `json:"coinId"`
	USD     decimal.Decimal `json:"usd"`
	Display string          `json:"display"`
}

// CoinGecko serves the charts section from the CoinGecko simple price API.
type CoinGecko struct {
	client  *http.Client
	baseURL string
}

func NewCoinGecko(client *http.Client, baseURL string) *CoinGecko {
	return &CoinGecko{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (p *CoinGecko) Section() models.Section { return models.SectionCharts }

func (p *CoinGecko) Fetch(ctx context.Context, req Request) (any, error) {
	ids := make([]string, 0, len(req.Assets))
	for _, a := range req.Assets {
		if id, ok := coinGeckoIDs[a]; ok {
			ids = append(ids, id)
		}
	}
	quotes := make([]Quote, 0, len(ids))
	if len(ids) == 0 {
		return quotes, nil
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", "usd")
	var body map[string]map[string]decimal.Decimal
	if err := getJSON(ctx, p.client, "CoinGecko", p.baseURL+"/simple/price?"+q.Encode(), nil, &body); err != nil {
		return nil, err
	}

	for _, a := range req.Assets {
		id := coinGeckoIDs[a]
		usd, ok := body[id]["usd"]
		if !ok {
			continue
		}
		quotes = append(quotes, Quote{Symbol: a, CoinID: id, USD: usd, Display: FormatUSD(usd)})
	}
	return quotes, nil
}

// FormatUSD renders amount as "$1,234.56". Sub-cent prices keep their
// significant digits since money rounds to cents.
func FormatUSD(amount decimal.Decimal) string {
	if amount.Abs().LessThan(decimal.NewFromFloat(0.01)) && !amount.IsZero() {
		return "$" + amount.String()
	}
	cents := amount.Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}
