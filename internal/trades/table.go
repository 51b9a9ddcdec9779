package trades

import (
	"fmt"

	"github.com/exchange-ui/backend/internal/models"
)

const timeLayout = "15:04:05"

type Labels struct {
	Price  string
	Amount string
	Time   string
	NoData string
}

func DefaultLabels() Labels {
	return Labels{
		Price:  "page.body.trade.header.recentTrades.content.price",
		Amount: "page.body.trade.header.recentTrades.content.amount",
		Time:   "page.body.trade.header.recentTrades.content.time",
		NoData: "page.noDataToShow",
	}
}

type Cell struct {
	Text  string `json:"text"`
	Color string `json:"color,omitempty"` // buy / sell
}

type Table struct {
	Title   string   `json:"title"`
	Headers []string `json:"headers"`
	Rows    [][]Cell `json:"rows"`
	NoData  bool     `json:"no_data"`
}

func (c *Component) Table() Table {
	t := Table{
		Title:   "page.body.trade.header.recentTrades",
		Headers: c.headers(),
	}

	if len(c.in.Trades) == 0 {
		t.NoData = true
		t.Rows = [][]Cell{{{Text: ""}, {Text: c.labels.NoData}}}
		return t
	}

	var pricePrecision, amountPrecision int32
	if c.in.Market != nil {
		pricePrecision = c.in.Market.PricePrecision
		amountPrecision = c.in.Market.AmountPrecision
	}

	t.Rows = make([][]Cell, 0, len(c.in.Trades))
	for _, tr := range c.in.Trades {
		color := takerColor(tr.TakerType)
		t.Rows = append(t.Rows, []Cell{
			{Text: tr.Price.StringFixed(pricePrecision), Color: color},
			{Text: tr.Volume.StringFixed(amountPrecision), Color: color},
			{Text: tr.CreatedAt.In(c.location).Format(timeLayout), Color: color},
		})
	}
	return t
}

func (c *Component) headers() []string {
	var quote, base string
	if c.in.Market != nil {
		quote = c.in.Market.QuoteLabel()
		base = c.in.Market.BaseLabel()
	}
	return []string{
		fmt.Sprintf("%s (%s)", c.labels.Price, quote),
		fmt.Sprintf("%s (%s)", c.labels.Amount, base),
		c.labels.Time,
	}
}

func takerColor(takerType string) string {
	if takerType == models.TakerTypeSell {
		return models.TakerTypeSell
	}
	return models.TakerTypeBuy
}
