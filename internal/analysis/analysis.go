// Package analysis computes spending summaries over extracted records.
package analysis

import (
	"iter"
	"math"
	"sort"
	"time"

	"mmony/momo-csv/internal/models"

	"github.com/shopspring/decimal"
)

// TopPartiesLimit is the number of entries kept in the sender and recipient rankings.
const TopPartiesLimit = 5

// anomalySigma is how many standard deviations above the mean an amount
// must be to count as an anomaly.
const anomalySigma = 3

// PartyTotal is the summed amount exchanged with one counterparty.
type PartyTotal struct {
	Name   string          `json:"name" yaml:"name"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
	Count  int             `json:"count" yaml:"count"`
}

// MonthlyTotal holds the per-category totals of one calendar month.
type MonthlyTotal struct {
	Month  string                              `json:"month" yaml:"month"`
	Totals map[models.Category]decimal.Decimal `json:"totals" yaml:"totals"`
}

// DailyCount is the number of transactions on one day.
type DailyCount struct {
	Date  string `json:"date" yaml:"date"`
	Count int    `json:"count" yaml:"count"`
}

// Anomaly is a transaction whose amount exceeds the anomaly threshold.
type Anomaly struct {
	Category     models.Category  `json:"category" yaml:"category"`
	Amount       decimal.Decimal  `json:"amount" yaml:"amount"`
	OccurredAt   models.Timestamp `json:"occurred_at" yaml:"occurred_at"`
	Counterparty string           `json:"counterparty,omitempty" yaml:"counterparty,omitempty"`
	Key          string           `json:"key" yaml:"key"`
}

// BalancePoint is the running net flow after one transaction. Credits add
// their amount; debits subtract amount plus fee.
type BalancePoint struct {
	Position   int              `json:"position" yaml:"position"`
	OccurredAt models.Timestamp `json:"occurred_at" yaml:"occurred_at"`
	Category   models.Category  `json:"category" yaml:"category"`
	Delta      decimal.Decimal  `json:"delta" yaml:"delta"`
	Balance    decimal.Decimal  `json:"balance" yaml:"balance"`
}

// Report is the full analysis of a record set.
type Report struct {
	Transactions     int                                 `json:"transactions" yaml:"transactions"`
	Totals           map[models.Category]decimal.Decimal `json:"totals" yaml:"totals"`
	TopSenders       []PartyTotal                        `json:"top_senders" yaml:"top_senders"`
	TopRecipients    []PartyTotal                        `json:"top_recipients" yaml:"top_recipients"`
	Monthly          []MonthlyTotal                      `json:"monthly" yaml:"monthly"`
	Frequency        []DailyCount                        `json:"frequency" yaml:"frequency"`
	AnomalyThreshold decimal.Decimal                     `json:"anomaly_threshold" yaml:"anomaly_threshold"`
	Anomalies        []Anomaly                           `json:"anomalies" yaml:"anomalies"`
	Fees             map[models.Category]decimal.Decimal `json:"fees" yaml:"fees"`
	NetFlow          []BalancePoint                      `json:"net_flow" yaml:"net_flow"`
	FinalBalance     decimal.Decimal                     `json:"final_balance" yaml:"final_balance"`
}

// Analyze builds a Report from records in archival order.
func Analyze(records iter.Seq[models.Transaction]) *Report {
	r := &Report{
		Totals: make(map[models.Category]decimal.Decimal),
		Fees:   make(map[models.Category]decimal.Decimal),
	}

	senders := newPartyTally()
	recipients := newPartyTally()
	monthly := make(map[string]map[models.Category]decimal.Decimal)
	daily := make(map[string]int)
	var amounts []float64
	var all []models.Transaction
	balance := decimal.Zero

	for tx := range records {
		c := tx.Common()
		cat := tx.Category()
		r.Transactions++
		all = append(all, tx)

		r.Totals[cat] = r.Totals[cat].Add(c.Amount)
		if !c.Fee.IsZero() {
			r.Fees[cat] = r.Fees[cat].Add(c.Fee)
		}

		switch t := tx.(type) {
		case models.IncomingMoney:
			senders.add(t.Sender, t.Amount)
		case models.TransferToMobile:
			recipients.add(t.Recipient, t.Amount)
		}

		if at, ok := when(c); ok {
			month := at.Format("2006-01")
			if monthly[month] == nil {
				monthly[month] = make(map[models.Category]decimal.Decimal)
			}
			monthly[month][cat] = monthly[month][cat].Add(c.Amount)
			daily[at.Format("2006-01-02")]++
		}

		amounts = append(amounts, c.Amount.InexactFloat64())

		delta := c.Amount.Add(c.Fee).Neg()
		if cat.IsCredit() {
			delta = c.Amount
		}
		balance = balance.Add(delta)
		r.NetFlow = append(r.NetFlow, BalancePoint{
			Position:   len(r.NetFlow),
			OccurredAt: c.OccurredAt,
			Category:   cat,
			Delta:      delta,
			Balance:    balance,
		})
	}

	r.FinalBalance = balance
	r.TopSenders = senders.top(TopPartiesLimit)
	r.TopRecipients = recipients.top(TopPartiesLimit)

	for _, month := range sortedKeys(monthly) {
		r.Monthly = append(r.Monthly, MonthlyTotal{Month: month, Totals: monthly[month]})
	}
	for _, day := range sortedKeys(daily) {
		r.Frequency = append(r.Frequency, DailyCount{Date: day, Count: daily[day]})
	}

	if threshold, ok := anomalyThreshold(amounts); ok {
		r.AnomalyThreshold = decimal.NewFromFloat(threshold).Round(2)
		for i, tx := range all {
			if amounts[i] <= threshold {
				continue
			}
			c := tx.Common()
			r.Anomalies = append(r.Anomalies, Anomaly{
				Category:     tx.Category(),
				Amount:       c.Amount,
				OccurredAt:   c.OccurredAt,
				Counterparty: models.Counterparty(tx),
				Key:          models.NaturalKey(tx),
			})
		}
	}

	return r
}

// when returns the time a transaction is attributed to: its own timestamp,
// or the message arrival time for variants that carry none.
func when(c models.Common) (time.Time, bool) {
	if !c.OccurredAt.IsZero() {
		return c.OccurredAt.Time, true
	}
	if c.ReceivedAt > 0 {
		return time.UnixMilli(c.ReceivedAt).UTC(), true
	}
	return time.Time{}, false
}

// anomalyThreshold is mean + 3 sample standard deviations. It needs at least
// two amounts.
func anomalyThreshold(amounts []float64) (float64, bool) {
	n := len(amounts)
	if n < 2 {
		return 0, false
	}

	var sum float64
	for _, a := range amounts {
		sum += a
	}
	mean := sum / float64(n)

	var sq float64
	for _, a := range amounts {
		sq += (a - mean) * (a - mean)
	}
	stddev := math.Sqrt(sq / float64(n-1))
	return mean + anomalySigma*stddev, true
}

type partyTally struct {
	order  []string
	totals map[string]*PartyTotal
}

func newPartyTally() *partyTally {
	return &partyTally{totals: make(map[string]*PartyTotal)}
}

func (p *partyTally) add(name string, amount decimal.Decimal) {
	pt, ok := p.totals[name]
	if !ok {
		pt = &PartyTotal{Name: name}
		p.totals[name] = pt
		p.order = append(p.order, name)
	}
	pt.Amount = pt.Amount.Add(amount)
	pt.Count++
}

// top ranks parties by total amount, descending. Ties keep first-seen order.
func (p *partyTally) top(n int) []PartyTotal {
	ranked := make([]PartyTotal, 0, len(p.order))
	for _, name := range p.order {
		ranked = append(ranked, *p.totals[name])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount.GreaterThan(ranked[j].Amount)
	})
	return ranked[:min(n, len(ranked))]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
