package extractor

import (
	"regexp"
	"strconv"

	"mmony/momo-csv/internal/models"
	"mmony/momo-csv/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Field names used in failure reasons.
const (
	fieldAmount         = "amount"
	fieldSender         = "sender"
	fieldRecipient      = "recipient"
	fieldRecipientCode  = "recipient code"
	fieldRecipientPhone = "recipient phone"
	fieldDateTime       = "date/time"
	fieldTransactionID  = "transaction id"
	fieldFee            = "fee"
	fieldBiller         = "biller"
	fieldInitiator      = "initiator"
	fieldAccountHolder  = "account holder"
	fieldAgent          = "agent"
	fieldBundleSize     = "bundle size"
	fieldMinutes        = "minutes"
	fieldSMSCount       = "sms count"
)

var (
	dateTimeRe      = regexp.MustCompile(`\bat (\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)
	financialTxIDRe = regexp.MustCompile(`Financial Transaction Id: (\d+)`)
	feeRe           = regexp.MustCompile(`Fee was:? (\d[\d,]*) RWF`)
)

// scan runs independent captures over one body and remembers which
// mandatory fields could not be found.
type scan struct {
	body    string
	missing []string
}

func newScan(body string) *scan {
	return &scan{body: body}
}

func (s *scan) miss(field string) {
	for _, f := range s.missing {
		if f == field {
			return
		}
	}
	s.missing = append(s.missing, field)
}

// find returns the submatches of re, or nil after marking every field in
// fields as missing.
func (s *scan) find(re *regexp.Regexp, fields ...string) []string {
	m := re.FindStringSubmatch(s.body)
	if m == nil {
		for _, f := range fields {
			s.miss(f)
		}
	}
	return m
}

// text returns capture group 1 of re.
func (s *scan) text(re *regexp.Regexp, field string) string {
	if m := s.find(re, field); m != nil {
		return m[1]
	}
	return ""
}

func (s *scan) amount(re *regexp.Regexp, field string) decimal.Decimal {
	m := s.find(re, field)
	if m == nil {
		return decimal.Zero
	}
	return s.parseAmount(m[1], field)
}

func (s *scan) parseAmount(raw, field string) decimal.Decimal {
	d, err := models.ParseAmount(raw)
	if err != nil {
		s.miss(field)
		return decimal.Zero
	}
	return d
}

func (s *scan) integer(raw, field string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		s.miss(field)
		return 0
	}
	return n
}

// dateTime captures the "at YYYY-MM-DD HH:MM:SS" clause. A value that does
// not parse as a calendar time counts as missing.
func (s *scan) dateTime() models.Timestamp {
	raw := s.text(dateTimeRe, fieldDateTime)
	if raw == "" {
		return models.Timestamp{}
	}
	ts, err := models.ParseTimestamp(raw)
	if err != nil {
		s.miss(fieldDateTime)
		return models.Timestamp{}
	}
	return ts
}

func (s *scan) fee() decimal.Decimal {
	return s.amount(feeRe, fieldFee)
}

func (s *scan) ok() bool {
	return len(s.missing) == 0
}

func (s *scan) err(category models.Category) error {
	return parsererror.NewMissingFieldsError(string(category), s.missing...)
}
