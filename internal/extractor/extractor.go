// Package extractor turns a classified message body into a typed
// transaction. Each category has one extraction function; all mandatory
// fields must be captured or the message is reported as a failure naming the
// missing fields.
package extractor

import (
	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/models"
	"mmony/momo-csv/internal/parsererror"
)

// ExtractFunc extracts one category's fields from a body. On failure it
// returns a *parsererror.ExtractionError.
type ExtractFunc func(body string) (models.Transaction, error)

var extractors = map[models.Category]ExtractFunc{
	models.CategoryIncomingMoney:          extractIncomingMoney,
	models.CategoryPaymentToCodeHolder:    extractPaymentToCodeHolder,
	models.CategoryTransferToMobile:       extractTransferToMobile,
	models.CategoryBankDeposit:            extractBankDeposit,
	models.CategoryAirtimeBillPayment:     extractBillPayment,
	models.CategoryCashPowerBillPayment:   extractBillPayment,
	models.CategoryThirdPartyTransaction:  extractThirdParty,
	models.CategoryWithdrawalFromAgent:    extractWithdrawal,
	models.CategoryBankTransfer:           extractBankTransfer,
	models.CategoryInternetBundlePurchase: extractInternetBundle,
	models.CategoryVoiceBundlePurchase:    extractVoiceBundle,
}

// For returns the extraction function registered for category.
func For(category models.Category) (ExtractFunc, bool) {
	fn, ok := extractors[category]
	return fn, ok
}

// Extractor dispatches bodies to the per-category functions.
type Extractor struct {
	logger logging.Logger
}

// New creates an Extractor.
func New(logger logging.Logger) *Extractor {
	return &Extractor{logger: logging.OrDefault(logger)}
}

// Extract runs the extractor registered for category over body.
//
// The bill payment categories share one extractor; the returned variant
// follows the biller keyword in the body and may differ from category, in
// which case a warning is logged.
func (e *Extractor) Extract(category models.Category, body string) (models.Transaction, error) {
	fn, ok := For(category)
	if !ok {
		return nil, &parsererror.ExtractionError{
			Category: string(category),
			Reason:   "no extractor for category",
		}
	}

	tx, err := fn(body)
	if err != nil {
		return nil, err
	}
	if tx.Category() != category {
		e.logger.Warn("Extracted variant differs from classified category",
			logging.Field{Key: logging.FieldCategory, Value: category},
			logging.Field{Key: "variant", Value: tx.Category()})
	}
	return tx, nil
}

// ExtractMessage is Extract for a loaded message; the result carries the
// message arrival time.
func (e *Extractor) ExtractMessage(category models.Category, msg models.RawMessage) (models.Transaction, error) {
	tx, err := e.Extract(category, msg.Body)
	if err != nil {
		return nil, err
	}
	return models.WithReceivedAt(tx, msg.Date), nil
}
