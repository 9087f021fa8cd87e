package extractor

import (
	"regexp"

	"mmony/momo-csv/internal/models"
)

const (
	billerAirtime   = "Airtime"
	billerCashPower = "MTN Cash Power"
)

var (
	billTxIDRe    = regexp.MustCompile(`TxId:(\d+)`)
	billPaymentRe = regexp.MustCompile(`payment of (\d[\d,]*) RWF to (Airtime|MTN Cash Power)\b`)
)

// extractBillPayment serves both bill categories. The output variant comes
// from the biller named in the payment clause.
func extractBillPayment(body string) (models.Transaction, error) {
	s := newScan(body)
	var bp models.BillPayment
	biller := ""
	bp.ExternalID = s.text(billTxIDRe, fieldTransactionID)
	if m := s.find(billPaymentRe, fieldAmount, fieldBiller); m != nil {
		bp.Amount = s.parseAmount(m[1], fieldAmount)
		biller = m[2]
	}
	bp.OccurredAt = s.dateTime()
	bp.Fee = s.fee()
	if !s.ok() {
		category := models.CategoryAirtimeBillPayment
		if biller == billerCashPower {
			category = models.CategoryCashPowerBillPayment
		}
		return nil, s.err(category)
	}
	if biller == billerCashPower {
		return models.CashPowerBillPayment{BillPayment: bp}, nil
	}
	return models.AirtimeBillPayment{BillPayment: bp}, nil
}
