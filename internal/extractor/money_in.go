package extractor

import (
	"regexp"

	"mmony/momo-csv/internal/models"
)

var (
	incomingAmountRe = regexp.MustCompile(`received (\d[\d,]*) RWF`)
	incomingSenderRe = regexp.MustCompile(`RWF from (.+?) \(`)
	depositAmountRe  = regexp.MustCompile(`deposit of (\d[\d,]*) RWF`)
)

func extractIncomingMoney(body string) (models.Transaction, error) {
	s := newScan(body)
	tx := models.IncomingMoney{
		Amount:     s.amount(incomingAmountRe, fieldAmount),
		Sender:     s.text(incomingSenderRe, fieldSender),
		OccurredAt: s.dateTime(),
		ExternalID: s.text(financialTxIDRe, fieldTransactionID),
	}
	if !s.ok() {
		return nil, s.err(models.CategoryIncomingMoney)
	}
	return tx, nil
}

func extractBankDeposit(body string) (models.Transaction, error) {
	s := newScan(body)
	tx := models.BankDeposit{
		Amount:     s.amount(depositAmountRe, fieldAmount),
		OccurredAt: s.dateTime(),
	}
	if !s.ok() {
		return nil, s.err(models.CategoryBankDeposit)
	}
	return tx, nil
}
