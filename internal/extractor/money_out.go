package extractor

import (
	"regexp"

	"mmony/momo-csv/internal/models"
)

var (
	codePaymentTxIDRe      = regexp.MustCompile(`TxId:\s*(\d+)`)
	codePaymentAmountRe    = regexp.MustCompile(`payment\s+of\s+(\d[\d,]*)\s+RWF`)
	codePaymentRecipientRe = regexp.MustCompile(`\bto (.+?) (\d+)\b`)

	mobileAmountRe    = regexp.MustCompile(`(\d[\d,]*) RWF transferred to`)
	mobileRecipientRe = regexp.MustCompile(`transferred to (.+?) \((250\d+)\)`)

	thirdPartyRe = regexp.MustCompile(`A transaction of (\d[\d,]*) RWF by (.+?) on your MOMO account`)

	withdrawalHolderRe = regexp.MustCompile(`^You (.+?)\s*\(\*+\d+\) have via agent:`)
	withdrawalAgentRe  = regexp.MustCompile(`have via agent: (.+?) \((\d+)\)`)
	withdrawalAmountRe = regexp.MustCompile(`withdrawn (\d[\d,]*) RWF`)

	bankTransferAmountRe    = regexp.MustCompile(`^You have transferred (\d[\d,]*) RWF`)
	bankTransferRecipientRe = regexp.MustCompile(`RWF to (.+?)(?: \(\d+\))? from your`)
)

func extractPaymentToCodeHolder(body string) (models.Transaction, error) {
	s := newScan(body)
	tx := models.PaymentToCodeHolder{
		ExternalID: s.text(codePaymentTxIDRe, fieldTransactionID),
		Amount:     s.amount(codePaymentAmountRe, fieldAmount),
	}
	if m := s.find(codePaymentRecipientRe, fieldRecipient, fieldRecipientCode); m != nil {
		tx.Recipient, tx.RecipientCode = m[1], m[2]
	}
	tx.OccurredAt = s.dateTime()
	if !s.ok() {
		return nil, s.err(models.CategoryPaymentToCodeHolder)
	}
	return tx, nil
}

func extractTransferToMobile(body string) (models.Transaction, error) {
	s := newScan(body)
	tx := models.TransferToMobile{
		Amount: s.amount(mobileAmountRe, fieldAmount),
	}
	if m := s.find(mobileRecipientRe, fieldRecipient, fieldRecipientPhone); m != nil {
		tx.Recipient, tx.RecipientPhone = m[1], m[2]
	}
	tx.OccurredAt = s.dateTime()
	tx.Fee = s.fee()
	if !s.ok() {
		return nil, s.err(models.CategoryTransferToMobile)
	}
	return tx, nil
}

func extractThirdParty(body string) (models.Transaction, error) {
	s := newScan(body)
	var tx models.ThirdPartyTransaction
	if m := s.find(thirdPartyRe, fieldAmount, fieldInitiator); m != nil {
		tx.Amount = s.parseAmount(m[1], fieldAmount)
		tx.Initiator = m[2]
	}
	tx.OccurredAt = s.dateTime()
	tx.ExternalID = s.text(financialTxIDRe, fieldTransactionID)
	if !s.ok() {
		return nil, s.err(models.CategoryThirdPartyTransaction)
	}
	return tx, nil
}

// extractWithdrawal treats the account holder name as free text between
// "You " and the masked account number.
func extractWithdrawal(body string) (models.Transaction, error) {
	s := newScan(body)
	tx := models.WithdrawalFromAgent{
		AccountHolderName: s.text(withdrawalHolderRe, fieldAccountHolder),
	}
	if m := s.find(withdrawalAgentRe, fieldAgent); m != nil {
		tx.AgentName, tx.AgentNumber = m[1], m[2]
	}
	tx.Amount = s.amount(withdrawalAmountRe, fieldAmount)
	tx.OccurredAt = s.dateTime()
	if !s.ok() {
		return nil, s.err(models.CategoryWithdrawalFromAgent)
	}
	return tx, nil
}

func extractBankTransfer(body string) (models.Transaction, error) {
	s := newScan(body)
	tx := models.BankTransfer{
		Amount:     s.amount(bankTransferAmountRe, fieldAmount),
		Recipient:  s.text(bankTransferRecipientRe, fieldRecipient),
		OccurredAt: s.dateTime(),
	}
	if !s.ok() {
		return nil, s.err(models.CategoryBankTransfer)
	}
	return tx, nil
}
