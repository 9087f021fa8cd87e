package models

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Transaction is the tagged variant produced by the extractors. Consumers
// switch on the concrete type; Common exposes the fields every variant shares.
type Transaction interface {
	Category() Category
	Common() Common
	keyFields() []string
}

// Common carries the fields shared across variants. OccurredAt is zero for
// bundle purchases and ExternalID is empty where the provider sends none.
type Common struct {
	Amount     decimal.Decimal
	Fee        decimal.Decimal
	OccurredAt Timestamp
	ExternalID string
	ReceivedAt int64
}

// NaturalKey identifies a transaction across re-ingestion. It is the
// category plus the provider transaction id when there is one, otherwise the
// category plus a digest of every captured field and the arrival time.
func NaturalKey(tx Transaction) string {
	c := tx.Common()
	if c.ExternalID != "" {
		return string(tx.Category()) + ":" + c.ExternalID
	}
	parts := append(tx.keyFields(), strconv.FormatInt(c.ReceivedAt, 10))
	return string(tx.Category()) + "#" + GenerateSHA256Hash(strings.Join(parts, "\x1f"))
}

// IncomingMoney is money received from another subscriber.
type IncomingMoney struct {
	Amount     decimal.Decimal `csv:"amount" json:"amount" yaml:"amount"`
	Sender     string          `csv:"sender" json:"sender" yaml:"sender"`
	OccurredAt Timestamp       `csv:"occurred_at" json:"occurred_at" yaml:"occurred_at"`
	ExternalID string          `csv:"transaction_id" json:"transaction_id" yaml:"transaction_id"`
	ReceivedAt int64           `csv:"received_at" json:"received_at" yaml:"received_at"`
}

func (t IncomingMoney) Category() Category { return CategoryIncomingMoney }
func (t IncomingMoney) Common() Common {
	return Common{Amount: t.Amount, OccurredAt: t.OccurredAt, ExternalID: t.ExternalID, ReceivedAt: t.ReceivedAt}
}
func (t IncomingMoney) keyFields() []string {
	return []string{t.Amount.String(), t.Sender, t.OccurredAt.String()}
}

// PaymentToCodeHolder is a merchant payment to a numeric pay code.
type PaymentToCodeHolder struct {
	Amount        decimal.Decimal `csv:"amount" json:"amount" yaml:"amount"`
	Recipient     string          `csv:"recipient" json:"recipient" yaml:"recipient"`
	RecipientCode string          `csv:"recipient_code" json:"recipient_code" yaml:"recipient_code"`
	OccurredAt    Timestamp       `csv:"occurred_at" json:"occurred_at" yaml:"occurred_at"`
	ExternalID    string          `csv:"transaction_id" json:"transaction_id" yaml:"transaction_id"`
	ReceivedAt    int64           `csv:"received_at" json:"received_at" yaml:"received_at"`
}

func (t PaymentToCodeHolder) Category() Category { return CategoryPaymentToCodeHolder }
func (t PaymentToCodeHolder) Common() Common {
	return Common{Amount: t.Amount, OccurredAt: t.OccurredAt, ExternalID: t.ExternalID, ReceivedAt: t.ReceivedAt}
}
func (t PaymentToCodeHolder) keyFields() []string {
	return []string{t.Amount.String(), t.Recipient, t.RecipientCode, t.OccurredAt.String()}
}

// TransferToMobile is a transfer to another mobile number.
type TransferToMobile struct {
	Amount         decimal.Decimal `csv:"amount" json:"amount" yaml:"amount"`
	Recipient      string          `csv:"recipient" json:"recipient" yaml:"recipient"`
	RecipientPhone string          `csv:"recipient_phone" json:"recipient_phone" yaml:"recipient_phone"`
	Fee            decimal.Decimal `csv:"fee" json:"fee" yaml:"fee"`
	OccurredAt     Timestamp       `csv:"occurred_at" json:"occurred_at" yaml:"occurred_at"`
	ReceivedAt     int64           `csv:"received_at" json:"received_at" yaml:"received_at"`
}

func (t TransferToMobile) Category() Category { return CategoryTransferToMobile }
func (t TransferToMobile) Common() Common {
	return Common{Amount: t.Amount, Fee: t.Fee, OccurredAt: t.OccurredAt, ReceivedAt: t.ReceivedAt}
}
func (t TransferToMobile) keyFields() []string {
	return []string{t.Amount.String(), t.Recipient, t.RecipientPhone, t.Fee.String(), t.OccurredAt.String()}
}

// BankDeposit is a deposit from a bank into the wallet.
type BankDeposit struct {
	Amount     decimal.Decimal `csv:"amount" json:"amount" yaml:"amount"`
	OccurredAt Timestamp       `csv:"occurred_at" json:"occurred_at" yaml:"occurred_at"`
	ReceivedAt int64           `csv:"received_at" json:"received_at" yaml:"received_at"`
}

func (t BankDeposit) Category() Category { return CategoryBankDeposit }
func (t BankDeposit) Common() Common {
	return Common{Amount: t.Amount, OccurredAt: t.OccurredAt, ReceivedAt: t.ReceivedAt}
}
func (t BankDeposit) keyFields() []string {
	return []string{t.Amount.String(), t.OccurredAt.String()}
}

// BillPayment is the shared shape of airtime and cash power payments.
type BillPayment struct {
	Amount     decimal.Decimal `csv:"amount" json:"amount" yaml:"amount"`
	Fee        decimal.Decimal `csv:"fee" json:"fee" yaml:"fee"`
	OccurredAt Timestamp       `csv:"occurred_at" json:"occurred_at" yaml:"occurred_at"`
	ExternalID string          `csv:"transaction_id" json:"transaction_id" yaml:"transaction_id"`
	ReceivedAt int64           `csv:"received_at" json:"received_at" yaml:"received_at"`
}

func (t BillPayment) common() Common {
	return Common{Amount: t.Amount, Fee: t.Fee, OccurredAt: t.OccurredAt, ExternalID: t.ExternalID, ReceivedAt: t.ReceivedAt}
}
func (t BillPayment) keyFields() []string {
	return []string{t.Amount.String(), t.Fee.String(), t.OccurredAt.String()}
}

// AirtimeBillPayment is an airtime top-up paid from the wallet.
type AirtimeBillPayment struct {
	BillPayment `yaml:",inline"`
}

func (t AirtimeBillPayment) Category() Category { return CategoryAirtimeBillPayment }
func (t AirtimeBillPayment) Common() Common     { return t.common() }

// CashPowerBillPayment is a prepaid electricity token purchase.
type CashPowerBillPayment struct {
	BillPayment `yaml:",inline"`
}

func (t CashPowerBillPayment) Category() Category { return CategoryCashPowerBillPayment }
func (t CashPowerBillPayment) Common() Common     { return t.common() }

// ThirdPartyTransaction is a debit initiated by a third party such as a
// merchant direct payment.
type ThirdPartyTransaction struct {
	Amount     decimal.Decimal `csv:"amount" json:"amount" yaml:"amount"`
	Initiator  string          `csv:"initiator" json:"initiator" yaml:"initiator"`
	OccurredAt Timestamp       `csv:"occurred_at" json:"occurred_at" yaml:"occurred_at"`
	ExternalID string          `csv:"transaction_id" json:"transaction_id" yaml:"transaction_id"`
	ReceivedAt int64           `csv:"received_at" json:"received_at" yaml:"received_at"`
}

func (t ThirdPartyTransaction) Category() Category { return CategoryThirdPartyTransaction }
func (t ThirdPartyTransaction) Common() Common {
	return Common{Amount: t.Amount, OccurredAt: t.OccurredAt, ExternalID: t.ExternalID, ReceivedAt: t.ReceivedAt}
}
func (t ThirdPartyTransaction) keyFields() []string {
	return []string{t.Amount.String(), t.Initiator, t.OccurredAt.String()}
}

// WithdrawalFromAgent is a cash-out at an agent.
type WithdrawalFromAgent struct {
	Amount            decimal.Decimal `csv:"amount" json:"amount" yaml:"amount"`
	AccountHolderName string          `csv:"account_holder_name" json:"account_holder_name" yaml:"account_holder_name"`
	AgentName         string          `csv:"agent_name" json:"agent_name" yaml:"agent_name"`
	AgentNumber       string          `csv:"agent_number" json:"agent_number" yaml:"agent_number"`
	OccurredAt        Timestamp       `csv:"occurred_at" json:"occurred_at" yaml:"occurred_at"`
	ReceivedAt        int64           `csv:"received_at" json:"received_at" yaml:"received_at"`
}

func (t WithdrawalFromAgent) Category() Category { return CategoryWithdrawalFromAgent }
func (t WithdrawalFromAgent) Common() Common {
	return Common{Amount: t.Amount, OccurredAt: t.OccurredAt, ReceivedAt: t.ReceivedAt}
}
func (t WithdrawalFromAgent) keyFields() []string {
	return []string{t.Amount.String(), t.AccountHolderName, t.AgentName, t.AgentNumber, t.OccurredAt.String()}
}

// BankTransfer is a transfer from the wallet to a bank account.
type BankTransfer struct {
	Amount     decimal.Decimal `csv:"amount" json:"amount" yaml:"amount"`
	Recipient  string          `csv:"recipient" json:"recipient" yaml:"recipient"`
	OccurredAt Timestamp       `csv:"occurred_at" json:"occurred_at" yaml:"occurred_at"`
	ReceivedAt int64           `csv:"received_at" json:"received_at" yaml:"received_at"`
}

func (t BankTransfer) Category() Category { return CategoryBankTransfer }
func (t BankTransfer) Common() Common {
	return Common{Amount: t.Amount, OccurredAt: t.OccurredAt, ReceivedAt: t.ReceivedAt}
}
func (t BankTransfer) keyFields() []string {
	return []string{t.Amount.String(), t.Recipient, t.OccurredAt.String()}
}

// InternetBundlePurchase is a data bundle. Amount is the price paid; the
// bundle quantity is BundleSize in BundleUnit.
type InternetBundlePurchase struct {
	Amount     decimal.Decimal `csv:"amount" json:"amount" yaml:"amount"`
	BundleSize int             `csv:"bundle_size" json:"bundle_size" yaml:"bundle_size"`
	BundleUnit string          `csv:"bundle_unit" json:"bundle_unit" yaml:"bundle_unit"`
	ReceivedAt int64           `csv:"received_at" json:"received_at" yaml:"received_at"`
}

func (t InternetBundlePurchase) Category() Category { return CategoryInternetBundlePurchase }
func (t InternetBundlePurchase) Common() Common {
	return Common{Amount: t.Amount, ReceivedAt: t.ReceivedAt}
}
func (t InternetBundlePurchase) keyFields() []string {
	return []string{t.Amount.String(), strconv.Itoa(t.BundleSize), t.BundleUnit}
}

// VoiceBundlePurchase is a voice and SMS bundle.
type VoiceBundlePurchase struct {
	Amount     decimal.Decimal `csv:"amount" json:"amount" yaml:"amount"`
	Minutes    int             `csv:"minutes" json:"minutes" yaml:"minutes"`
	SMSCount   int             `csv:"sms_count" json:"sms_count" yaml:"sms_count"`
	ReceivedAt int64           `csv:"received_at" json:"received_at" yaml:"received_at"`
}

func (t VoiceBundlePurchase) Category() Category { return CategoryVoiceBundlePurchase }
func (t VoiceBundlePurchase) Common() Common {
	return Common{Amount: t.Amount, ReceivedAt: t.ReceivedAt}
}
func (t VoiceBundlePurchase) keyFields() []string {
	return []string{t.Amount.String(), strconv.Itoa(t.Minutes), strconv.Itoa(t.SMSCount)}
}

// Counterparty returns the named other party of a transaction, or "" when
// the variant has none.
func Counterparty(tx Transaction) string {
	switch t := tx.(type) {
	case IncomingMoney:
		return t.Sender
	case PaymentToCodeHolder:
		return t.Recipient
	case TransferToMobile:
		return t.Recipient
	case ThirdPartyTransaction:
		return t.Initiator
	case WithdrawalFromAgent:
		return t.AgentName
	case BankTransfer:
		return t.Recipient
	}
	return ""
}

// WithReceivedAt returns a copy of tx carrying the message arrival time.
func WithReceivedAt(tx Transaction, receivedAt int64) Transaction {
	switch t := tx.(type) {
	case IncomingMoney:
		t.ReceivedAt = receivedAt
		return t
	case PaymentToCodeHolder:
		t.ReceivedAt = receivedAt
		return t
	case TransferToMobile:
		t.ReceivedAt = receivedAt
		return t
	case BankDeposit:
		t.ReceivedAt = receivedAt
		return t
	case AirtimeBillPayment:
		t.ReceivedAt = receivedAt
		return t
	case CashPowerBillPayment:
		t.ReceivedAt = receivedAt
		return t
	case ThirdPartyTransaction:
		t.ReceivedAt = receivedAt
		return t
	case WithdrawalFromAgent:
		t.ReceivedAt = receivedAt
		return t
	case BankTransfer:
		t.ReceivedAt = receivedAt
		return t
	case InternetBundlePurchase:
		t.ReceivedAt = receivedAt
		return t
	case VoiceBundlePurchase:
		t.ReceivedAt = receivedAt
		return t
	}
	return tx
}
