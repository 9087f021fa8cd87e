// Package models holds the data types shared by the classification engine,
// the exporters and the persistence layer.
package models

// Category is the closed set of transaction types a message can be
// classified into. Values double as CSV file stems and report keys.
type Category string

const (
	CategoryIncomingMoney          Category = "incoming_money"
	CategoryPaymentToCodeHolder    Category = "payment_to_code_holder"
	CategoryTransferToMobile       Category = "transfer_to_mobile"
	CategoryBankDeposit            Category = "bank_deposit"
	CategoryAirtimeBillPayment     Category = "airtime_bill_payment"
	CategoryCashPowerBillPayment   Category = "cash_power_bill_payment"
	CategoryThirdPartyTransaction  Category = "third_party_transaction"
	CategoryWithdrawalFromAgent    Category = "withdrawal_from_agent"
	CategoryBankTransfer           Category = "bank_transfer"
	CategoryInternetBundlePurchase Category = "internet_bundle_purchase"
	CategoryVoiceBundlePurchase    Category = "voice_bundle_purchase"
	CategorySystemNotification     Category = "system_notification"
	CategoryUnrecognized           Category = "unrecognized"
)

// TransactionCategories lists every category that yields a transaction
// record, in a stable presentation order.
var TransactionCategories = []Category{
	CategoryIncomingMoney,
	CategoryPaymentToCodeHolder,
	CategoryTransferToMobile,
	CategoryBankDeposit,
	CategoryAirtimeBillPayment,
	CategoryCashPowerBillPayment,
	CategoryThirdPartyTransaction,
	CategoryWithdrawalFromAgent,
	CategoryBankTransfer,
	CategoryInternetBundlePurchase,
	CategoryVoiceBundlePurchase,
}

var categoryLabels = map[Category]string{
	CategoryIncomingMoney:          "Incoming Money",
	CategoryPaymentToCodeHolder:    "Payment to Code Holder",
	CategoryTransferToMobile:       "Transfer to Mobile",
	CategoryBankDeposit:            "Bank Deposit",
	CategoryAirtimeBillPayment:     "Airtime Bill Payment",
	CategoryCashPowerBillPayment:   "Cash Power Bill Payment",
	CategoryThirdPartyTransaction:  "Third Party Transaction",
	CategoryWithdrawalFromAgent:    "Withdrawal from Agent",
	CategoryBankTransfer:           "Bank Transfer",
	CategoryInternetBundlePurchase: "Internet Bundle Purchase",
	CategoryVoiceBundlePurchase:    "Voice Bundle Purchase",
	CategorySystemNotification:     "System Notification",
	CategoryUnrecognized:           "Unrecognized",
}

func (c Category) String() string {
	return string(c)
}

// Label is the human readable name of the category.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// IsSkip reports whether messages of this category are dropped silently.
func (c Category) IsSkip() bool {
	return c == CategorySystemNotification
}

// IsTransaction reports whether the category produces transaction records.
func (c Category) IsTransaction() bool {
	return c != CategorySystemNotification && c != CategoryUnrecognized && c.IsValid()
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// IsCredit reports whether the category moves money into the account.
func (c Category) IsCredit() bool {
	return c == CategoryIncomingMoney || c == CategoryBankDeposit
}

// ParseCategory converts a stored category name back to a Category.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.IsValid()
}
