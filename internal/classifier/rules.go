package classifier

import (
	"strings"

	"mmony/momo-csv/internal/models"
)

// Rule is one entry of the ordered rule table. A body matches when it starts
// with Prefix, contains every string in AllOf and, if AnyOf is non-empty, at
// least one string in AnyOf. Matching is case sensitive and the body is not
// trimmed.
type Rule struct {
	Name     string          `yaml:"name" json:"name"`
	Prefix   string          `yaml:"prefix" json:"prefix"`
	AllOf    []string        `yaml:"all_of,omitempty" json:"all_of,omitempty"`
	AnyOf    []string        `yaml:"any_of,omitempty" json:"any_of,omitempty"`
	Category models.Category `yaml:"category" json:"category"`
}

// Match reports whether the rule applies to body.
func (r Rule) Match(body string) bool {
	if !strings.HasPrefix(body, r.Prefix) {
		return false
	}
	for _, s := range r.AllOf {
		if !strings.Contains(body, s) {
			return false
		}
	}
	if len(r.AnyOf) == 0 {
		return true
	}
	for _, s := range r.AnyOf {
		if strings.Contains(body, s) {
			return true
		}
	}
	return false
}

// defaultRules is evaluated top to bottom and the first match wins. Order
// matters wherever two rules can match the same body:
//   - the *143*R* acknowledgements come first so they never reach Unrecognized
//     through a later rule;
//   - "You have transferred" precedes the withdrawal rule, whose "You " prefix
//     would otherwise shadow it;
//   - the internet bundle rule precedes the voice bundle rule; voice bodies
//     spell the currency "Frw=" and so fail the FRW/Rwf test.
var defaultRules = []Rule{
	{Name: "registration-ack", Prefix: "*143*R*", AllOf: []string{"successfully registered"}, Category: models.CategorySystemNotification},
	{Name: "registration-failed", Prefix: "*143*R*", AllOf: []string{"failed"}, Category: models.CategorySystemNotification},
	{Name: "incoming-money", Prefix: "You have received", Category: models.CategoryIncomingMoney},
	{Name: "payment-to-code-holder", Prefix: "TxId", Category: models.CategoryPaymentToCodeHolder},
	{Name: "transfer-to-mobile", Prefix: "*165*S*", Category: models.CategoryTransferToMobile},
	{Name: "bank-deposit", Prefix: "*113*R*", Category: models.CategoryBankDeposit},
	{Name: "airtime-bill-payment", Prefix: "*162*", AllOf: []string{"Airtime"}, Category: models.CategoryAirtimeBillPayment},
	{Name: "cash-power-bill-payment", Prefix: "*162*", AllOf: []string{"Cash Power"}, Category: models.CategoryCashPowerBillPayment},
	{Name: "third-party-transaction", Prefix: "*164*S*", Category: models.CategoryThirdPartyTransaction},
	{Name: "bank-transfer", Prefix: "You have transferred", Category: models.CategoryBankTransfer},
	{Name: "withdrawal-from-agent", Prefix: "You ", AllOf: []string{"have via agent:"}, Category: models.CategoryWithdrawalFromAgent},
	{Name: "internet-bundle", Prefix: "Yello!Umaze kugura", AnyOf: []string{"FRW", "Rwf"}, Category: models.CategoryInternetBundlePurchase},
	{Name: "voice-bundle", Prefix: "Yello!Umaze kugura", AllOf: []string{"Frw="}, Category: models.CategoryVoiceBundlePurchase},
}

// DefaultRules returns a copy of the built-in rule table in evaluation order.
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	for i, r := range defaultRules {
		r.AllOf = append([]string(nil), r.AllOf...)
		r.AnyOf = append([]string(nil), r.AnyOf...)
		out[i] = r
	}
	return out
}
