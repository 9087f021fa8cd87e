package store

import (
	"fmt"
	"strings"

	"mmony/momo-csv/internal/models"
)

// column is one variant-specific column of a category table.
type column struct {
	name    string
	sqlType string
}

// table describes the table a category is stored in.
type table struct {
	name  string
	extra []column
}

// Every category table starts with these columns, in this order.
var baseColumns = []column{
	{"natural_key", "TEXT PRIMARY KEY"},
	{"amount", "NUMERIC(18,2) NOT NULL"},
	{"fee", "NUMERIC(18,2) NOT NULL DEFAULT 0"},
	{"occurred_at", "TIMESTAMP"},
	{"transaction_id", "TEXT"},
	{"received_at", "BIGINT NOT NULL"},
	{"run_id", "UUID NOT NULL"},
}

var tables = map[models.Category]table{
	models.CategoryIncomingMoney: {
		name:  "incoming_money",
		extra: []column{{"sender", "TEXT NOT NULL"}},
	},
	models.CategoryPaymentToCodeHolder: {
		name:  "payment_to_code_holder",
		extra: []column{{"recipient", "TEXT NOT NULL"}, {"recipient_code", "TEXT NOT NULL"}},
	},
	models.CategoryTransferToMobile: {
		name:  "transfer_to_mobile",
		extra: []column{{"recipient", "TEXT NOT NULL"}, {"recipient_phone", "TEXT NOT NULL"}},
	},
	models.CategoryBankDeposit:          {name: "bank_deposit"},
	models.CategoryAirtimeBillPayment:   {name: "airtime_bill_payment"},
	models.CategoryCashPowerBillPayment: {name: "cash_power_bill_payment"},
	models.CategoryThirdPartyTransaction: {
		name:  "third_party_transaction",
		extra: []column{{"initiator", "TEXT NOT NULL"}},
	},
	models.CategoryWithdrawalFromAgent: {
		name: "withdrawal_from_agent",
		extra: []column{
			{"account_holder_name", "TEXT NOT NULL"},
			{"agent_name", "TEXT NOT NULL"},
			{"agent_number", "TEXT NOT NULL"},
		},
	},
	models.CategoryBankTransfer: {
		name:  "bank_transfer",
		extra: []column{{"recipient", "TEXT NOT NULL"}},
	},
	models.CategoryInternetBundlePurchase: {
		name:  "internet_bundle_purchase",
		extra: []column{{"bundle_size", "INTEGER NOT NULL"}, {"bundle_unit", "TEXT NOT NULL"}},
	},
	models.CategoryVoiceBundlePurchase: {
		name:  "voice_bundle_purchase",
		extra: []column{{"minutes", "INTEGER NOT NULL"}, {"sms_count", "INTEGER NOT NULL"}},
	},
}

const failuresDDL = `CREATE TABLE IF NOT EXISTS failed_sms_log (
	id BIGSERIAL PRIMARY KEY,
	run_id UUID NOT NULL,
	body TEXT NOT NULL,
	body_hash TEXT NOT NULL,
	attempted_category TEXT NOT NULL,
	reason TEXT NOT NULL,
	received_at BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (attempted_category, body_hash, received_at)
)`

const runsDDL = `CREATE TABLE IF NOT EXISTS import_runs (
	run_id UUID PRIMARY KEY,
	source TEXT NOT NULL,
	started_at TIMESTAMPTZ NOT NULL,
	total_messages INTEGER NOT NULL,
	tallied INTEGER NOT NULL,
	unrecognized INTEGER NOT NULL,
	failed INTEGER NOT NULL,
	discrepancy INTEGER NOT NULL,
	inserted INTEGER NOT NULL,
	failed_rows INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

func (t table) columns() []column {
	return append(append([]column{}, baseColumns...), t.extra...)
}

func (t table) createStatement() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", t.name)
	cols := t.columns()
	for i, c := range cols {
		fmt.Fprintf(&b, "\t%s %s", c.name, c.sqlType)
		if i < len(cols)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String()
}

func (t table) insertStatement() string {
	cols := t.columns()
	names := make([]string, len(cols))
	params := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (natural_key) DO NOTHING",
		t.name, strings.Join(names, ", "), strings.Join(params, ", "))
}

// schemaStatements returns the DDL for every table in a stable order.
func schemaStatements() []string {
	stmts := make([]string, 0, len(models.TransactionCategories)+2)
	for _, c := range models.TransactionCategories {
		stmts = append(stmts, tables[c].createStatement())
	}
	return append(stmts, failuresDDL, runsDDL)
}
