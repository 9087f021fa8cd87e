package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"mmony/momo-csv/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTransactions(t *testing.T) []models.Transaction {
	at, err := models.ParseTimestamp("2024-05-10 16:30:51")
	require.NoError(t, err)
	amt := decimal.NewFromInt(1000)
	return []models.Transaction{
		models.IncomingMoney{Amount: amt, Sender: "Jane Smith", OccurredAt: at, ExternalID: "1"},
		models.PaymentToCodeHolder{Amount: amt, Recipient: "Jane Smith", RecipientCode: "12845", OccurredAt: at, ExternalID: "2"},
		models.TransferToMobile{Amount: amt, Recipient: "Samuel Carter", RecipientPhone: "250791666666", Fee: decimal.NewFromInt(100), OccurredAt: at},
		models.BankDeposit{Amount: amt, OccurredAt: at},
		models.AirtimeBillPayment{BillPayment: models.BillPayment{Amount: amt, OccurredAt: at, ExternalID: "3"}},
		models.CashPowerBillPayment{BillPayment: models.BillPayment{Amount: amt, OccurredAt: at, ExternalID: "4"}},
		models.ThirdPartyTransaction{Amount: amt, Initiator: "MTN Cash Power", OccurredAt: at, ExternalID: "5"},
		models.WithdrawalFromAgent{Amount: amt, AccountHolderName: "Jane Smith", AgentName: "Agent Sophia", AgentNumber: "250790777777", OccurredAt: at},
		models.BankTransfer{Amount: amt, Recipient: "Jane Smith", OccurredAt: at},
		models.InternetBundlePurchase{Amount: amt, BundleSize: 1, BundleUnit: "GB", ReceivedAt: 9},
		models.VoiceBundlePurchase{Amount: amt, Minutes: 60, SMSCount: 100, ReceivedAt: 9},
	}
}

func TestTables_CoverEveryTransactionCategory(t *testing.T) {
	assert.Len(t, tables, len(models.TransactionCategories))
	for _, c := range models.TransactionCategories {
		tbl, ok := tables[c]
		require.True(t, ok, c)
		assert.Equal(t, string(c), tbl.name)
	}
}

func TestRowValues_MatchColumnOrder(t *testing.T) {
	runID := uuid.New()
	for _, tx := range sampleTransactions(t) {
		tbl := tables[tx.Category()]
		values := rowValues(runID, tx)

		assert.Len(t, values, len(tbl.columns()), tbl.name)
		assert.Equal(t, models.NaturalKey(tx), values[0])
		assert.Equal(t, runID, values[6])
	}
}

func TestRowValues_NullableColumns(t *testing.T) {
	values := rowValues(uuid.Nil, models.VoiceBundlePurchase{Amount: decimal.NewFromInt(1000), Minutes: 60, SMSCount: 100})
	assert.Equal(t, sql.NullTime{}, values[3])
	assert.Equal(t, sql.NullString{}, values[4])
	assert.Equal(t, []any{60, 100}, values[7:])

	values = rowValues(uuid.Nil, sampleTransactions(t)[0])
	assert.True(t, values[3].(sql.NullTime).Valid)
	assert.Equal(t, sql.NullString{String: "1", Valid: true}, values[4])
}

func TestInsertStatement(t *testing.T) {
	stmt := tables[models.CategoryTransferToMobile].insertStatement()
	assert.Equal(t,
		"INSERT INTO transfer_to_mobile (natural_key, amount, fee, occurred_at, transaction_id, received_at, run_id, recipient, recipient_phone) "+
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) ON CONFLICT (natural_key) DO NOTHING",
		stmt)
}

func TestSchemaStatements(t *testing.T) {
	stmts := schemaStatements()
	require.Len(t, stmts, len(models.TransactionCategories)+2)

	assert.True(t, strings.HasPrefix(stmts[0], "CREATE TABLE IF NOT EXISTS incoming_money ("))
	assert.Contains(t, stmts[0], "\tnatural_key TEXT PRIMARY KEY,\n")
	assert.Contains(t, stmts[0], "\tsender TEXT NOT NULL\n)")
	assert.Contains(t, stmts[len(stmts)-2], "failed_sms_log")
	assert.Contains(t, stmts[len(stmts)-1], "import_runs")

	// Base columns must not be shared across tables.
	tbl := tables[models.CategoryBankDeposit]
	_ = append(tbl.columns(), column{"x", "TEXT"})
	assert.Len(t, baseColumns, 7)
}

func TestLockKey_Stable(t *testing.T) {
	assert.Equal(t, lockKey(pushLockName), lockKey(pushLockName))
	assert.NotEqual(t, lockKey(pushLockName), lockKey("other"))
}

func TestOpen_RequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no DSN configured")
}
