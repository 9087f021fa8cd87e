package persist_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/models"
	"mmony/momo-csv/internal/persist"
	"mmony/momo-csv/internal/sink"
)

func sampleBatch() persist.Batch {
	records := sink.New()
	records.AddAll([]models.Transaction{
		models.IncomingMoney{Amount: decimal.NewFromInt(2000), Sender: "Jane Smith", ExternalID: "1"},
		models.BankDeposit{Amount: decimal.NewFromInt(40000), ReceivedAt: 2},
		models.IncomingMoney{Amount: decimal.NewFromInt(500), Sender: "Alex Doe", ExternalID: "2"},
	})
	return persist.Batch{
		RunID:     uuid.MustParse("6f1c2a7e-0000-4000-8000-000000000001"),
		Source:    "sms.xml",
		StartedAt: time.Date(2024, 5, 10, 16, 30, 51, 0, time.UTC),
		Records:   records,
		Failures: []models.FailureRecord{{
			Body:              "*113*R*A bank deposit of 100 RWF has been added.",
			AttemptedCategory: models.CategoryBankDeposit,
			Reason:            "missing date/time",
		}},
		Stats: models.CategoryStats{Total: 4, Counts: map[models.Category]int{
			models.CategoryIncomingMoney: 2,
			models.CategoryBankDeposit:   2,
		}, Failed: 1},
	}
}

func TestService_Push(t *testing.T) {
	batch := sampleBatch()

	type testCase struct {
		name      string
		setupMock func(repo *persist.MockRepository, ptx *persist.MockPushTx)
		wantErr   string
		check     func(t *testing.T, res *persist.Result)
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(repo *persist.MockRepository, ptx *persist.MockPushTx) {
				gomock.InOrder(
					repo.EXPECT().EnsureSchema(gomock.Any()).Return(nil),
					repo.EXPECT().BeginPush(gomock.Any()).Return(ptx, nil),
					ptx.EXPECT().
						InsertTransactions(gomock.Any(), batch.RunID, models.CategoryIncomingMoney, gomock.Len(2)).
						Return(1, nil),
					ptx.EXPECT().
						InsertTransactions(gomock.Any(), batch.RunID, models.CategoryBankDeposit, gomock.Len(1)).
						Return(1, nil),
					ptx.EXPECT().InsertFailures(gomock.Any(), batch.RunID, batch.Failures).Return(1, nil),
					ptx.EXPECT().
						RecordRun(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, run persist.Run) error {
							assert.Equal(t, batch.RunID, run.ID)
							assert.Equal(t, "sms.xml", run.Source)
							assert.Equal(t, 2, run.Inserted)
							assert.Equal(t, 1, run.FailedRows)
							assert.Equal(t, 4, run.Stats.Total)
							return nil
						}),
					ptx.EXPECT().Commit().Return(nil),
				)
			},
			check: func(t *testing.T, res *persist.Result) {
				assert.Equal(t, 1, res.Inserted[models.CategoryIncomingMoney])
				assert.Equal(t, 1, res.Inserted[models.CategoryBankDeposit])
				assert.Equal(t, 2, res.Total())
				assert.Equal(t, 1, res.Skipped)
				assert.Equal(t, 1, res.FailedRows)
			},
		},
		{
			name: "SchemaError",
			setupMock: func(repo *persist.MockRepository, ptx *persist.MockPushTx) {
				repo.EXPECT().EnsureSchema(gomock.Any()).Return(errors.New("connection refused"))
			},
			wantErr: "ensuring schema",
		},
		{
			name: "InsertErrorRollsBack",
			setupMock: func(repo *persist.MockRepository, ptx *persist.MockPushTx) {
				repo.EXPECT().EnsureSchema(gomock.Any()).Return(nil)
				repo.EXPECT().BeginPush(gomock.Any()).Return(ptx, nil)
				ptx.EXPECT().
					InsertTransactions(gomock.Any(), gomock.Any(), models.CategoryIncomingMoney, gomock.Any()).
					Return(0, errors.New("db error"))
				ptx.EXPECT().Rollback().Return(nil)
			},
			wantErr: "inserting incoming_money",
		},
		{
			name: "CommitErrorRollsBack",
			setupMock: func(repo *persist.MockRepository, ptx *persist.MockPushTx) {
				repo.EXPECT().EnsureSchema(gomock.Any()).Return(nil)
				repo.EXPECT().BeginPush(gomock.Any()).Return(ptx, nil)
				ptx.EXPECT().InsertTransactions(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil).Times(2)
				ptx.EXPECT().InsertFailures(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
				ptx.EXPECT().RecordRun(gomock.Any(), gomock.Any()).Return(nil)
				ptx.EXPECT().Commit().Return(errors.New("serialization failure"))
				ptx.EXPECT().Rollback().Return(errors.New("tx already closed"))
			},
			wantErr: "committing push",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := persist.NewMockRepository(ctrl)
			ptx := persist.NewMockPushTx(ctrl)
			tt.setupMock(repo, ptx)

			svc := persist.NewService(repo, logging.NewMockLogger())
			res, err := svc.Push(context.Background(), batch)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			tt.check(t, res)
		})
	}
}

func TestService_Push_AssignsRunID(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := persist.NewMockRepository(ctrl)
	ptx := persist.NewMockPushTx(ctrl)

	batch := sampleBatch()
	batch.RunID = uuid.Nil
	batch.Records = sink.New()

	repo.EXPECT().EnsureSchema(gomock.Any()).Return(nil)
	repo.EXPECT().BeginPush(gomock.Any()).Return(ptx, nil)
	ptx.EXPECT().InsertFailures(gomock.Any(), gomock.Not(uuid.Nil), gomock.Any()).Return(0, nil)
	ptx.EXPECT().RecordRun(gomock.Any(), gomock.Any()).Return(nil)
	ptx.EXPECT().Commit().Return(nil)

	res, err := persist.NewService(repo, nil).Push(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total())
}

func TestService_Push_NilRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := persist.NewMockRepository(ctrl)

	_, err := persist.NewService(repo, nil).Push(context.Background(), persist.Batch{})
	assert.Error(t, err)
}
