// internal/workers/report_processor_test.go
package workers_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nweoo/zaycho-be/internal/workers"
	"github.com/nweoo/zaycho-be/test/helpers"
	"github.com/nweoo/zaycho-be/test/mocks"
)

func TestNewDailySalesReportTask(t *testing.T) {
	day := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

	task, err := workers.NewDailySalesReportTask(day)
	require.NoError(t, err)

	assert.Equal(t, workers.TypeDailySalesReport, task.Type())

	var payload workers.DailySalesReportPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "2025-03-14", payload.Date)
}

func TestReportProcessor_ProcessDailySalesReport_BadPayload(t *testing.T) {
	tests := []struct {
		name          string
		payload       []byte
		errorContains string
	}{
		{
			name:          "malformed_json",
			payload:       []byte(`{not json`),
			errorContains: "failed to unmarshal payload",
		},
		{
			name:          "invalid_date",
			payload:       []byte(`{"date":"14-03-2025"}`),
			errorContains: "invalid report date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDB := mocks.NewMockDatabase(ctrl)
			mockCache := mocks.NewMockCacheRepository(ctrl)

			processor := workers.NewReportProcessor(mockDB, mockCache, helpers.TestLogger())

			task := asynq.NewTask(workers.TypeDailySalesReport, tt.payload)
			err := processor.ProcessDailySalesReport(context.Background(), task)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestCleanupProcessor_CleanupCounters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mocks.NewMockDatabase(ctrl)
	mockDB.EXPECT().
		Exec(gomock.Any(), gomock.Any()).
		Return(pgconn.NewCommandTag("DELETE 3"), nil)

	processor := workers.NewCleanupProcessor(mockDB, helpers.TestLogger())

	task := asynq.NewTask(workers.TypeCounterCleanup, nil)
	err := processor.CleanupCounters(context.Background(), task)

	require.NoError(t, err)
}
