package forecast

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catherineraj6/lab1-226/internal/pipeline"
	"github.com/catherineraj6/lab1-226/pkg/config"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

func newTestLogger() *logger.Logger {
	return logger.New(&config.Config{
		Env:       "test",
		LogLevel:  "error",
		LogFormat: "json",
	})
}

func testForecastConfig() config.ForecastConfig {
	return config.ForecastConfig{
		TrainInputTable: "dev2.rawdata2.stock_prices",
		TrainView:       "dev2.adhoc.stock_data_view",
		ForecastTable:   "dev2.adhoc.stock_data_forecast",
		FunctionName:    "dev2.analytics.predict_stock_price",
		FinalTable:      "dev2.analytics.stock_data_final",
	}
}

// fakeSession records every statement; Exec fails when the statement
// contains failOn.
type fakeSession struct {
	execs   []string
	failOn  string
	failErr error
	closed  int
}

func (s *fakeSession) Exec(ctx context.Context, query string, args ...interface{}) error {
	s.execs = append(s.execs, query)
	if s.failOn != "" && strings.Contains(query, s.failOn) {
		if s.failErr != nil {
			return s.failErr
		}
		return errors.New("forced statement failure")
	}
	return nil
}

func (s *fakeSession) Close() error {
	s.closed++
	return nil
}

func TestBuildGraphStatementSequence(t *testing.T) {
	session := &fakeSession{}
	g, err := BuildGraph(testForecastConfig(), session, newTestLogger())
	require.NoError(t, err)
	require.Equal(t, 3, g.Size())

	report, err := g.Run(context.Background())
	require.NoError(t, err)
	require.True(t, report.Success)

	// function, view, model, metrics, forecast block, final table
	require.Len(t, session.execs, 6)
	assert.Contains(t, session.execs[0], "CREATE OR REPLACE FUNCTION dev2.analytics.predict_stock_price")
	assert.Contains(t, session.execs[1], "CREATE OR REPLACE VIEW dev2.adhoc.stock_data_view")
	assert.Contains(t, session.execs[1], "SELECT DATE, CLOSE, SYMBOL")
	assert.Contains(t, session.execs[1], "FROM dev2.rawdata2.stock_prices")
	assert.Contains(t, session.execs[2], "CREATE OR REPLACE SNOWFLAKE.ML.FORECAST dev2.analytics.predict_stock_price")
	assert.Contains(t, session.execs[2], "SYSTEM$REFERENCE('VIEW', 'dev2.adhoc.stock_data_view')")
	assert.Contains(t, session.execs[2], "'ON_ERROR': 'SKIP'")
	assert.Equal(t, "CALL dev2.analytics.predict_stock_price!SHOW_EVALUATION_METRICS();", session.execs[3])
	assert.Contains(t, session.execs[4], "FORECASTING_PERIODS => 7")
	assert.Contains(t, session.execs[4], "'prediction_interval': 0.95")
	assert.Contains(t, session.execs[4], "RESULT_SCAN(:x)")
	assert.Contains(t, session.execs[4], "CREATE OR REPLACE TABLE dev2.adhoc.stock_data_forecast")
	assert.Contains(t, session.execs[5], "CREATE OR REPLACE TABLE dev2.analytics.stock_data_final")

	// The graph never closes the shared session; the caller owns it
	assert.Equal(t, 0, session.closed)
}

func TestFinalTableUnionShape(t *testing.T) {
	session := &fakeSession{}
	predictor := NewPredictor(session,
		"dev2.analytics.predict_stock_price",
		"dev2.rawdata2.stock_prices",
		"dev2.adhoc.stock_data_forecast",
		"dev2.analytics.stock_data_final",
		newTestLogger())

	require.NoError(t, predictor.Predict(context.Background()))
	require.Len(t, session.execs, 2)

	final := session.execs[1]

	// Actuals side carries NULL forecast columns
	assert.Contains(t, final, "SELECT SYMBOL, DATE, CLOSE AS actual, NULL AS forecast, NULL AS lower_bound, NULL AS upper_bound")
	assert.Contains(t, final, "FROM dev2.rawdata2.stock_prices")
	assert.Contains(t, final, "UNION ALL")

	// Forecast side carries NULL actual and strips the quotes the model
	// puts around series values
	assert.Contains(t, final, `REPLACE(series, '"', '') AS SYMBOL`)
	assert.Contains(t, final, "ts AS DATE, NULL AS actual, forecast, lower_bound, upper_bound")
	assert.Contains(t, final, "FROM dev2.adhoc.stock_data_forecast")
}

func TestTrainFailureSkipsPredict(t *testing.T) {
	bang := errors.New("model training failed")
	session := &fakeSession{failOn: "SNOWFLAKE.ML.FORECAST", failErr: bang}

	g, err := BuildGraph(testForecastConfig(), session, newTestLogger())
	require.NoError(t, err)

	report, err := g.Run(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "train forecast model")

	states := map[string]pipeline.TaskState{}
	for _, task := range report.Tasks {
		states[task.Name] = task.State
	}
	assert.Equal(t, pipeline.TaskSuccess, states["create_forecast_function"])
	assert.Equal(t, pipeline.TaskFailed, states["train"])
	assert.Equal(t, pipeline.TaskSkipped, states["predict"])

	// The view was created before the failure and is left in place:
	// no compensation statements follow the failing one.
	require.Len(t, session.execs, 3)
	assert.Contains(t, session.execs[1], "CREATE OR REPLACE VIEW")
	assert.Contains(t, session.execs[2], "SNOWFLAKE.ML.FORECAST")
}

func TestProvisionFailurePropagates(t *testing.T) {
	bang := errors.New("insufficient privileges")
	session := &fakeSession{failOn: "CREATE OR REPLACE FUNCTION", failErr: bang}

	provisioner := NewFunctionProvisioner(session, "dev2.analytics.predict_stock_price", newTestLogger())
	err := provisioner.Provision(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, bang)
}

func TestTrainerStopsAtFirstFailure(t *testing.T) {
	session := &fakeSession{failOn: "CREATE OR REPLACE VIEW"}
	trainer := NewTrainer(session,
		"dev2.rawdata2.stock_prices",
		"dev2.adhoc.stock_data_view",
		"dev2.analytics.predict_stock_price",
		newTestLogger())

	err := trainer.Train(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "create training view")

	// Nothing after the failing statement was issued
	require.Len(t, session.execs, 1)
}
