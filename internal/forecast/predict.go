package forecast

import (
	"context"
	"fmt"

	"github.com/catherineraj6/lab1-226/internal/contracts"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

const makePredictionTemplate = `
BEGIN
    CALL %s!FORECAST(
        FORECASTING_PERIODS => 7,
        CONFIG_OBJECT => {'prediction_interval': 0.95}
    );
    LET x := SQLID;
    CREATE OR REPLACE TABLE %s AS SELECT * FROM TABLE(RESULT_SCAN(:x));
END;`

const createFinalTableTemplate = `
CREATE OR REPLACE TABLE %s AS
SELECT SYMBOL, DATE, CLOSE AS actual, NULL AS forecast, NULL AS lower_bound, NULL AS upper_bound
FROM %s
UNION ALL
SELECT REPLACE(series, '"', '') AS SYMBOL, ts AS DATE, NULL AS actual, forecast, lower_bound, upper_bound
FROM %s;`

// Predictor runs the trained model's 7-period forecast, captures its
// result set into the forecast table, and builds the final table as
// historical actuals unioned with forecast rows. Forecast-side symbols
// come back quoted from the model; the union strips the quotes.
type Predictor struct {
	session       contracts.Session
	function      string
	inputTable    string
	forecastTable string
	finalTable    string
	logger        *logger.Logger
}

// NewPredictor creates a Predictor bound to the shared session
func NewPredictor(session contracts.Session, function, inputTable, forecastTable, finalTable string, log *logger.Logger) *Predictor {
	return &Predictor{
		session:       session,
		function:      function,
		inputTable:    inputTable,
		forecastTable: forecastTable,
		finalTable:    finalTable,
		logger:        log,
	}
}

// Predict generates the forecast and materializes the final table
func (p *Predictor) Predict(ctx context.Context) error {
	if err := p.session.Exec(ctx, fmt.Sprintf(makePredictionTemplate, p.function, p.forecastTable)); err != nil {
		p.logger.WithError(err).Error("Error generating forecast")
		return fmt.Errorf("generate forecast: %w", err)
	}

	if err := p.session.Exec(ctx, fmt.Sprintf(createFinalTableTemplate, p.finalTable, p.inputTable, p.forecastTable)); err != nil {
		p.logger.WithError(err).Error("Error building final table")
		return fmt.Errorf("build final table: %w", err)
	}

	p.logger.WithFields(map[string]interface{}{
		"forecast_table": p.forecastTable,
		"final_table":    p.finalTable,
	}).Info("Forecast materialized successfully")

	return nil
}
