package forecast

import (
	"context"
	"fmt"

	"github.com/catherineraj6/lab1-226/internal/contracts"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

const createViewTemplate = `
CREATE OR REPLACE VIEW %s AS
SELECT DATE, CLOSE, SYMBOL
FROM %s;`

const createForecastModelTemplate = `
CREATE OR REPLACE SNOWFLAKE.ML.FORECAST %s (
    INPUT_DATA => SYSTEM$REFERENCE('VIEW', '%s'),
    SERIES_COLNAME => 'SYMBOL',
    TIMESTAMP_COLNAME => 'DATE',
    TARGET_COLNAME => 'CLOSE',
    CONFIG_OBJECT => { 'ON_ERROR': 'SKIP' }
);`

const showMetricsTemplate = `CALL %s!SHOW_EVALUATION_METRICS();`

// Trainer (re)creates the training view, trains the warehouse-native
// forecast model over it, and triggers evaluation-metric computation.
// The three statements run in order on the shared session. A mid-sequence
// failure leaves earlier objects in place; every object is CREATE OR
// REPLACE, so the next run heals any partial state.
type Trainer struct {
	session    contracts.Session
	inputTable string
	view       string
	function   string
	logger     *logger.Logger
}

// NewTrainer creates a Trainer bound to the shared session
func NewTrainer(session contracts.Session, inputTable, view, function string, log *logger.Logger) *Trainer {
	return &Trainer{
		session:    session,
		inputTable: inputTable,
		view:       view,
		function:   function,
		logger:     log,
	}
}

// Train runs the view/model/metrics statement sequence
func (t *Trainer) Train(ctx context.Context) error {
	if err := t.session.Exec(ctx, fmt.Sprintf(createViewTemplate, t.view, t.inputTable)); err != nil {
		t.logger.WithError(err).Error("Error creating training view")
		return fmt.Errorf("create training view: %w", err)
	}

	if err := t.session.Exec(ctx, fmt.Sprintf(createForecastModelTemplate, t.function, t.view)); err != nil {
		t.logger.WithError(err).Error("Error training forecast model")
		return fmt.Errorf("train forecast model: %w", err)
	}

	// Inspect the accuracy metrics of the trained model
	if err := t.session.Exec(ctx, fmt.Sprintf(showMetricsTemplate, t.function)); err != nil {
		t.logger.WithError(err).Error("Error computing evaluation metrics")
		return fmt.Errorf("show evaluation metrics: %w", err)
	}

	t.logger.WithFields(map[string]interface{}{
		"view":  t.view,
		"model": t.function,
	}).Info("Forecast model trained successfully")

	return nil
}
