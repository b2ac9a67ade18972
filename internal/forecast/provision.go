package forecast

import (
	"context"
	"fmt"

	"github.com/catherineraj6/lab1-226/internal/contracts"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

const createFunctionTemplate = `
CREATE OR REPLACE FUNCTION %s(input_data VARIANT)
RETURNS TABLE (date TIMESTAMP_NTZ, close FLOAT, symbol STRING)
LANGUAGE PYTHON
RUNTIME_VERSION = '3.8'
HANDLER = 'handler'
AS $$
def handler(input_data):
    import pandas as pd
    # Model prediction logic lives warehouse-side
    return pd.DataFrame(...)  # Return a DataFrame with 'date', 'close', 'symbol'
$$;`

// FunctionProvisioner (re)creates the user-defined forecasting handler.
// CREATE OR REPLACE makes the task idempotent by construction.
type FunctionProvisioner struct {
	session  contracts.Session
	function string
	logger   *logger.Logger
}

// NewFunctionProvisioner creates the provisioner for the given function name
func NewFunctionProvisioner(session contracts.Session, function string, log *logger.Logger) *FunctionProvisioner {
	return &FunctionProvisioner{session: session, function: function, logger: log}
}

// Provision recreates the forecast function
func (p *FunctionProvisioner) Provision(ctx context.Context) error {
	if err := p.session.Exec(ctx, fmt.Sprintf(createFunctionTemplate, p.function)); err != nil {
		p.logger.WithError(err).Error("Function creation error")
		return fmt.Errorf("create forecast function: %w", err)
	}

	p.logger.WithField("function", p.function).Info("Forecast function created successfully")
	return nil
}
