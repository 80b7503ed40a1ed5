// internal/monitor/debit.go
package monitor

import (
	"context"

	"go.uber.org/zap"
)

// debitFlow checks that the payment-submission control for one institution
// renders on the debit page. The pay button only appears when the portal can
// reach its payment-processing backend, so its visibility is the health
// signal this monitor exists for.
type debitFlow struct {
	institution string
	logger      *zap.Logger
}

// NewDebitFlow builds the payment-availability flow for an institution id.
func NewDebitFlow(institution string, logger *zap.Logger) Flow {
	return &debitFlow{
		institution: institution,
		logger:      logger.Named("debit"),
	}
}

func (f *debitFlow) Name() string { return "debit" }

func (f *debitFlow) Execute(ctx context.Context, sess Session) (bool, string) {
	// Visit the debit page unless the login flow already landed us there.
	loc, err := sess.Location(ctx)
	if err != nil || loc != debitPage {
		if err := sess.Navigate(ctx, debitPage); err != nil {
			f.logger.Error("Navigation to debit page failed", zap.Error(err))
			return false, "Could not load debit page"
		}
	}

	// The institution accordion must render first.
	if err := sess.WaitVisible(ctx, f.institution); err != nil {
		f.logger.Error("Institution element lookup failed", zap.Error(err))
		return false, "Could not find institution element"
	}
	f.logger.Debug("Found institution element")

	// Expand the amounts-due section for the institution.
	showID := showButtonPrefix + f.institution
	if err := sess.WaitVisible(ctx, showID); err != nil {
		f.logger.Error("Show button lookup failed", zap.Error(err))
		return false, "Could not find show button for institution"
	}
	if err := sess.Click(ctx, showID); err != nil {
		f.logger.Error("Show button click failed", zap.Error(err))
		return false, "Could not find show button for institution"
	}
	f.logger.Debug("Clicked institution show button")

	// The pay form rendering means the payment backend is reachable.
	if err := sess.WaitVisible(ctx, payFormPrefix+f.institution); err != nil {
		f.logger.Error("Pay button lookup failed", zap.Error(err))
		return false, "Could not find pay button for institution"
	}
	f.logger.Debug("Found institution pay button")

	return true, ""
}
