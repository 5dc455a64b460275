package optimizer

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/opscart/cloud-cost-optimizer/pkg/models"
	"github.com/opscart/cloud-cost-optimizer/pkg/normalizer"
	"github.com/opscart/cloud-cost-optimizer/pkg/textgen"
)

// externalResult is what the external source contributed to a run
type externalResult struct {
	candidates []*models.Recommendation
	stats      normalizer.Stats
	status     models.ExternalStatus
	err        error
}

// collectExternal asks the external source for candidates within the
// configured timeout. Every failure is folded into the result; output
// produced after the deadline is discarded.
func (o *Optimizer) collectExternal(ctx context.Context, req textgen.Request, skip bool) externalResult {
	if skip {
		return externalResult{status: models.ExternalDisabled}
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.External.Timeout)
	defer cancel()

	done := make(chan externalResult, 1)
	go func() {
		blocks, err := o.source.Generate(ctx, req)
		if err != nil {
			done <- externalResult{err: err}
			return
		}
		recs, stats := o.normalizer.Normalize(blocks)
		done <- externalResult{candidates: recs, stats: stats}
	}()

	var res externalResult
	select {
	case res = <-done:
		if res.err == nil && ctx.Err() != nil {
			res = externalResult{err: ctx.Err()}
		}
	case <-ctx.Done():
		res = externalResult{err: ctx.Err()}
	}

	res.status = externalStatus(res)
	if res.status != models.ExternalOK {
		res.candidates = nil
	}

	entry := o.log.WithFields(logrus.Fields{
		"source": o.source.Name(),
		"status": res.status,
	})
	switch res.status {
	case models.ExternalTimeout, models.ExternalFailed:
		entry.WithError(res.err).Warn("External recommendation source skipped")
	default:
		entry.WithField("accepted", res.stats.Accepted).Debug("External recommendation source finished")
	}
	return res
}

func externalStatus(res externalResult) models.ExternalStatus {
	switch {
	case errors.Is(res.err, textgen.ErrSourceDisabled):
		return models.ExternalDisabled
	case errors.Is(res.err, context.DeadlineExceeded):
		return models.ExternalTimeout
	case errors.Is(res.err, textgen.ErrEmptyResponse):
		return models.ExternalEmpty
	case res.err != nil:
		return models.ExternalFailed
	case res.stats.Seen == 0:
		return models.ExternalEmpty
	default:
		return models.ExternalOK
	}
}
