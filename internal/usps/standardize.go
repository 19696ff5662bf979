package usps

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/civicpost/internal/model"
)

// Strategy names one attempt of the standardization cascade. Each
// strategy states exactly which inputs it mutates so the logs reproduce
// the decision.
type Strategy string

const (
	// StrategyAsIs sends address1 and address2 separately.
	StrategyAsIs Strategy = "as_is"
	// StrategyCombine concatenates address2 onto address1.
	StrategyCombine Strategy = "combine_adr1_adr2"
	// StrategySwap sends address2 as address1, for pages that put the
	// street on the second line.
	StrategySwap Strategy = "swap_adr1_adr2"
	// StrategyDropZip clears zip5 and retries as-is, for pages with a
	// wrong zip but correct city and state.
	StrategyDropZip Strategy = "drop_zip"
)

// StandardizeError reports that every cascade strategy was exhausted for
// an address. It carries the pre-standardized address for the report.
type StandardizeError struct {
	Adr  model.Address
	Last error
}

func (e *StandardizeError) Error() string {
	return fmt.Sprintf("failed to standardize address %s: %v", e.Adr, e.Last)
}

func (e *StandardizeError) Unwrap() error {
	return e.Last
}

// StandardizeAddresses standardizes each address in place through the
// strategy cascade, then deduplicates the result. The cascade stops at
// the first strategy the lookup accepts; exhausting all four is fatal for
// the pipeline run.
func (c *Client) StandardizeAddresses(ctx context.Context, adrs []model.Address) ([]model.Address, error) {
	for i := range adrs {
		if err := c.standardize(ctx, &adrs[i]); err != nil {
			return nil, err
		}
	}
	return model.SortDedupAddresses(adrs), nil
}

func (c *Client) standardize(ctx context.Context, adr *model.Address) error {
	var lastErr error
	for _, strategy := range []Strategy{StrategyAsIs, StrategyCombine, StrategySwap, StrategyDropZip} {
		err := c.standardizeWith(ctx, adr, strategy)
		if err == nil {
			return nil
		}
		lastErr = err
		c.log.Debug("standardize attempt failed",
			slog.String("strategy", string(strategy)),
			slog.String("address", adr.String()),
			slog.String("error", err.Error()))
	}
	return &StandardizeError{Adr: *adr, Last: lastErr}
}

// standardizeWith runs one strategy. On success the address is
// overwritten with the chosen canonical candidate.
func (c *Client) standardizeWith(ctx context.Context, adr *model.Address, strategy Strategy) error {
	prms := make([][2]string, 0, 5)
	switch strategy {
	case StrategyAsIs, StrategyDropZip:
		if adr.Address1 != "" {
			prms = append(prms, [2]string{"address1", adr.Address1})
		}
		if adr.Address2 != "" {
			prms = append(prms, [2]string{"address2", adr.Address2})
		}
	case StrategyCombine:
		address1 := adr.Address1
		if adr.Address2 != "" {
			address1 += " " + adr.Address2
		}
		prms = append(prms, [2]string{"address1", address1})
	case StrategySwap:
		if adr.Address2 == "" {
			return fmt.Errorf("no address2 to swap to address1")
		}
		prms = append(prms, [2]string{"address1", adr.Address2})
	}

	if adr.City != "" {
		prms = append(prms, [2]string{"city", adr.City})
	}
	if adr.State != "" {
		prms = append(prms, [2]string{"state", adr.State})
	}
	if strategy != StrategyDropZip && adr.Zip5 != 0 {
		prms = append(prms, [2]string{"zip", fmt.Sprintf("%05d", adr.Zip5)})
	}

	candidates, err := c.lookup(ctx, prms)
	if err != nil {
		return err
	}

	// Candidates whose first line contains "Range" are incomplete hits.
	kept := candidates[:0]
	for _, cand := range candidates {
		if !strings.Contains(cand.AddressLine1, "Range") {
			kept = append(kept, cand)
		}
	}
	if len(kept) == 0 {
		return fmt.Errorf("over filtered response, no address left")
	}

	chosen := kept[0]
	if len(kept) > 1 {
		// Prefer the candidate with no second line.
		for _, cand := range kept {
			if cand.AddressLine2 == "" {
				chosen = cand
				break
			}
		}
	}

	if strategy == StrategyDropZip {
		adr.Zip5 = 0
	}
	applyCandidate(adr, chosen)
	return nil
}

func applyCandidate(adr *model.Address, usps LookupAddress) {
	adr.Address1 = usps.AddressLine1
	adr.Address2 = usps.AddressLine2
	adr.City = usps.City
	adr.State = usps.State
	if n, err := strconv.ParseUint(usps.Zip5, 10, 32); err == nil {
		adr.Zip5 = uint32(n)
	}
	if usps.Zip4 != "" {
		if n, err := strconv.ParseUint(usps.Zip4, 10, 16); err == nil {
			adr.Zip4 = uint16(n)
		}
	}
	adr.DeliveryPoint = usps.DeliveryPoint
}
