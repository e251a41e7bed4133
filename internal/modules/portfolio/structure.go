package portfolio

import (
	"context"

	"github.com/aristath/kabu/internal/domain"
	"github.com/aristath/kabu/internal/modules/concentration"
)

// Structure runs the concentration analysis over the valued portfolio.
func (s *Service) Structure(ctx context.Context) (domain.ConcentrationResult, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return domain.ConcentrationResult{}, err
	}
	return StructureOf(snapshot), nil
}

// StructureOf maps holdings to concentration inputs. Exposed separately so
// callers that already hold a snapshot skip the second fetch.
func StructureOf(snapshot domain.Snapshot) domain.ConcentrationResult {
	inputs := make([]concentration.Input, 0, len(snapshot.Holdings))
	for _, h := range snapshot.Holdings {
		inputs = append(inputs, concentration.Input{
			Symbol:   h.Symbol,
			Sector:   h.Sector,
			Region:   h.Country,
			Currency: h.MarketCurrency,
			ValueJPY: h.ValueJPY,
		})
	}
	return concentration.Analyze(inputs)
}
