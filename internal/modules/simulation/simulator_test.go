package simulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestRun(t *testing.T) {
	t.Run("nil base return makes simulation impossible", func(t *testing.T) {
		_, ok := Run(Params{CurrentValue: 1000000, Years: 10})
		assert.False(t, ok)
	})

	t.Run("reinvested compounding", func(t *testing.T) {
		result, ok := Run(Params{
			CurrentValue:      5000000,
			Base:              ptr(0.12),
			DividendYield:     0.026,
			Years:             3,
			ReinvestDividends: true,
		})
		require.True(t, ok)
		require.Len(t, result.Base, 4)

		// year 1 = 5,000,000*1.12 + 5,000,000*0.026 = 5,730,000
		assert.InDelta(t, 5730000, result.Base[1].Value, 1e-6)
		// year 2 compounds on the reinvested balance
		assert.InDelta(t, 5730000*1.146, result.Base[2].Value, 1e-6)

		y1 := result.Base[1]
		assert.InDelta(t, 5000000, y1.CumulativeInput, 1e-6)
		assert.InDelta(t, 130000, y1.CumulativeDividends, 1e-6)
		// capital gain = 5,730,000 - 5,000,000 - 130,000
		assert.InDelta(t, 600000, y1.CapitalGain, 1e-6)
	})

	t.Run("paid-out dividends tracked but not compounded", func(t *testing.T) {
		result, ok := Run(Params{
			CurrentValue:      5000000,
			Base:              ptr(0.12),
			DividendYield:     0.026,
			Years:             1,
			ReinvestDividends: false,
		})
		require.True(t, ok)
		assert.InDelta(t, 5600000, result.Base[1].Value, 1e-6)
		assert.InDelta(t, 130000, result.Base[1].CumulativeDividends, 1e-6)
		assert.InDelta(t, 600000, result.Base[1].CapitalGain, 1e-6)
	})

	t.Run("monthly contributions accumulate", func(t *testing.T) {
		result, ok := Run(Params{
			CurrentValue: 1000000,
			Base:         ptr(0.05),
			Years:        2,
			MonthlyAdd:   10000,
		})
		require.True(t, ok)
		// year 1 = 1,000,000*1.05 + 120,000 = 1,170,000
		assert.InDelta(t, 1170000, result.Base[1].Value, 1e-6)
		assert.InDelta(t, 1120000, result.Base[1].CumulativeInput, 1e-6)
		// year 2 = 1,170,000*1.05 + 120,000 = 1,348,500
		assert.InDelta(t, 1348500, result.Base[2].Value, 1e-6)
	})

	t.Run("nil scenarios skipped", func(t *testing.T) {
		result, ok := Run(Params{
			CurrentValue: 1000000,
			Base:         ptr(0.05),
			Optimistic:   ptr(0.10),
			Years:        2,
		})
		require.True(t, ok)
		assert.NotNil(t, result.Optimistic)
		assert.Nil(t, result.Pessimistic)
	})
}

func TestTargetYear(t *testing.T) {
	t.Run("linear interpolation between years", func(t *testing.T) {
		// 1 + (6,000,000-5,700,000)/(6,498,000-5,700,000) = 1.37594
		year := TargetYear([]float64{5000000, 5700000, 6498000}, 6000000)
		require.NotNil(t, year)
		assert.InDelta(t, 1.376, *year, 0.001)
	})

	t.Run("already at target", func(t *testing.T) {
		year := TargetYear([]float64{6000000, 6300000}, 6000000)
		require.NotNil(t, year)
		assert.Zero(t, *year)
	})

	t.Run("never reached", func(t *testing.T) {
		assert.Nil(t, TargetYear([]float64{5000000, 5100000}, 6000000))
	})

	t.Run("flat segment lands on the crossing year", func(t *testing.T) {
		year := TargetYear([]float64{100, 200, 200}, 150)
		require.NotNil(t, year)
		assert.InDelta(t, 0.5, *year, 1e-9)
	})
}

func TestRequiredMonthly(t *testing.T) {
	t.Run("closed form annuity inversion", func(t *testing.T) {
		// eff = 0.05, FV = 1,000,000*1.05^10 = 1,628,894.6
		// gap = 371,105.4; annuity factor = (1.05^10-1)/0.05 = 12.5779
		got := RequiredMonthly(1000000, 0.05, 0, 2000000, 10, true)
		fv := 1000000 * math.Pow(1.05, 10)
		want := (2000000 - fv) / ((math.Pow(1.05, 10) - 1) / 0.05) / 12
		assert.InDelta(t, want, got, 1e-6)
	})

	t.Run("reinvested yield raises the effective rate", func(t *testing.T) {
		withYield := RequiredMonthly(1000000, 0.05, 0.02, 3000000, 10, true)
		withoutYield := RequiredMonthly(1000000, 0.05, 0.02, 3000000, 10, false)
		assert.Less(t, withYield, withoutYield)
	})

	t.Run("zero effective rate splits the gap evenly", func(t *testing.T) {
		got := RequiredMonthly(1000000, 0, 0, 1120000, 1, false)
		assert.InDelta(t, 10000, got, 1e-9)
	})

	t.Run("already funded needs nothing", func(t *testing.T) {
		assert.Zero(t, RequiredMonthly(1000000, 0.10, 0, 1000000, 10, true))
	})
}

func TestRunTargetSolving(t *testing.T) {
	target := 6000000.0
	result, ok := Run(Params{
		CurrentValue:      5000000,
		Base:              ptr(0.12),
		Optimistic:        ptr(0.20),
		Pessimistic:       ptr(-0.05),
		DividendYield:     0.026,
		Years:             3,
		ReinvestDividends: true,
		Target:            &target,
	})
	require.True(t, ok)

	require.NotNil(t, result.TargetYearBase)
	require.NotNil(t, result.TargetYearOptimistic)
	assert.Less(t, *result.TargetYearOptimistic, *result.TargetYearBase)
	assert.Nil(t, result.TargetYearPessimistic)
	// base reaches the target, so no contribution advice
	assert.Nil(t, result.RequiredMonthly)

	t.Run("required monthly appears when base falls short", func(t *testing.T) {
		far := 20000000.0
		r, ok := Run(Params{
			CurrentValue:      5000000,
			Base:              ptr(0.02),
			DividendYield:     0.01,
			Years:             5,
			ReinvestDividends: true,
			Target:            &far,
		})
		require.True(t, ok)
		assert.Nil(t, r.TargetYearBase)
		require.NotNil(t, r.RequiredMonthly)
		assert.Greater(t, *r.RequiredMonthly, 0.0)
	})
}

func TestDividendEffect(t *testing.T) {
	result, ok := Run(Params{
		CurrentValue:      1000000,
		Base:              ptr(0.05),
		DividendYield:     0.02,
		Years:             2,
		ReinvestDividends: true,
	})
	require.True(t, ok)

	// with: 1,000,000 -> 1,070,000 -> 1,144,900
	// without: 1,000,000 -> 1,050,000 -> 1,102,500
	assert.InDelta(t, 42400, result.DividendEffect, 1e-6)
	assert.InDelta(t, 42400.0/1102500, result.DividendEffectPct, 1e-9)

	t.Run("zero yield has no effect", func(t *testing.T) {
		r, ok := Run(Params{CurrentValue: 1000000, Base: ptr(0.05), Years: 2})
		require.True(t, ok)
		assert.Zero(t, r.DividendEffect)
	})
}
