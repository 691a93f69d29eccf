package indicator

import "math"

// SMA calculates the trailing Simple Moving Average.
// The result is aligned 1:1 with prices; the first period-1 entries are NaN
// because not enough trailing history exists there.
func SMA(prices []float64, period int) []float64 {
	result := warmup(len(prices))
	if len(prices) < period {
		return result
	}

	// Calculate first SMA
	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	result[period-1] = sum / float64(period)

	// Rolling calculation
	for i := period; i < len(prices); i++ {
		sum = sum - prices[i-period] + prices[i]
		result[i] = sum / float64(period)
	}

	return result
}

// EMA calculates the Exponential Moving Average with the same alignment as
// SMA: NaN for the first period-1 entries, seeded with the SMA of the first
// period prices.
func EMA(prices []float64, period int) []float64 {
	result := warmup(len(prices))
	if len(prices) < period {
		return result
	}

	multiplier := 2.0 / float64(period+1)

	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	ema := sum / float64(period)
	result[period-1] = ema

	for i := period; i < len(prices); i++ {
		ema = (prices[i]-ema)*multiplier + ema
		result[i] = ema
	}

	return result
}

// Defined reports whether the indicator value at index i exists.
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

// warmup returns an all-NaN slice; callers fill in the defined region.
func warmup(n int) []float64 {
	result := make([]float64, n)
	for i := range result {
		result[i] = math.NaN()
	}
	return result
}
