package tracker

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// must is a helper for test to discard errors that cannot happen.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// samplePortfolio returns the portfolio used in most tests: 10 AAPL and 5 TSLA.
func samplePortfolio() *Portfolio {
	return NewPortfolio(
		NewLineItem("AAPL", Q(10), USD(180.50)),
		NewLineItem("TSLA", Q(5), USD(250.75)),
	)
}
