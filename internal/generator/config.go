package generator

// Config drives the synthetic transaction generator.
type Config struct {
	NumAccounts      int
	NumTransactions  int
	CycleRings       int
	FanInBursts      int
	FanOutBursts     int
	ShellChains      int
	VelocityAccounts int
	Seed             int64
}

// DefaultConfig returns baseline settings that produce a dataset every
// detector fires on.
func DefaultConfig() Config {
	return Config{
		NumAccounts:      500,
		NumTransactions:  5000,
		CycleRings:       3,
		FanInBursts:      2,
		FanOutBursts:     2,
		ShellChains:      3,
		VelocityAccounts: 2,
		Seed:             42,
	}
}
