// Package generator produces synthetic transaction batches with planted
// laundering patterns so the detectors and the dashboard can be exercised
// without real data.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vanshika/muletrace/internal/domain"
)

var txTypes = []string{"transfer", "payment", "withdrawal", "deposit"}

// Generator synthesises a transaction batch from a seeded random source, so
// the same config always yields the same dataset.
type Generator struct {
	cfg  Config
	rand *rand.Rand
	base time.Time
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.NumAccounts <= 0 {
		cfg.NumAccounts = def.NumAccounts
	}
	if cfg.NumTransactions <= 0 {
		cfg.NumTransactions = def.NumTransactions
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
		base: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Generate builds the full batch: background noise plus planted cycles,
// fan-in/fan-out bursts, shell chains and high-velocity accounts.
func (g *Generator) Generate() []domain.Transaction {
	accounts := make([]string, g.cfg.NumAccounts)
	for i := range accounts {
		accounts[i] = fmt.Sprintf("ACC-%04d", i+1)
	}

	var txs []domain.Transaction
	txs = append(txs, g.noise(accounts)...)
	txs = append(txs, g.cycles()...)
	txs = append(txs, g.fanBursts("FIN", true)...)
	txs = append(txs, g.fanBursts("FOUT", false)...)
	txs = append(txs, g.shellChains(accounts)...)
	txs = append(txs, g.velocityBursts(accounts)...)

	g.rand.Shuffle(len(txs), func(i, j int) {
		txs[i], txs[j] = txs[j], txs[i]
	})
	return txs
}

func (g *Generator) noise(accounts []string) []domain.Transaction {
	txs := make([]domain.Transaction, 0, g.cfg.NumTransactions)
	for i := 0; i < g.cfg.NumTransactions; i++ {
		sender := accounts[g.rand.Intn(len(accounts))]
		receiver := accounts[g.rand.Intn(len(accounts))]
		if sender == receiver {
			receiver = accounts[(g.rand.Intn(len(accounts))+1)%len(accounts)]
		}
		txs = append(txs, g.tx(sender, receiver, g.randomAmount(), g.randomInstant(30*24*time.Hour)))
	}
	return txs
}

// cycles plants rings of 3 to 6 dedicated accounts passing money around.
func (g *Generator) cycles() []domain.Transaction {
	var txs []domain.Transaction
	for r := 0; r < g.cfg.CycleRings; r++ {
		size := 3 + g.rand.Intn(4)
		members := make([]string, size)
		for i := range members {
			members[i] = fmt.Sprintf("CYC-%d-%d", r+1, i+1)
		}
		start := g.randomInstant(20 * 24 * time.Hour)
		amount := g.randomAmount()
		for i := range members {
			next := members[(i+1)%size]
			txs = append(txs, g.tx(members[i], next, amount, start.Add(time.Duration(i)*6*time.Hour)))
		}
	}
	return txs
}

// fanBursts plants one hub per burst exchanging with 12 fresh counterparties
// inside a 48 hour span, comfortably above the 10-in-72h threshold.
func (g *Generator) fanBursts(prefix string, inbound bool) []domain.Transaction {
	count := g.cfg.FanInBursts
	if !inbound {
		count = g.cfg.FanOutBursts
	}
	var txs []domain.Transaction
	for r := 0; r < count; r++ {
		hub := fmt.Sprintf("%s-HUB-%d", prefix, r+1)
		start := g.randomInstant(20 * 24 * time.Hour)
		for i := 0; i < 12; i++ {
			cp := fmt.Sprintf("%s-%d-%d", prefix, r+1, i+1)
			ts := start.Add(time.Duration(g.rand.Intn(48)) * time.Hour)
			if inbound {
				txs = append(txs, g.tx(cp, hub, g.randomAmount(), ts))
			} else {
				txs = append(txs, g.tx(hub, cp, g.randomAmount(), ts))
			}
		}
	}
	return txs
}

// shellChains plants relay paths whose intermediates each touch exactly two
// transactions, inside the [2,3] shell activity band.
func (g *Generator) shellChains(accounts []string) []domain.Transaction {
	var txs []domain.Transaction
	for r := 0; r < g.cfg.ShellChains; r++ {
		hops := 2 + g.rand.Intn(3) // 2..4 intermediates, 4..6 accounts total
		chain := make([]string, 0, hops+2)
		chain = append(chain, accounts[g.rand.Intn(len(accounts))])
		for i := 0; i < hops; i++ {
			chain = append(chain, fmt.Sprintf("SHL-%d-%d", r+1, i+1))
		}
		chain = append(chain, accounts[g.rand.Intn(len(accounts))])

		start := g.randomInstant(20 * 24 * time.Hour)
		amount := g.randomAmount()
		for i := 0; i < len(chain)-1; i++ {
			txs = append(txs, g.tx(chain[i], chain[i+1], amount, start.Add(time.Duration(i)*3*time.Hour)))
		}
	}
	return txs
}

// velocityBursts plants accounts firing 20 transfers inside two hours.
func (g *Generator) velocityBursts(accounts []string) []domain.Transaction {
	var txs []domain.Transaction
	for r := 0; r < g.cfg.VelocityAccounts; r++ {
		src := fmt.Sprintf("VEL-%d", r+1)
		start := g.randomInstant(20 * 24 * time.Hour)
		for i := 0; i < 20; i++ {
			receiver := accounts[g.rand.Intn(len(accounts))]
			txs = append(txs, g.tx(src, receiver, g.randomAmount(), start.Add(time.Duration(i*6)*time.Minute)))
		}
	}
	return txs
}

func (g *Generator) tx(sender, receiver string, amount float64, ts time.Time) domain.Transaction {
	return domain.Transaction{
		SenderID:   sender,
		ReceiverID: receiver,
		Amount:     amount,
		Timestamp:  ts,
		Type:       txTypes[g.rand.Intn(len(txTypes))],
	}
}

func (g *Generator) randomAmount() float64 {
	return float64(g.rand.Intn(990000)+1000) / 100 // 10.00 .. 9909.99
}

func (g *Generator) randomInstant(span time.Duration) time.Time {
	return g.base.Add(time.Duration(g.rand.Int63n(int64(span))))
}
