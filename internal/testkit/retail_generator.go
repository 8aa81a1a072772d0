package testkit

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"discoveryspark/internal/dataset"
)

// RetailGeneratorConfig configures the retail demo data generator
type RetailGeneratorConfig struct {
	CustomerCount int       `json:"customer_count"`
	SaleCount     int       `json:"sale_count"`
	StartDate     time.Time `json:"start_date"`
	Seed          int64     `json:"seed"`
}

// DefaultRetailConfig returns sensible defaults for retail data generation
func DefaultRetailConfig() RetailGeneratorConfig {
	return RetailGeneratorConfig{
		CustomerCount: 100,
		SaleCount:     500,
		StartDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:          42,
	}
}

// RetailDataGenerator generates a deterministic customers/sales dataset:
// a parent table of customers (age, segment, churn) and a child table of
// sales (amount, category, date). Churn is biased toward high-spend,
// low-frequency customers so analyses find real structure.
type RetailDataGenerator struct {
	config RetailGeneratorConfig
	rng    *rand.Rand
}

// NewRetailDataGenerator creates a seeded generator
func NewRetailDataGenerator(config RetailGeneratorConfig) *RetailDataGenerator {
	return &RetailDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

var segments = []string{"Premium", "Standard", "Economy"}
var categories = []string{"Food", "Electronics", "Fashion", "Home"}

// GenerateTables produces the parent and child tables in memory
func (g *RetailDataGenerator) GenerateTables() (*dataset.Table, *dataset.Table) {
	customers := &dataset.Table{
		Name:    "customers",
		Role:    dataset.RoleParent,
		KeyCol:  "customer_id",
		Headers: []string{"customer_id", "age", "segment", "churn"},
	}

	sales := &dataset.Table{
		Name:    "sales",
		Role:    dataset.RoleChild,
		KeyCol:  "customer_id",
		Headers: []string{"sale_id", "customer_id", "amount", "category", "sale_date"},
	}

	// Per-customer spending profile drives both sales and churn
	avgSpend := make([]float64, g.config.CustomerCount)
	orderShare := make([]float64, g.config.CustomerCount)
	shareTotal := 0.0
	for i := range avgSpend {
		avgSpend[i] = 10.0 + g.rng.Float64()*490.0
		orderShare[i] = 0.2 + g.rng.Float64()
		shareTotal += orderShare[i]
	}

	for i := 0; i < g.config.CustomerCount; i++ {
		churn := 0
		// High spenders with a thin share of orders churn more often
		risk := 0.15 + 0.5*(avgSpend[i]/500.0) - 0.3*(orderShare[i]/1.2)
		if g.rng.Float64() < risk {
			churn = 1
		}
		customers.Rows = append(customers.Rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(18 + g.rng.Intn(52)),
			segments[g.rng.Intn(len(segments))],
			strconv.Itoa(churn),
		})
	}

	for s := 0; s < g.config.SaleCount; s++ {
		customer := g.pickCustomer(orderShare, shareTotal)
		amount := avgSpend[customer] * (0.6 + g.rng.Float64()*0.8)
		date := g.config.StartDate.Add(time.Duration(s) * time.Hour)
		sales.Rows = append(sales.Rows, []string{
			strconv.Itoa(s + 1),
			strconv.Itoa(customer + 1),
			strconv.FormatFloat(amount, 'f', 2, 64),
			categories[g.rng.Intn(len(categories))],
			date.Format("2006-01-02 15:04:05"),
		})
	}

	return customers, sales
}

// pickCustomer samples a customer index weighted by order share
func (g *RetailDataGenerator) pickCustomer(shares []float64, total float64) int {
	r := g.rng.Float64() * total
	for i, share := range shares {
		r -= share
		if r <= 0 {
			return i
		}
	}
	return len(shares) - 1
}

// WriteDataset writes the generated tables and mapping file into the
// standard project layout (datasetDir/customers.csv, sales.csv and the
// mapping file).
func (g *RetailDataGenerator) WriteDataset(datasetDir, mappingPath string) error {
	customers, sales := g.GenerateTables()

	if err := os.MkdirAll(datasetDir, 0o755); err != nil {
		return err
	}
	if err := writeTableCSV(filepath.Join(datasetDir, "customers.csv"), customers); err != nil {
		return err
	}
	if err := writeTableCSV(filepath.Join(datasetDir, "sales.csv"), sales); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(mappingPath), 0o755); err != nil {
		return err
	}
	mapping := fmt.Sprintf("%s:parent|%s#%s:child|%s\n",
		customers.Name, customers.KeyCol, sales.Name, sales.KeyCol)
	return os.WriteFile(mappingPath, []byte(mapping), 0o644)
}

func writeTableCSV(path string, t *dataset.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Headers); err != nil {
		return err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
