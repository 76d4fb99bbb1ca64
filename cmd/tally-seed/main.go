// Command tally-seed fills a data file with generated expenses. It is meant
// for trying out the UI and the summary endpoints against realistic data.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"tally/internal/cli"
	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/rates"
	"tally/internal/service"
	"tally/internal/store/jsonfile"
)

var seedCategories = []string{
	"Food", "Travel", "Rent", "Utilities",
	"Entertainment", "Health", "Books", "Clothing",
}

func main() {
	count := flag.Int("count", 50, "number of expenses to generate")
	file := flag.String("file", "", "data file to write (defaults to DATA_FILE)")
	months := flag.Int("months", 6, "spread expenses over this many past months")
	seed := flag.Int64("seed", 0, "random seed (0 picks one)")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(log.ComponentSeed)

	cfg := cli.LoadAndValidateConfig(logger)
	path := *file
	if path == "" {
		path = cfg.DataFile
	}

	st, err := jsonfile.Open(path)
	if err != nil {
		logger.Error("Failed to open data file", log.FieldError, err, "path", path)
		os.Exit(1)
	}

	converter := rates.NewConverter()
	expenses := service.NewExpenseService(st, converter, cfg.BaseCurrency)

	faker := gofakeit.New(*seed)
	currencies := converter.Currencies()
	start := time.Now().AddDate(0, -*months, 0)

	ctx := context.Background()
	for i := 0; i < *count; i++ {
		when := faker.DateRange(start, time.Now())

		// Roughly a quarter of the records land in a foreign currency.
		currency := cfg.BaseCurrency
		if faker.Number(1, 4) == 1 {
			currency = currencies[faker.Number(0, len(currencies)-1)]
		}

		exp := core.Expense{
			Amount:      core.Money{Cents: int64(math.Round(faker.Price(1, 250) * 100))},
			Currency:    currency,
			Category:    seedCategories[faker.Number(0, len(seedCategories)-1)],
			Date:        core.NewDate(when.Year(), int(when.Month()), when.Day()),
			Description: faker.Sentence(3),
		}

		if _, err := expenses.Create(ctx, exp); err != nil {
			logger.Error("Failed to seed expense", log.FieldError, err, log.FieldCategory, exp.Category)
			os.Exit(1)
		}
	}

	logger.Info("Seed complete",
		"count", *count,
		"path", st.Path(),
		"base_currency", cfg.BaseCurrency)
	fmt.Printf("wrote %d expenses to %s\n", *count, st.Path())
}
