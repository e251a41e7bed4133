// Package portfolio owns the CSV position store and the live snapshot and
// structure views built on top of it.
package portfolio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/kabu/internal/domain"
)

var csvHeader = []string{"symbol", "shares", "cost_price", "cost_currency", "account", "purchase_date", "memo"}

var (
	ErrPositionNotFound = errors.New("position not found")
	ErrAmbiguousAccount = errors.New("symbol held in multiple accounts, specify one")
	ErrOversell         = errors.New("sell exceeds held shares")
)

// Store is a CSV-backed position store. A single file holds the whole
// portfolio; every mutation rewrites it atomically via a temp file. There
// is no cross-process locking; concurrent writers are out of scope.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads all positions. A missing file is an empty portfolio. Rows
// with a blank symbol or non-positive shares are dropped.
func (s *Store) Load() ([]domain.Position, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open portfolio: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse portfolio csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols := map[string]int{}
	for i, name := range records[0] {
		cols[strings.TrimSpace(name)] = i
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var positions []domain.Position
	for _, row := range records[1:] {
		shares, _ := strconv.ParseFloat(field(row, "shares"), 64)
		costPrice, _ := strconv.ParseFloat(field(row, "cost_price"), 64)

		pos := domain.Position{
			Symbol:       field(row, "symbol"),
			Shares:       int(shares),
			CostPrice:    costPrice,
			CostCurrency: orDefault(field(row, "cost_currency"), domain.CurrencyJPY),
			Account:      orDefault(field(row, "account"), domain.DefaultAccount),
			PurchaseDate: field(row, "purchase_date"),
			Memo:         field(row, "memo"),
		}
		if pos.Symbol != "" && pos.Shares > 0 {
			positions = append(positions, pos)
		}
	}

	return positions, nil
}

// Save rewrites the whole file. The write goes to a temp file in the same
// directory first and is renamed into place, so a crash mid-write never
// leaves a truncated portfolio.
func (s *Store) Save(positions []domain.Position) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create portfolio dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".portfolio-*.csv")
	if err != nil {
		return fmt.Errorf("create temp portfolio: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(csvHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("write portfolio header: %w", err)
	}
	for _, pos := range positions {
		row := []string{
			pos.Symbol,
			strconv.Itoa(pos.Shares),
			formatPrice(pos.CostPrice),
			orDefault(pos.CostCurrency, domain.CurrencyJPY),
			orDefault(pos.Account, domain.DefaultAccount),
			pos.PurchaseDate,
			pos.Memo,
		}
		if err := writer.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("write portfolio row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush portfolio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp portfolio: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace portfolio: %w", err)
	}
	return nil
}

// Buy adds a new position, or merges into the existing row when symbol and
// account match, recomputing the weighted-average cost price. The purchase
// date moves to the newest buy.
func (s *Store) Buy(symbol string, shares int, costPrice float64, costCurrency, account, purchaseDate, memo string) (domain.Position, error) {
	if purchaseDate == "" {
		purchaseDate = time.Now().Format("2006-01-02")
	}
	account = orDefault(strings.TrimSpace(account), domain.DefaultAccount)
	costCurrency = orDefault(strings.TrimSpace(costCurrency), domain.CurrencyJPY)

	positions, err := s.Load()
	if err != nil {
		return domain.Position{}, err
	}

	for i := range positions {
		if !strings.EqualFold(positions[i].Symbol, symbol) || positions[i].Account != account {
			continue
		}
		p := &positions[i]
		total := p.Shares + shares
		if total > 0 {
			avg := (float64(p.Shares)*p.CostPrice + float64(shares)*costPrice) / float64(total)
			p.CostPrice = math.Round(avg*10000) / 10000
		} else {
			p.CostPrice = costPrice
		}
		p.Shares = total
		p.PurchaseDate = purchaseDate
		if memo != "" {
			p.Memo = memo
		}
		return positions[i], s.Save(positions)
	}

	pos := domain.Position{
		Symbol:       normalizeSymbol(symbol),
		Shares:       shares,
		CostPrice:    costPrice,
		CostCurrency: costCurrency,
		Account:      account,
		PurchaseDate: purchaseDate,
		Memo:         memo,
	}
	positions = append(positions, pos)
	return pos, s.Save(positions)
}

// Sell reduces a position by the given shares; reducing to zero removes the
// row. With an empty account the symbol must be held in exactly one
// account, otherwise the caller has to disambiguate.
func (s *Store) Sell(symbol string, shares int, account string) (domain.Position, error) {
	positions, err := s.Load()
	if err != nil {
		return domain.Position{}, err
	}

	account = strings.TrimSpace(account)

	var matches []int
	for i, pos := range positions {
		if !strings.EqualFold(pos.Symbol, symbol) {
			continue
		}
		if account != "" && pos.Account != account {
			continue
		}
		matches = append(matches, i)
	}

	if len(matches) == 0 {
		if account == "" {
			return domain.Position{}, fmt.Errorf("%w: %s", ErrPositionNotFound, symbol)
		}
		return domain.Position{}, fmt.Errorf("%w: %s in account %s", ErrPositionNotFound, symbol, account)
	}
	if account == "" && len(matches) > 1 {
		return domain.Position{}, fmt.Errorf("%w: %s", ErrAmbiguousAccount, symbol)
	}

	idx := matches[0]
	target := positions[idx]
	if shares > target.Shares {
		return domain.Position{}, fmt.Errorf("%w: %s (%s) holds %d, sell of %d requested",
			ErrOversell, symbol, target.Account, target.Shares, shares)
	}

	remaining := target.Shares - shares
	if remaining <= 0 {
		result := target
		result.Shares = 0
		positions = append(positions[:idx], positions[idx+1:]...)
		return result, s.Save(positions)
	}

	positions[idx].Shares = remaining
	return positions[idx], s.Save(positions)
}

// normalizeSymbol uppercases plain tickers but leaves suffixed symbols
// (7203.T, JPY.CASH) untouched.
func normalizeSymbol(symbol string) string {
	if strings.Contains(symbol, ".") {
		return symbol
	}
	return strings.ToUpper(symbol)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
