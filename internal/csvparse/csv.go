// Package csvparse loads statement record bundles (accounts, movements,
// promotions) from CSV content into models. Row-level problems are
// collected as error messages so one bad row never sinks a bundle.
package csvparse

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/rocjay1/stmt-engine/internal/models"
	"github.com/shopspring/decimal"
)

func readRows(content string) ([]map[string]string, []string) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, []string{fmt.Sprintf("Failed to read CSV: %v", err)}
	}
	if len(records) < 2 {
		return nil, nil // Empty or header-only
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]map[string]string, 0, len(records)-1)
	var errors []string
	for i, record := range records[1:] {
		if len(record) < len(headers) {
			errors = append(errors, fmt.Sprintf("Row %d: Not enough fields", i+2))
			continue
		}
		row := make(map[string]string, len(headers))
		for j, h := range headers {
			row[h] = strings.TrimSpace(record[j])
		}
		rows = append(rows, row)
	}
	return rows, errors
}

func parseDecimal(row map[string]string, key string) (decimal.Decimal, error) {
	v := row[key]
	if v == "" {
		return decimal.Zero, nil
	}
	dec, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %s", key, v)
	}
	return dec, nil
}

func parseNullDecimal(row map[string]string, key string) (decimal.NullDecimal, error) {
	v := row[key]
	if v == "" {
		return decimal.NullDecimal{}, nil
	}
	dec, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid %s: %s", key, v)
	}
	return decimal.NullDecimal{Decimal: dec, Valid: true}, nil
}

func parseInt(row map[string]string, key string) (int, error) {
	v := row[key]
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, v)
	}
	return n, nil
}

// ParseAccounts parses account records from a CSV string. It returns the
// parsed accounts and a list of error messages for invalid rows.
func ParseAccounts(content string) ([]models.Account, []string) {
	rows, errors := readRows(content)
	var accounts []models.Account

	for i, row := range rows {
		rowNum := i + 2
		id := row["ID"]
		if id == "" {
			errors = append(errors, fmt.Sprintf("Row %d: missing ID", rowNum))
			continue
		}

		acct := models.Account{
			ID:              id,
			Product:         models.CardProduct(strings.ToUpper(row["Product"])),
			InterestProfile: row["InterestProfile"],
		}

		fail := func(err error) bool {
			if err != nil {
				errors = append(errors, fmt.Sprintf("Row %d: %v", rowNum, err))
				return true
			}
			return false
		}

		var err error
		acct.OpeningBalance, err = parseNullDecimal(row, "OpeningBalance")
		if fail(err) {
			continue
		}
		acct.ClosingBalance, err = parseNullDecimal(row, "ClosingBalance")
		if fail(err) {
			continue
		}
		acct.CreditLimit, err = parseDecimal(row, "CreditLimit")
		if fail(err) {
			continue
		}
		acct.TotalCredits, err = parseDecimal(row, "TotalCredits")
		if fail(err) {
			continue
		}
		acct.TotalDebits, err = parseDecimal(row, "TotalDebits")
		if fail(err) {
			continue
		}
		acct.Overdraft, err = parseDecimal(row, "Overdraft")
		if fail(err) {
			continue
		}
		acct.CycleDays, err = parseInt(row, "CycleDays")
		if fail(err) {
			continue
		}

		accounts = append(accounts, acct)
	}
	return accounts, errors
}

// ParseMovements parses movement records from a CSV string.
func ParseMovements(content string) ([]models.Movement, []string) {
	rows, errors := readRows(content)
	var movements []models.Movement

	for i, row := range rows {
		rowNum := i + 2
		accountID := row["AccountID"]
		if accountID == "" {
			errors = append(errors, fmt.Sprintf("Row %d: missing AccountID", rowNum))
			continue
		}

		amount, err := parseDecimal(row, "Amount")
		if err != nil {
			errors = append(errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}

		movements = append(movements, models.Movement{
			AccountID:   accountID,
			Date:        row["Date"],
			Description: row["Description"],
			Amount:      amount,
		})
	}
	return movements, errors
}

// ParsePromotions parses promotion records from a CSV string. Numeric
// fields left empty default to zero; only the account ID is required.
func ParsePromotions(content string) ([]models.Promotion, []string) {
	rows, errors := readRows(content)
	var promotions []models.Promotion

	for i, row := range rows {
		rowNum := i + 2
		accountID := row["AccountID"]
		if accountID == "" {
			errors = append(errors, fmt.Sprintf("Row %d: missing AccountID", rowNum))
			continue
		}

		p := models.Promotion{
			AccountID: accountID,
			TypeLabel: row["TypeLabel"],
		}

		fields := []struct {
			dst *decimal.Decimal
			key string
		}{
			{&p.OriginalAmount, "OriginalAmount"},
			{&p.TotalAmount, "TotalAmount"},
			{&p.Installment, "Installment"},
			{&p.AccruedInterest, "AccruedInterest"},
			{&p.OverdueAmount, "OverdueAmount"},
			{&p.Overdraft, "Overdraft"},
			{&p.Tax, "Tax"},
			{&p.AnnualRate, "AnnualRate"},
		}

		var err error
		for _, f := range fields {
			if *f.dst, err = parseDecimal(row, f.key); err != nil {
				break
			}
		}
		if err == nil {
			p.PromoDays, err = parseInt(row, "PromoDays")
		}
		if err != nil {
			errors = append(errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}

		promotions = append(promotions, p)
	}
	return promotions, errors
}

// BuildBatch assembles parsed records into a statement batch keyed by
// account. Movements and promotions referencing unknown accounts are
// reported and kept out of the batch; at most one promotion per account
// is retained.
func BuildBatch(period string, accounts []models.Account, movements []models.Movement, promotions []models.Promotion) (*models.StatementBatch, []string) {
	batch := &models.StatementBatch{
		Period:     period,
		Accounts:   accounts,
		Movements:  make(map[string][]models.Movement),
		Promotions: make(map[string]*models.Promotion),
	}

	known := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		known[a.ID] = true
	}

	var errors []string
	for _, m := range movements {
		if !known[m.AccountID] {
			errors = append(errors, fmt.Sprintf("movement for unknown account %s", m.AccountID))
			continue
		}
		batch.Movements[m.AccountID] = append(batch.Movements[m.AccountID], m)
	}
	for i := range promotions {
		p := promotions[i]
		if !known[p.AccountID] {
			errors = append(errors, fmt.Sprintf("promotion for unknown account %s", p.AccountID))
			continue
		}
		if _, exists := batch.Promotions[p.AccountID]; exists {
			errors = append(errors, fmt.Sprintf("duplicate promotion for account %s, keeping the first", p.AccountID))
			continue
		}
		batch.Promotions[p.AccountID] = &p
	}
	return batch, errors
}
