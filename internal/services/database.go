package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/rocjay1/stmt-engine/internal/models"
	"github.com/shopspring/decimal"
)

// DatabaseService handles interactions with Azure Table Storage. Statement
// inputs and calculation results are partitioned by cut period (YYYY-MM).
type DatabaseService struct {
	serviceClient   *aztables.ServiceClient
	accountsTable   string
	movementsTable  string
	promotionsTable string
	resultsTable    string
}

// NewDatabaseService creates a new DatabaseService instance.
func NewDatabaseService() (*DatabaseService, error) {
	tableURL := os.Getenv("TABLE_SERVICE_URL")
	if tableURL == "" {
		return nil, fmt.Errorf("TABLE_SERVICE_URL environment variable is required")
	}

	accountsTable := os.Getenv("ACCOUNTS_TABLE")
	if accountsTable == "" {
		accountsTable = "accounts"
	}

	movementsTable := os.Getenv("MOVEMENTS_TABLE")
	if movementsTable == "" {
		movementsTable = "movements"
	}

	promotionsTable := os.Getenv("PROMOTIONS_TABLE")
	if promotionsTable == "" {
		promotionsTable = "promotions"
	}

	resultsTable := os.Getenv("RESULTS_TABLE")
	if resultsTable == "" {
		resultsTable = "results"
	}

	var client *aztables.ServiceClient

	// Check if running locally with Azurite (http endpoint)
	if isLocal(tableURL) {
		slog.Info("using Azurite credentials for database service")
		name, key := getAzuriteCredentials()
		cred, err := aztables.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		var err2 error
		client, err2 = aztables.NewServiceClientWithSharedKey(tableURL, cred, nil)
		if err2 != nil {
			return nil, fmt.Errorf("failed to create table service client with shared key: %w", err2)
		}
	} else {
		// Production: Managed Identity
		slog.Info("using default Azure credentials for database service")
		cred, err := newDefaultAzureCredential()
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		var err2 error
		client, err2 = aztables.NewServiceClient(tableURL, cred, nil)
		if err2 != nil {
			return nil, fmt.Errorf("failed to create table service client: %w", err2)
		}
	}

	svc := &DatabaseService{
		serviceClient:   client,
		accountsTable:   accountsTable,
		movementsTable:  movementsTable,
		promotionsTable: promotionsTable,
		resultsTable:    resultsTable,
	}

	// Ensure tables exist
	if err := svc.CreateTables(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	slog.Info("database service initialized successfully",
		"table_url", tableURL,
		"accounts_table", accountsTable,
		"movements_table", movementsTable,
		"promotions_table", promotionsTable,
		"results_table", resultsTable,
	)
	return svc, nil
}

// CreateTables ensures all required tables exist in Azure Table Storage.
func (s *DatabaseService) CreateTables(ctx context.Context) error {
	tables := []string{
		s.accountsTable,
		s.movementsTable,
		s.promotionsTable,
		s.resultsTable,
	}

	for _, tableName := range tables {
		_, err := s.serviceClient.CreateTable(ctx, tableName, nil)
		if err != nil {
			// Ignore error if table already exists
			var azErr *azcore.ResponseError
			if errors.As(err, &azErr) && azErr.ErrorCode == "TableAlreadyExists" {
				continue
			}
			return fmt.Errorf("failed to create table %s: %w", tableName, err)
		}
	}
	return nil
}

// getClient returns a client for the specified table.
func (s *DatabaseService) getClient(tableName string) *aztables.Client {
	return s.serviceClient.NewClient(tableName)
}

func getString(parsed map[string]any, key string) string {
	if v, ok := parsed[key].(string); ok {
		return v
	}
	return ""
}

func getDecimal(parsed map[string]any, key string) decimal.Decimal {
	if v, ok := parsed[key].(string); ok {
		d, _ := decimal.NewFromString(v)
		return d
	}
	if v, ok := parsed[key].(float64); ok {
		return decimal.NewFromFloat(v)
	}
	return decimal.Zero
}

func getNullDecimal(parsed map[string]any, key string) decimal.NullDecimal {
	if _, ok := parsed[key]; !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: getDecimal(parsed, key), Valid: true}
}

func getInt(parsed map[string]any, key string) int {
	if v, ok := parsed[key].(float64); ok {
		return int(v)
	}
	if v, ok := parsed[key].(string); ok {
		var i int
		fmt.Sscanf(v, "%d", &i)
		return i
	}
	return 0
}

// movementRowKey generates a deterministic unique key for a movement.
func movementRowKey(m models.Movement, index int) string {
	uniqueString := fmt.Sprintf("%s|%s|%s|%s|%d", m.AccountID, m.Date, m.Description, m.Amount.String(), index)
	hash := sha256.Sum256([]byte(uniqueString))
	return hex.EncodeToString(hash[:])
}

// submitChunked submits a transaction batch in chunks of 100, the table
// service limit per transaction.
func submitChunked(ctx context.Context, client *aztables.Client, batch []aztables.TransactionAction) error {
	const batchSize = 100
	for i := 0; i < len(batch); i += batchSize {
		end := i + batchSize
		if end > len(batch) {
			end = len(batch)
		}
		_, err := client.SubmitTransaction(ctx, batch[i:end], nil)
		if err != nil {
			return fmt.Errorf("failed to submit transaction batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// SaveStatementBatch persists the parsed inputs of a statement batch,
// upserting entities partitioned by the batch period. Decimal fields are
// stored as strings so no precision is lost on the round trip.
func (s *DatabaseService) SaveStatementBatch(ctx context.Context, batch *models.StatementBatch) error {
	var accountActions []aztables.TransactionAction
	for _, a := range batch.Accounts {
		entity := map[string]any{
			"PartitionKey":    batch.Period,
			"RowKey":          a.ID,
			"Product":         string(a.Product),
			"InterestProfile": a.InterestProfile,
			"CreditLimit":     a.CreditLimit.String(),
			"TotalCredits":    a.TotalCredits.String(),
			"TotalDebits":     a.TotalDebits.String(),
			"Overdraft":       a.Overdraft.String(),
			"CycleDays":       a.CycleDays,
		}
		if a.OpeningBalance.Valid {
			entity["OpeningBalance"] = a.OpeningBalance.Decimal.String()
		}
		if a.ClosingBalance.Valid {
			entity["ClosingBalance"] = a.ClosingBalance.Decimal.String()
		}
		entityJson, _ := json.Marshal(entity)
		accountActions = append(accountActions, aztables.TransactionAction{
			ActionType: aztables.TransactionTypeInsertReplace,
			Entity:     entityJson,
		})
	}
	if err := submitChunked(ctx, s.getClient(s.accountsTable), accountActions); err != nil {
		return err
	}

	var movementActions []aztables.TransactionAction
	index := 0
	for _, movements := range batch.Movements {
		for _, m := range movements {
			entity := map[string]any{
				"PartitionKey": batch.Period,
				"RowKey":       movementRowKey(m, index),
				"AccountID":    m.AccountID,
				"Date":         m.Date,
				"Description":  m.Description,
				"Amount":       m.Amount.String(),
			}
			index++
			entityJson, _ := json.Marshal(entity)
			movementActions = append(movementActions, aztables.TransactionAction{
				ActionType: aztables.TransactionTypeInsertReplace,
				Entity:     entityJson,
			})
		}
	}
	if err := submitChunked(ctx, s.getClient(s.movementsTable), movementActions); err != nil {
		return err
	}

	var promoActions []aztables.TransactionAction
	for accountID, p := range batch.Promotions {
		entity := map[string]any{
			"PartitionKey":    batch.Period,
			"RowKey":          accountID,
			"TypeLabel":       p.TypeLabel,
			"OriginalAmount":  p.OriginalAmount.String(),
			"TotalAmount":     p.TotalAmount.String(),
			"Installment":     p.Installment.String(),
			"AccruedInterest": p.AccruedInterest.String(),
			"OverdueAmount":   p.OverdueAmount.String(),
			"Overdraft":       p.Overdraft.String(),
			"Tax":             p.Tax.String(),
			"AnnualRate":      p.AnnualRate.String(),
			"PromoDays":       p.PromoDays,
		}
		entityJson, _ := json.Marshal(entity)
		promoActions = append(promoActions, aztables.TransactionAction{
			ActionType: aztables.TransactionTypeInsertReplace,
			Entity:     entityJson,
		})
	}
	if err := submitChunked(ctx, s.getClient(s.promotionsTable), promoActions); err != nil {
		return err
	}

	slog.Info("saved statement batch",
		"period", batch.Period,
		"accounts", len(batch.Accounts),
		"movements", index,
		"promotions", len(batch.Promotions),
	)
	return nil
}

// GetStatementBatch loads the stored statement inputs for a period.
func (s *DatabaseService) GetStatementBatch(ctx context.Context, period string) (*models.StatementBatch, error) {
	batch := &models.StatementBatch{
		Period:     period,
		Movements:  make(map[string][]models.Movement),
		Promotions: make(map[string]*models.Promotion),
	}

	filter := fmt.Sprintf("PartitionKey eq '%s'", period)

	pager := s.getClient(s.accountsTable).NewListEntitiesPager(&aztables.ListEntitiesOptions{
		Filter: &filter,
	})
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}
		for _, entity := range resp.Entities {
			var parsed map[string]any
			if err := json.Unmarshal(entity, &parsed); err != nil {
				continue
			}
			batch.Accounts = append(batch.Accounts, models.Account{
				ID:              getString(parsed, "RowKey"),
				Product:         models.CardProduct(getString(parsed, "Product")),
				InterestProfile: getString(parsed, "InterestProfile"),
				OpeningBalance:  getNullDecimal(parsed, "OpeningBalance"),
				ClosingBalance:  getNullDecimal(parsed, "ClosingBalance"),
				CreditLimit:     getDecimal(parsed, "CreditLimit"),
				TotalCredits:    getDecimal(parsed, "TotalCredits"),
				TotalDebits:     getDecimal(parsed, "TotalDebits"),
				Overdraft:       getDecimal(parsed, "Overdraft"),
				CycleDays:       getInt(parsed, "CycleDays"),
			})
		}
	}

	pager = s.getClient(s.movementsTable).NewListEntitiesPager(&aztables.ListEntitiesOptions{
		Filter: &filter,
	})
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list movements: %w", err)
		}
		for _, entity := range resp.Entities {
			var parsed map[string]any
			if err := json.Unmarshal(entity, &parsed); err != nil {
				continue
			}
			accountID := getString(parsed, "AccountID")
			batch.Movements[accountID] = append(batch.Movements[accountID], models.Movement{
				AccountID:   accountID,
				Date:        getString(parsed, "Date"),
				Description: getString(parsed, "Description"),
				Amount:      getDecimal(parsed, "Amount"),
			})
		}
	}

	pager = s.getClient(s.promotionsTable).NewListEntitiesPager(&aztables.ListEntitiesOptions{
		Filter: &filter,
	})
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list promotions: %w", err)
		}
		for _, entity := range resp.Entities {
			var parsed map[string]any
			if err := json.Unmarshal(entity, &parsed); err != nil {
				continue
			}
			accountID := getString(parsed, "RowKey")
			batch.Promotions[accountID] = &models.Promotion{
				AccountID:       accountID,
				TypeLabel:       getString(parsed, "TypeLabel"),
				OriginalAmount:  getDecimal(parsed, "OriginalAmount"),
				TotalAmount:     getDecimal(parsed, "TotalAmount"),
				Installment:     getDecimal(parsed, "Installment"),
				AccruedInterest: getDecimal(parsed, "AccruedInterest"),
				OverdueAmount:   getDecimal(parsed, "OverdueAmount"),
				Overdraft:       getDecimal(parsed, "Overdraft"),
				Tax:             getDecimal(parsed, "Tax"),
				AnnualRate:      getDecimal(parsed, "AnnualRate"),
				PromoDays:       getInt(parsed, "PromoDays"),
			}
		}
	}

	return batch, nil
}

// SaveResults upserts calculation results for a period.
func (s *DatabaseService) SaveResults(ctx context.Context, period string, results []*models.CalculationResult) error {
	client := s.getClient(s.resultsTable)

	var batch []aztables.TransactionAction
	timestamp := time.Now().Format(time.RFC3339)

	for _, r := range results {
		warningsJson, _ := json.Marshal(r.Warnings)
		entity := map[string]any{
			"PartitionKey":            period,
			"RowKey":                  r.AccountID,
			"Product":                 string(r.Product),
			"OpeningBalance":          r.OpeningBalance.String(),
			"ClosingBalance":          r.ClosingBalance.String(),
			"CreditLimit":             r.CreditLimit.String(),
			"Purchases":               r.Purchases.String(),
			"Commissions":             r.Commissions.String(),
			"Interest":                r.Interest.String(),
			"Tax":                     r.Tax.String(),
			"SubtotalBeforeTax":       r.SubtotalBeforeTax.String(),
			"SubtotalWithTax":         r.SubtotalWithTax.String(),
			"PaymentsCreditsResidual": r.PaymentsCreditsResidual.String(),
			"PromoBalance":            r.PromoBalance.String(),
			"T1":                      r.T1.String(),
			"T2":                      r.T2.String(),
			"T3":                      r.T3.String(),
			"MinimumPayment":          r.MinimumPayment.String(),
			"NoInterestPayment":       r.NoInterestPayment.String(),
			"OrdinaryInterest":        r.OrdinaryInterest.String(),
			"PromotionalInterest":     r.PromotionalInterest.String(),
			"InterestInFavor":         r.InterestInFavor.String(),
			"Warnings":                string(warningsJson),
			"CalculatedAt":            timestamp,
		}
		entityJson, _ := json.Marshal(entity)
		batch = append(batch, aztables.TransactionAction{
			ActionType: aztables.TransactionTypeInsertReplace,
			Entity:     entityJson,
		})
	}

	if err := submitChunked(ctx, client, batch); err != nil {
		return err
	}

	slog.Info("saved calculation results", "period", period, "count", len(results))
	return nil
}

// GetResults retrieves the calculation results stored for a period.
func (s *DatabaseService) GetResults(ctx context.Context, period string) ([]*models.CalculationResult, error) {
	client := s.getClient(s.resultsTable)

	filter := fmt.Sprintf("PartitionKey eq '%s'", period)
	pager := client.NewListEntitiesPager(&aztables.ListEntitiesOptions{
		Filter: &filter,
	})

	var results []*models.CalculationResult

	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list results: %w", err)
		}

		for _, entity := range resp.Entities {
			var parsed map[string]any
			if err := json.Unmarshal(entity, &parsed); err != nil {
				continue
			}

			var warnings []string
			if raw := getString(parsed, "Warnings"); raw != "" {
				_ = json.Unmarshal([]byte(raw), &warnings)
			}

			results = append(results, &models.CalculationResult{
				AccountID:               getString(parsed, "RowKey"),
				Product:                 models.CardProduct(getString(parsed, "Product")),
				OpeningBalance:          getDecimal(parsed, "OpeningBalance"),
				ClosingBalance:          getDecimal(parsed, "ClosingBalance"),
				CreditLimit:             getDecimal(parsed, "CreditLimit"),
				Purchases:               getDecimal(parsed, "Purchases"),
				Commissions:             getDecimal(parsed, "Commissions"),
				Interest:                getDecimal(parsed, "Interest"),
				Tax:                     getDecimal(parsed, "Tax"),
				SubtotalBeforeTax:       getDecimal(parsed, "SubtotalBeforeTax"),
				SubtotalWithTax:         getDecimal(parsed, "SubtotalWithTax"),
				PaymentsCreditsResidual: getDecimal(parsed, "PaymentsCreditsResidual"),
				PromoBalance:            getDecimal(parsed, "PromoBalance"),
				T1:                      getDecimal(parsed, "T1"),
				T2:                      getDecimal(parsed, "T2"),
				T3:                      getDecimal(parsed, "T3"),
				MinimumPayment:          getDecimal(parsed, "MinimumPayment"),
				NoInterestPayment:       getDecimal(parsed, "NoInterestPayment"),
				OrdinaryInterest:        getDecimal(parsed, "OrdinaryInterest"),
				PromotionalInterest:     getDecimal(parsed, "PromotionalInterest"),
				InterestInFavor:         getDecimal(parsed, "InterestInFavor"),
				Warnings:                warnings,
			})
		}
	}

	return results, nil
}
