package statement

// Column describes one stored column of a statement table.
type Column struct {
	Key  string // storage column name
	Name string // reporting display name
	Spec string // SQL type spec (SQLite dialect; db layer maps other drivers)
}

// Schema is the fixed, ordered column layout of one statement kind. The
// first three columns are always (ticker, lastUpdate, dateIndex); the rest
// are metric columns holding delimited series fields.
type Schema struct {
	Table   string
	Columns []Column
}

// metricStart is the index of the first metric column.
const metricStart = 3

// Metrics returns the metric columns in schema order.
func (s *Schema) Metrics() []Column {
	return s.Columns[metricStart:]
}

// MetricKeys returns the metric column keys in schema order.
func (s *Schema) MetricKeys() []string {
	keys := make([]string, 0, len(s.Columns)-metricStart)
	for _, c := range s.Columns[metricStart:] {
		keys = append(keys, c.Key)
	}
	return keys
}

// HasMetric reports whether key names a metric column.
func (s *Schema) HasMetric(key string) bool {
	for _, c := range s.Columns[metricStart:] {
		if c.Key == key {
			return true
		}
	}
	return false
}

// DisplayName returns the reporting name for a metric key, or the key
// itself when unknown.
func (s *Schema) DisplayName(key string) string {
	for _, c := range s.Columns[metricStart:] {
		if c.Key == key {
			return c.Name
		}
	}
	return key
}

func leadingColumns() []Column {
	return []Column{
		{Key: "ticker", Name: "Ticker", Spec: "TEXT PRIMARY KEY"},
		{Key: "lastUpdate", Name: "Last updated", Spec: "TEXT NOT NULL"},
		{Key: "dateIndex", Name: "Report dates", Spec: "TEXT NOT NULL"},
	}
}

func metricColumns(pairs [][2]string) []Column {
	cols := make([]Column, 0, len(pairs))
	for _, p := range pairs {
		cols = append(cols, Column{Key: p[0], Name: p[1], Spec: "TEXT"})
	}
	return cols
}

// IncomeStatement is the income statement schema. Metric display names
// follow the reporting convention of the upstream market-data provider.
var IncomeStatement = &Schema{
	Table: "incomeStmt",
	Columns: append(leadingColumns(), metricColumns([][2]string{
		{"totRevenue", "Total Revenue"},
		{"costRevenue", "Cost of Revenue"},
		{"grossProfit", "Gross Profit"},
		{"opExpense", "Operating Expense"},
		{"opIncome", "Operating Income"},
		{"nnoiIncomeExp", "Net Non Operating Interest Income Expense"},
		{"othIncomeExp", "Other Income Expense"},
		{"pretaxIncome", "Pretax Income"},
		{"taxProvision", "Tax Provision"},
		{"nics", "Net Income Common Stockholders"},
		{"dilutedNI", "Diluted NI Available to Com Stockholders"},
		{"basicEPS", "Basic EPS"},
		{"dilutedEPS", "Diluted EPS"},
		{"bAvgShares", "Basic Average Shares"},
		{"dAvgShares", "Diluted Average Shares"},
		{"totOpIncome", "Total Operating Income as Reported"},
		{"totExpense", "Total Expenses"},
		{"netIncome", "Net Income from Continuing & Discontinued Operation"},
		{"normIncome", "Normalized Income"},
		{"intIncome", "Interest Income"},
		{"intExpense", "Interest Expense"},
		{"netIntInc", "Net Interest Income"},
		{"ebit", "EBIT"},
		{"ebitda", "EBITDA"},
		{"recCostOfRev", "Reconciled Cost of Revenue"},
		{"recDepr", "Reconciled Depreciation"},
		{"netContInc", "Net Income from Continuing Operation Net Minority Interest"},
		{"totUnusual", "Total Unusual Items"},
		{"normEbitda", "Normalized EBITDA"},
		{"calcTaxRate", "Tax Rate for Calcs"},
		{"teuItems", "Tax Effect of Unusual Items"},
	})...),
}

// BalanceSheet is the balance sheet schema.
var BalanceSheet = &Schema{
	Table: "balanceSheet",
	Columns: append(leadingColumns(), metricColumns([][2]string{
		{"totAssets", "Total Assets"},
		{"totLiab", "Total Liabilities Net Minority Interest"},
		{"totEquity", "Total Equity Gross Minority Interest"},
		{"totCap", "Total Capitalization"},
		{"csEquity", "Common Stock Equity"},
		{"capLeaseObl", "Capital Lease Obligations"},
		{"netTangAssets", "Net Tangible Assets"},
		{"workingCap", "Working Capital"},
		{"investedCap", "Invested Capital"},
		{"tangBookVal", "Tangible Book Value"},
		{"totDebt", "Total Debt"},
		{"netDebt", "Net Debt"},
		{"shareIssued", "Share Issued"},
	})...),
}

// CashFlow is the cash flow statement schema.
var CashFlow = &Schema{
	Table: "cashFlowStmt",
	Columns: append(leadingColumns(), metricColumns([][2]string{
		{"opCashFlow", "Operating Cash Flow"},
		{"invCashFlow", "Investing Cash Flow"},
		{"finCashFlow", "Financing Cash Flow"},
		{"endCashPos", "End Cash Position"},
		{"capExp", "Capital Expenditure"},
		{"issCap", "Issuance of Capital Stock"},
		{"issDebt", "Issuance of Debt"},
		{"repDebt", "Repayment of Debt"},
		{"repStock", "Repurchase of Capital Stock"},
		{"freeCashFlow", "Free Cash Flow"},
	})...),
}

// Schemas lists every statement schema keyed by the short kind name used
// in config, the HTTP API and the market-data adapter.
var Schemas = map[string]*Schema{
	"income":   IncomeStatement,
	"balance":  BalanceSheet,
	"cashflow": CashFlow,
}

// SchemaFor resolves a statement kind name.
func SchemaFor(kind string) (*Schema, bool) {
	s, ok := Schemas[kind]
	return s, ok
}
