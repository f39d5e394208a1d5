package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Falleiro/Finova/internal/domain/account"
	"github.com/Falleiro/Finova/internal/domain/investment"
	"github.com/Falleiro/Finova/internal/domain/transaction"
)

// FormatBRL renders minor units as Brazilian currency, with dots grouping
// thousands and a comma before the centavos: -123456 becomes "-R$ 1.234,56".
func FormatBRL(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	reais := strconv.FormatInt(cents/100, 10)
	var grouped strings.Builder
	for i, digit := range reais {
		if i > 0 && (len(reais)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}

	return fmt.Sprintf("%sR$ %s,%02d", sign, grouped.String(), cents%100)
}

// FormatPercent renders a signed percentage with two decimals: "+4.05%".
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%+.2f%%", pct)
}

// LargeTransactionMessage builds the alert text for a movement that crossed
// the configured threshold.
func LargeTransactionMessage(tx *transaction.Transaction) string {
	direction := "debit"
	if !tx.IsDebit() {
		direction = "credit"
	}

	var b strings.Builder
	b.WriteString("🚨 *Large transaction detected*\n\n")
	fmt.Fprintf(&b, "Amount: *%s* (%s)\n", FormatBRL(tx.Amount), direction)
	fmt.Fprintf(&b, "Description: %s\n", tx.Description)
	if tx.Merchant != "" {
		fmt.Fprintf(&b, "Merchant: %s\n", tx.Merchant)
	}
	fmt.Fprintf(&b, "Category: %s\n", tx.Category)
	fmt.Fprintf(&b, "When: %s", tx.Timestamp.Format("02/01/2006 15:04"))
	return b.String()
}

// InvestmentAlertMessage builds the alert text for a position whose daily
// change crossed the swing threshold.
func InvestmentAlertMessage(inv *investment.Investment) string {
	emoji := "📈"
	if inv.DailyChangePct < 0 {
		emoji = "📉"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s moved %s today*\n\n", emoji, inv.Ticker, FormatPercent(inv.DailyChangePct))
	if inv.Name != "" && inv.Name != inv.Ticker {
		fmt.Fprintf(&b, "Asset: %s\n", inv.Name)
	}
	fmt.Fprintf(&b, "Current price: %s\n", FormatBRL(inv.CurrentPrice))
	fmt.Fprintf(&b, "Position value: %s", FormatBRL(inv.TotalValue))
	return b.String()
}

// DailySummaryMessage builds the morning digest for the previous 24 hours.
func DailySummaryMessage(now time.Time, summary Summary, accounts []*account.Account) string {
	var b strings.Builder
	fmt.Fprintf(&b, "☀️ *Daily summary* (%s)\n\n", now.Format("02/01/2006"))

	if summary.Count == 0 {
		b.WriteString("No transactions in the last 24 hours.\n")
	} else {
		fmt.Fprintf(&b, "Transactions: %d\n", summary.Count)
		fmt.Fprintf(&b, "Spent: %s\n", FormatBRL(summary.TotalDebits))
		fmt.Fprintf(&b, "Received: %s\n", FormatBRL(summary.TotalCredits))
		fmt.Fprintf(&b, "Net: %s\n", FormatBRL(summary.Net))

		if top := summary.TopCategories(3); len(top) > 0 {
			b.WriteString("\nTop spending:\n")
			for _, spend := range top {
				fmt.Fprintf(&b, "  • %s: %s\n", spend.Category, FormatBRL(spend.Amount))
			}
		}
	}

	if len(accounts) > 0 {
		b.WriteString("\n*Balances*\n")
		var total int64
		for _, acc := range accounts {
			fmt.Fprintf(&b, "  • %s: %s\n", acc.Institution, FormatBRL(acc.Balance))
			total += acc.Balance
		}
		fmt.Fprintf(&b, "  Total: %s", FormatBRL(total))
	}
	return strings.TrimRight(b.String(), "\n")
}

// MonthlyReportMessage builds the first-of-month report comparing the closed
// month against the one before it.
func MonthlyReportMessage(month time.Time, current, previous Summary) string {
	comparison := Compare(current, previous)

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Monthly report: %s*\n\n", month.Format("January 2006"))
	fmt.Fprintf(&b, "Transactions: %d\n", current.Count)
	fmt.Fprintf(&b, "Spent: %s\n", FormatBRL(current.TotalDebits))
	fmt.Fprintf(&b, "Received: %s\n", FormatBRL(current.TotalCredits))
	fmt.Fprintf(&b, "Net: %s\n", FormatBRL(current.Net))

	if top := current.TopCategories(5); len(top) > 0 {
		b.WriteString("\nSpending by category:\n")
		for _, spend := range top {
			fmt.Fprintf(&b, "  • %s: %s\n", spend.Category, FormatBRL(spend.Amount))
		}
	}

	b.WriteString("\n*Versus previous month*\n")
	if previous.Count == 0 {
		b.WriteString("No data for the previous month.")
		return b.String()
	}
	fmt.Fprintf(&b, "Spending: %s (%s)\n", FormatBRL(comparison.SpendingDelta), FormatPercent(comparison.SpendingDeltaPct))
	fmt.Fprintf(&b, "Income: %s\n", FormatBRL(comparison.IncomeDelta))
	fmt.Fprintf(&b, "Net: %s", FormatBRL(comparison.NetDelta))
	return b.String()
}

// InvestmentsMessage lists the portfolio, largest position first.
func InvestmentsMessage(investments []*investment.Investment) string {
	if len(investments) == 0 {
		return "No investment positions."
	}

	var b strings.Builder
	b.WriteString("💼 *Portfolio*\n\n")
	var total int64
	for _, inv := range investments {
		fmt.Fprintf(&b, "  • %s: %s (%s)\n", inv.Ticker, FormatBRL(inv.TotalValue), FormatPercent(inv.DailyChangePct))
		total += inv.TotalValue
	}
	fmt.Fprintf(&b, "\nTotal: %s", FormatBRL(total))
	return b.String()
}
