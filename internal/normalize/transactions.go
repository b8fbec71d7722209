package normalize

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	"homespend/internal/core"
	"homespend/internal/workbook"
)

// Result carries the converted rows plus drop accounting for caller
// visibility. Dropped rows are absorbed silently beyond the count.
type Result struct {
	Transactions []core.Transaction
	Dropped      int
}

// Transactions converts a reconciled table into canonical transactions.
// Rows whose date or amount fail to parse, or whose amount is not
// positive, are dropped and counted. Blank labels get their sentinel.
func (n *Normalizer) Transactions(t workbook.Table) Result {
	var res Result
	for i := range t.Rows {
		date, err := n.Date(t.Cell(i, workbook.ColDate))
		if err != nil {
			res.Dropped++
			continue
		}
		amount, err := n.Amount(t.Cell(i, workbook.ColAmount))
		if err != nil || !amount.IsPositive() {
			res.Dropped++
			continue
		}

		res.Transactions = append(res.Transactions, core.Transaction{
			ID:          rowID(t, i),
			Date:        date,
			Amount:      amount,
			Category:    orSentinel(t.Cell(i, workbook.ColBusiness), core.SentinelCategory),
			Description: orSentinel(t.Cell(i, workbook.ColLocation), core.SentinelDescription),
			Bank:        orSentinel(t.Cell(i, workbook.ColBank), core.SentinelBank),
			CardSuffix:  CardSuffix(t.Cell(i, workbook.ColCard)),
			Responsible: strings.TrimSpace(t.Cell(i, workbook.ColResponsible)),
		})
	}
	return res
}

// rowID prefers the source MessageID, then the source ID. Rows carrying
// neither get a generated identifier so uniqueness holds within the load.
func rowID(t workbook.Table, row int) string {
	if id := strings.TrimSpace(t.Cell(row, workbook.ColMessageID)); id != "" {
		return id
	}
	if id := strings.TrimSpace(t.Cell(row, workbook.ColID)); id != "" {
		return id
	}
	return uuid.NewString()
}

// CardSuffix extracts the last four digits of a card cell. Shorter values
// are returned as their digits; non-digit noise is ignored.
func CardSuffix(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, raw)
	if len(digits) > 4 {
		return digits[len(digits)-4:]
	}
	return digits
}

func orSentinel(v, sentinel string) string {
	if strings.TrimSpace(v) == "" {
		return sentinel
	}
	return v
}
