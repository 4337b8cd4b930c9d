// Package ofx reads OFX/QFX bank and credit card statements and imports their
// lines as transactions.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/budget-manager/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tags at end of line that lost their closing bracket.
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Entry is one statement line. Amount is always positive; the sign decides Type.
type Entry struct {
	Date        time.Time
	Amount      decimal.Decimal
	FITID       string
	AccountID   string
	Description string
	Memo        string
	CheckNumber string
	TrnType     string
	Type        model.TransactionType
}

// Transaction converts the entry into a new transaction assigned to categoryID.
func (e Entry) Transaction(categoryID *string) (*model.Transaction, error) {
	var notes []string
	if e.Memo != "" && e.Memo != e.Description {
		notes = append(notes, e.Memo)
	}
	if e.CheckNumber != "" {
		notes = append(notes, "check "+e.CheckNumber)
	}
	return model.NewTransaction(model.TransactionParams{
		Amount:      e.Amount,
		Description: e.Description,
		CategoryID:  categoryID,
		Type:        e.Type,
		Date:        e.Date,
		Notes:       strings.Join(notes, "; "),
	})
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, &model.MalformedInputError{Input: "OFX file", Message: err.Error()}
	}
	return resp, nil
}

// ParseFile parses an OFX/QFX file and returns its statement lines in file order.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Entry, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			entries = append(entries, p.convertList(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID))...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			entries = append(entries, p.convertList(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))...)
		}
	}

	slog.InfoContext(ctx, "parsed OFX file",
		"entries", len(entries),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return entries, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList, accountID string) []Entry {
	if list == nil {
		return nil
	}
	entries := make([]Entry, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		entry, err := p.convertTransaction(ofxTx, accountID)
		if err != nil {
			slog.Warn("skipping unreadable OFX transaction",
				"fitid", string(ofxTx.FiTID),
				"error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// convertTransaction converts an OFX transaction. Credits become income and
// debits become expenses. The posting date is kept as a local calendar day.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, accountID string) (Entry, error) {
	amount, err := decimal.NewFromString(ofxTx.TrnAmt.Rat.FloatString(2))
	if err != nil {
		return Entry{}, fmt.Errorf("invalid amount: %w", err)
	}

	typ := model.TypeExpense
	if amount.IsPositive() {
		typ = model.TypeIncome
	}

	posted := ofxTx.DtPosted.Time
	return Entry{
		FITID:       string(ofxTx.FiTID),
		AccountID:   accountID,
		Date:        time.Date(posted.Year(), posted.Month(), posted.Day(), 0, 0, 0, 0, time.Local),
		Amount:      amount.Abs(),
		Type:        typ,
		Description: p.extractMerchantName(ofxTx),
		Memo:        strings.TrimSpace(string(ofxTx.Memo)),
		CheckNumber: string(ofxTx.CheckNum),
		TrnType:     ofxTx.TrnType.String(),
	}, nil
}

var merchantPrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"ACH CREDIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

// extractMerchantName tries to get a clean description from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}

	name = strings.TrimSpace(name)

	for _, prefix := range merchantPrefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " dates.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	if name == "" {
		name = tx.TrnType.String()
	}
	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}

// GetAccounts extracts unique account IDs from the OFX file.
func (p *Parser) GetAccounts(_ context.Context, reader io.Reader) ([]string, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var accounts []string
	add := func(id ofxgo.String) {
		if id != "" && !seen[string(id)] {
			seen[string(id)] = true
			accounts = append(accounts, string(id))
		}
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			add(stmt.BankAcctFrom.AcctID)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			add(stmt.CCAcctFrom.AcctID)
		}
	}

	return accounts, nil
}
