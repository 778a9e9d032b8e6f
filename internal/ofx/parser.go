// Package ofx turns OFX/QFX bank and credit card statements into transaction drafts.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/spice-budget/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Options controls how statement lines become drafts.
type Options struct {
	// IncomeCategoryID is assigned to credits. Empty leaves them uncategorized.
	IncomeCategoryID string
	// ExpenseCategoryID is assigned to debits. Empty leaves them uncategorized.
	ExpenseCategoryID string
}

// Entry is one parsed statement line.
type Entry struct {
	FitID     string
	AccountID string
	Draft     model.TransactionDraft
}

// Parser implements OFX/QFX file parsing.
type Parser struct {
	opts Options
}

// NewParser creates a new OFX parser.
func NewParser(opts Options) *Parser {
	return &Parser{opts: opts}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Some SGML exports drop the closing bracket of a bare opening tag.
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

func (p *Parser) parse(ctx context.Context, reader io.Reader) (*ofxgo.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile parses an OFX/QFX file and returns its statement lines in file order.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Entry, error) {
	resp, err := p.parse(ctx, reader)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			entries = append(entries, p.convertList(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID), false)...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			entries = append(entries, p.convertList(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID), true)...)
		}
	}

	slog.Info("parsed OFX file",
		"total_transactions", len(entries),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return entries, nil
}

// Drafts returns the drafts of entries, in order.
func Drafts(entries []Entry) []model.TransactionDraft {
	out := make([]model.TransactionDraft, len(entries))
	for i, e := range entries {
		out[i] = e.Draft
	}
	return out
}

func (p *Parser) convertList(list *ofxgo.TransactionList, accountID string, creditCard bool) []Entry {
	if list == nil {
		return nil
	}
	entries := make([]Entry, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		entry, err := p.convertTransaction(ofxTx, accountID, creditCard)
		if err != nil {
			slog.Warn("skipping OFX transaction",
				"account", accountID,
				"fitid", string(ofxTx.FiTID),
				"error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// convertTransaction maps one statement line. Debits (negative amounts) become
// expenses and credits become income; the stored amount is always non-negative.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, accountID string, creditCard bool) (Entry, error) {
	amount, err := decimal.NewFromString(ofxTx.TrnAmt.FloatString(2))
	if err != nil {
		return Entry{}, fmt.Errorf("invalid amount: %w", err)
	}

	description, method := merchantName(ofxTx)
	draft := model.TransactionDraft{
		Date:        ofxTx.DtPosted.Time.Format(model.DateLayout),
		Description: description,
		Status:      model.StatusCompleted,
		Amount:      amount.Abs(),
	}
	if amount.IsNegative() {
		draft.Type = model.TypeExpense
		draft.CategoryID = p.opts.ExpenseCategoryID
	} else {
		draft.Type = model.TypeIncome
		draft.CategoryID = p.opts.IncomeCategoryID
	}

	switch ofxTx.TrnType {
	case ofxgo.TrnTypeCheck:
		if draft.Description == "" && ofxTx.CheckNum != "" {
			draft.Description = "Check #" + string(ofxTx.CheckNum)
		}
	case ofxgo.TrnTypeATM, ofxgo.TrnTypeCash:
		method = model.PaymentCash
	case ofxgo.TrnTypePOS:
		method = model.PaymentDebit
	case ofxgo.TrnTypeXfer, ofxgo.TrnTypeDirectDep, ofxgo.TrnTypeDirectDebit:
		method = model.PaymentInstantTransfer
	}
	if method == "" && creditCard {
		method = model.PaymentCredit
	}
	draft.PaymentMethod = method

	return Entry{
		FitID:     string(ofxTx.FiTID),
		AccountID: accountID,
		Draft:     draft,
	}, nil
}

// namePrefixes are bank boilerplate stripped from statement names. A non-empty
// method is what the prefix says about how the money moved.
var namePrefixes = []struct {
	prefix string
	method model.PaymentMethod
}{
	{"PIX ENVIADO ", model.PaymentInstantTransfer},
	{"PIX RECEBIDO ", model.PaymentInstantTransfer},
	{"PIX ", model.PaymentInstantTransfer},
	{"TED ", model.PaymentInstantTransfer},
	{"ACH DEBIT ", model.PaymentInstantTransfer},
	{"COMPRA CARTAO DEB ", model.PaymentDebit},
	{"DEBIT CARD PURCHASE ", model.PaymentDebit},
	{"POS PURCHASE ", model.PaymentDebit},
	{"CHECK CARD ", model.PaymentDebit},
	{"COMPRA CARTAO ", ""},
	{"PURCHASE AUTHORIZED ON ", ""},
	{"VISA PURCHASE ", ""},
}

// genericNames carry no merchant; the memo is used instead when present.
var genericNames = map[string]bool{
	"DEBIT": true, "CREDIT": true, "PURCHASE": true, "PAYMENT": true,
	"POS TRANSACTION": true, "CARD PURCHASE": true,
	"PAGAMENTO": true, "COMPRA": true, "TRANSFERENCIA": true,
}

// leadingDate matches the "DD/MM " or "MM/DD " some banks put before the name.
var leadingDate = regexp.MustCompile(`^\d{2}/\d{2}\s+`)

// merchantName picks the cleanest description a statement line offers and
// the payment method its wording implies, if any.
func merchantName(tx ofxgo.Transaction) (string, model.PaymentMethod) {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name)), ""
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && genericNames[strings.ToUpper(name)] {
		name = strings.TrimSpace(string(tx.Memo))
	}

	var method model.PaymentMethod
	upper := strings.ToUpper(name)
	for _, np := range namePrefixes {
		if strings.HasPrefix(upper, np.prefix) {
			name, method = name[len(np.prefix):], np.method
			break
		}
	}
	return strings.TrimSpace(leadingDate.ReplaceAllString(name, "")), method
}

// Accounts returns the distinct account ids of entries in first-seen order.
func Accounts(entries []Entry) []string {
	seen := make(map[string]bool)
	var accounts []string
	for _, e := range entries {
		if e.AccountID != "" && !seen[e.AccountID] {
			seen[e.AccountID] = true
			accounts = append(accounts, e.AccountID)
		}
	}
	return accounts
}
