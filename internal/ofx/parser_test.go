package ofx

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spice-budget/internal/model"
)

type stmtLine struct {
	trnType, day, amount, fitID, name, memo, checkNum string
}

// statement renders a minimal OFX 1.02 SGML file for one account in March 2024.
func statement(creditCard bool, account string, lines ...stmtLine) string {
	var b strings.Builder
	b.WriteString("OFXHEADER:100\nDATA:OFXSGML\nVERSION:102\nSECURITY:NONE\nENCODING:USASCII\n" +
		"CHARSET:1252\nCOMPRESSION:NONE\nOLDFILEUID:NONE\nNEWFILEUID:NONE\n\n<OFX>\n")
	b.WriteString("<SIGNONMSGSRSV1>\n<SONRS>\n<STATUS>\n<CODE>0\n<SEVERITY>INFO\n</STATUS>\n" +
		"<DTSERVER>20240331120000[0:GMT]\n<LANGUAGE>POR\n</SONRS>\n</SIGNONMSGSRSV1>\n")

	msgs, trnrs, stmtrs := "BANKMSGSRSV1", "STMTTRNRS", "STMTRS"
	from := "<BANKACCTFROM>\n<BANKID>341\n<ACCTID>" + account + "\n<ACCTTYPE>CHECKING\n</BANKACCTFROM>\n"
	if creditCard {
		msgs, trnrs, stmtrs = "CREDITCARDMSGSRSV1", "CCSTMTTRNRS", "CCSTMTRS"
		from = "<CCACCTFROM>\n<ACCTID>" + account + "\n</CCACCTFROM>\n"
	}

	fmt.Fprintf(&b, "<%s>\n<%s>\n<TRNUID>1\n<STATUS>\n<CODE>0\n<SEVERITY>INFO\n</STATUS>\n<%s>\n<CURDEF>BRL\n%s",
		msgs, trnrs, stmtrs, from)
	b.WriteString("<BANKTRANLIST>\n<DTSTART>20240301120000[0:GMT]\n<DTEND>20240331120000[0:GMT]\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "<STMTTRN>\n<TRNTYPE>%s\n<DTPOSTED>202403%s120000[0:GMT]\n<TRNAMT>%s\n<FITID>%s\n",
			l.trnType, l.day, l.amount, l.fitID)
		if l.checkNum != "" {
			fmt.Fprintf(&b, "<CHECKNUM>%s\n", l.checkNum)
		}
		fmt.Fprintf(&b, "<NAME>%s\n", l.name)
		if l.memo != "" {
			fmt.Fprintf(&b, "<MEMO>%s\n", l.memo)
		}
		b.WriteString("</STMTTRN>\n")
	}
	b.WriteString("</BANKTRANLIST>\n<LEDGERBAL>\n<BALAMT>3410.30\n<DTASOF>20240331120000[0:GMT]\n</LEDGERBAL>\n")
	fmt.Fprintf(&b, "</%s>\n</%s>\n</%s>\n</OFX>", stmtrs, trnrs, msgs)
	return b.String()
}

var (
	checkingOFX = statement(false, "12345-6",
		stmtLine{trnType: "DEBIT", day: "05", amount: "-89.90", fitID: "CHK0305", name: "COMPRA CARTAO DEB PADARIA REAL"},
		stmtLine{trnType: "DEBIT", day: "08", amount: "-1200.00", fitID: "CHK0308", name: "PIX ENVIADO IMOBILIARIA LAR"},
		stmtLine{trnType: "CHECK", day: "10", amount: "-300.00", fitID: "CHK0310", name: "CHECK #1234", checkNum: "1234"},
		stmtLine{trnType: "DIRECTDEP", day: "15", amount: "5000.00", fitID: "CHK0315", name: "SALARIO ACME LTDA"},
	)
	cardOFX = statement(true, "5555444433332222",
		stmtLine{trnType: "DEBIT", day: "11", amount: "-159.80", fitID: "CC0311", name: "IFOOD *RESTAURANTE"},
		stmtLine{trnType: "DEBIT", day: "18", amount: "-55.90", fitID: "CC0318", name: "NETFLIX.COM"},
	)
)

func parse(t *testing.T, opts Options, data string) []Entry {
	t.Helper()
	entries, err := NewParser(opts).ParseFile(context.Background(), strings.NewReader(data))
	require.NoError(t, err)
	return entries
}

func TestParseFile(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    int
		wantErr bool
	}{
		{name: "checking statement", data: checkingOFX, want: 4},
		{name: "credit card statement", data: cardOFX, want: 2},
		{name: "leading blank lines", data: "\n\n  " + cardOFX, want: 2},
		{name: "empty statement", data: statement(false, "12345-6"), want: 0},
		{name: "not OFX", data: "date,amount\n2024-03-01,10", wantErr: true},
		{name: "empty input", data: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := NewParser(Options{}).ParseFile(context.Background(), strings.NewReader(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, entries, tt.want)
		})
	}
}

func TestParseFile_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser(Options{}).ParseFile(ctx, strings.NewReader(checkingOFX))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseChecking(t *testing.T) {
	entries := parse(t, Options{IncomeCategoryID: "1", ExpenseCategoryID: "4"}, checkingOFX)
	require.Len(t, entries, 4)

	bakery := entries[0]
	assert.Equal(t, "CHK0305", bakery.FitID)
	assert.Equal(t, "12345-6", bakery.AccountID)
	assert.Equal(t, model.TransactionDraft{
		Date:          "2024-03-05",
		Description:   "PADARIA REAL",
		CategoryID:    "4",
		Type:          model.TypeExpense,
		Status:        model.StatusCompleted,
		PaymentMethod: model.PaymentDebit,
		Amount:        decimal.RequireFromString("89.90"),
	}, normalized(bakery.Draft))

	rent := entries[1]
	assert.Equal(t, "IMOBILIARIA LAR", rent.Draft.Description)
	assert.Equal(t, model.PaymentInstantTransfer, rent.Draft.PaymentMethod)
	assert.True(t, rent.Draft.Amount.Equal(decimal.NewFromInt(1200)))

	check := entries[2]
	assert.Equal(t, "CHECK #1234", check.Draft.Description)
	assert.Empty(t, check.Draft.PaymentMethod)

	salary := entries[3]
	assert.Equal(t, model.TypeIncome, salary.Draft.Type)
	assert.Equal(t, "1", salary.Draft.CategoryID)
	assert.Equal(t, model.PaymentInstantTransfer, salary.Draft.PaymentMethod)
	assert.True(t, salary.Draft.Amount.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, "2024-03-15", salary.Draft.Date)
}

// normalized re-parses the amount so decimal exponents compare equal.
func normalized(d model.TransactionDraft) model.TransactionDraft {
	d.Amount = decimal.RequireFromString(d.Amount.StringFixed(2))
	return d
}

func TestParseCreditCard(t *testing.T) {
	entries := parse(t, Options{}, cardOFX)
	require.Len(t, entries, 2)

	food := entries[0]
	assert.Equal(t, "CC0311", food.FitID)
	assert.Equal(t, "5555444433332222", food.AccountID)
	assert.Equal(t, "IFOOD *RESTAURANTE", food.Draft.Description)
	assert.Equal(t, model.PaymentCredit, food.Draft.PaymentMethod)
	assert.Empty(t, food.Draft.CategoryID, "uncategorized without options")
	assert.True(t, food.Draft.Amount.Equal(decimal.RequireFromString("159.8")))

	drafts := Drafts(entries)
	require.Len(t, drafts, 2)
	assert.Equal(t, entries[1].Draft, drafts[1])
}

func TestMerchantName(t *testing.T) {
	tests := []struct {
		name, input, memo string
		payee             string
		want              string
		method            model.PaymentMethod
	}{
		{name: "pix sent", input: "PIX ENVIADO Maria Souza", want: "Maria Souza", method: model.PaymentInstantTransfer},
		{name: "pix received", input: "PIX RECEBIDO ACME LTDA", want: "ACME LTDA", method: model.PaymentInstantTransfer},
		{name: "debit card", input: "COMPRA CARTAO DEB MERCADO BOM", want: "MERCADO BOM", method: model.PaymentDebit},
		{name: "card without kind", input: "COMPRA CARTAO FARMACIA", want: "FARMACIA"},
		{name: "pos purchase", input: "POS PURCHASE CORNER CAFE", want: "CORNER CAFE", method: model.PaymentDebit},
		{name: "clean name kept", input: "NETFLIX.COM", want: "NETFLIX.COM"},
		{name: "surrounding space", input: "  LOJAS CENTRO  ", want: "LOJAS CENTRO"},
		{name: "generic name uses memo", input: "PAGAMENTO", memo: "CONTA DE LUZ", want: "CONTA DE LUZ"},
		{name: "leading date dropped", input: "14/03 PADARIA REAL", want: "PADARIA REAL"},
		{name: "payee wins", input: "PIX ENVIADO X", payee: "Escola Aurora", want: "Escola Aurora"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := ofxgo.Transaction{Name: ofxgo.String(tt.input), Memo: ofxgo.String(tt.memo)}
			if tt.payee != "" {
				tx.Payee = &ofxgo.Payee{Name: ofxgo.String(tt.payee)}
			}
			got, method := merchantName(tx)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.method, method)
		})
	}
}

func TestDedupe(t *testing.T) {
	entries := parse(t, Options{}, cardOFX)

	kept, skipped := Dedupe(nil, entries)
	assert.Len(t, kept, 2)
	assert.Zero(t, skipped)

	existing := []model.Transaction{entries[0].Draft.WithID("a")}
	existing[0].Description = " ifood *restaurante"
	kept, skipped = Dedupe(existing, entries)
	require.Len(t, kept, 1)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, "CC0318", kept[0].FitID)

	doubled := append(append([]Entry(nil), entries...), entries...)
	kept, skipped = Dedupe(nil, doubled)
	assert.Len(t, kept, 2)
	assert.Equal(t, 2, skipped)
}

func TestFingerprint(t *testing.T) {
	base := Fingerprint("2024-03-05", "Padaria Real", model.TypeExpense, decimal.RequireFromString("89.9"))

	assert.Equal(t, base, Fingerprint("2024-03-05", " PADARIA REAL ", model.TypeExpense, decimal.RequireFromString("89.90")))
	assert.NotEqual(t, base, Fingerprint("2024-03-05", "Padaria Real", model.TypeExpense, decimal.RequireFromString("90")))
	assert.NotEqual(t, base, Fingerprint("2024-03-06", "Padaria Real", model.TypeExpense, decimal.RequireFromString("89.9")))
	assert.NotEqual(t, base, Fingerprint("2024-03-05", "Padaria Real", model.TypeIncome, decimal.RequireFromString("89.9")))
}

func TestAccounts(t *testing.T) {
	entries := append(parse(t, Options{}, checkingOFX), parse(t, Options{}, cardOFX)...)
	assert.Equal(t, []string{"12345-6", "5555444433332222"}, Accounts(entries))
	assert.Empty(t, Accounts(nil))
}
