package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AfshinJalili/txledger/services/ledger/internal/ledger"
	"github.com/shopspring/decimal"
)

const (
	columnType   = "type"
	columnClient = "client"
	columnTx     = "tx"
	columnAmount = "amount"
)

var ErrMissingHeader = errors.New("missing header row")

// Reader decodes transaction records from a CSV stream with a
// "type,client,tx,amount" header. Whitespace around fields is ignored and
// amounts are normalized to ledger.Scale fractional digits.
type Reader struct {
	csv     *csv.Reader
	columns map[string]int
	line    int
}

func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return &Reader{csv: cr}
}

// Next returns the next transaction, or io.EOF once the stream is exhausted.
// Any other error means the stream cannot be decoded any further.
func (r *Reader) Next() (ledger.Transaction, error) {
	if r.columns == nil {
		if err := r.readHeader(); err != nil {
			return ledger.Transaction{}, err
		}
	}

	record, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ledger.Transaction{}, io.EOF
		}
		return ledger.Transaction{}, fmt.Errorf("read record: %w", err)
	}
	r.line, _ = r.csv.FieldPos(0)

	tx, err := r.parse(record)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("line %d: %w", r.line, err)
	}
	return tx, nil
}

// Line reports the input line of the record last returned by Next.
func (r *Reader) Line() int {
	return r.line
}

func (r *Reader) readHeader() error {
	header, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ErrMissingHeader
		}
		return fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for idx, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = idx
	}
	for _, required := range []string{columnType, columnClient, columnTx} {
		if _, ok := columns[required]; !ok {
			return fmt.Errorf("header: %s column required", required)
		}
	}
	r.columns = columns
	return nil
}

func (r *Reader) field(record []string, column string) string {
	idx, ok := r.columns[column]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func (r *Reader) parse(record []string) (ledger.Transaction, error) {
	txType, err := ledger.ParseTransactionType(r.field(record, columnType))
	if err != nil {
		return ledger.Transaction{}, err
	}

	client, err := strconv.ParseUint(r.field(record, columnClient), 10, 16)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("invalid client: %w", err)
	}

	id, err := strconv.ParseUint(r.field(record, columnTx), 10, 32)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("invalid tx: %w", err)
	}

	tx := ledger.Transaction{
		Type:   txType,
		Client: ledger.ClientID(client),
		ID:     ledger.TxID(id),
	}

	if raw := r.field(record, columnAmount); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return ledger.Transaction{}, fmt.Errorf("invalid amount %q: %w", raw, err)
		}
		tx.Amount = ledger.NewAmount(amount)
	}
	return tx, nil
}
