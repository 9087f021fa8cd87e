// Package common provides the CSV export layer shared by the conversion
// commands: one file per transaction category plus a failures file.
package common

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"mmony/momo-csv/internal/fileutils"
	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/models"
	"mmony/momo-csv/internal/sink"

	"github.com/gocarina/gocsv"
)

// FailuresFileName is the name of the failures export inside an output directory.
const FailuresFileName = "failures.csv"

// CategoryFileName returns the export file name for a category.
func CategoryFileName(c models.Category) string {
	return string(c) + ".csv"
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TCSVRow any](filePath string, delimiter rune, logger logging.Logger) ([]TCSVRow, error) {
	logger = logging.OrDefault(logger)
	logger.Debug("Reading CSV file", logging.F(logging.FieldFile, filePath))

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file", logging.F(logging.FieldFile, filePath))
		}
	}()

	rows, err := decodeRows[TCSVRow](file, delimiter)
	if err != nil {
		return nil, fmt.Errorf("error parsing CSV file %s: %w", filePath, err)
	}

	logger.Debug("Successfully read CSV data",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(rows)))
	return rows, nil
}

func decodeRows[T any](r io.Reader, delimiter rune) ([]T, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter

	var rows []T
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, err
	}
	return rows, nil
}

// rowCodec converts between the transaction interface and one concrete
// variant's CSV rows.
type rowCodec struct {
	write func(txs []models.Transaction, w *gocsv.SafeCSVWriter) error
	read  func(r io.Reader, delimiter rune) ([]models.Transaction, error)
}

func codecFor[T models.Transaction]() rowCodec {
	return rowCodec{
		write: func(txs []models.Transaction, w *gocsv.SafeCSVWriter) error {
			rows := make([]T, 0, len(txs))
			for _, tx := range txs {
				if row, ok := tx.(T); ok {
					rows = append(rows, row)
				}
			}
			return gocsv.MarshalCSV(rows, w)
		},
		read: func(r io.Reader, delimiter rune) ([]models.Transaction, error) {
			rows, err := decodeRows[T](r, delimiter)
			if err != nil {
				return nil, err
			}
			txs := make([]models.Transaction, 0, len(rows))
			for _, row := range rows {
				txs = append(txs, row)
			}
			return txs, nil
		},
	}
}

var codecs = map[models.Category]rowCodec{
	models.CategoryIncomingMoney:          codecFor[models.IncomingMoney](),
	models.CategoryPaymentToCodeHolder:    codecFor[models.PaymentToCodeHolder](),
	models.CategoryTransferToMobile:       codecFor[models.TransferToMobile](),
	models.CategoryBankDeposit:            codecFor[models.BankDeposit](),
	models.CategoryAirtimeBillPayment:     codecFor[models.AirtimeBillPayment](),
	models.CategoryCashPowerBillPayment:   codecFor[models.CashPowerBillPayment](),
	models.CategoryThirdPartyTransaction:  codecFor[models.ThirdPartyTransaction](),
	models.CategoryWithdrawalFromAgent:    codecFor[models.WithdrawalFromAgent](),
	models.CategoryBankTransfer:           codecFor[models.BankTransfer](),
	models.CategoryInternetBundlePurchase: codecFor[models.InternetBundlePurchase](),
	models.CategoryVoiceBundlePurchase:    codecFor[models.VoiceBundlePurchase](),
}

// CSVStore writes and re-reads category exports with a fixed delimiter.
type CSVStore struct {
	delimiter rune
	logger    logging.Logger
}

// NewCSVStore creates a CSVStore. A zero delimiter means a comma.
func NewCSVStore(delimiter rune, logger logging.Logger) *CSVStore {
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSVStore{delimiter: delimiter, logger: logging.OrDefault(logger)}
}

// Delimiter returns the field separator in use.
func (s *CSVStore) Delimiter() rune {
	return s.delimiter
}

// WriteCategory writes the transactions of one category to
// <dir>/<category>.csv, replacing any previous file, and returns its path.
// Transactions of other categories are skipped.
func (s *CSVStore) WriteCategory(dir string, category models.Category, txs []models.Transaction) (string, error) {
	codec, ok := codecs[category]
	if !ok {
		return "", fmt.Errorf("no CSV layout for category %q", category)
	}

	path := filepath.Join(dir, CategoryFileName(category))
	err := s.writeFile(path, func(w *gocsv.SafeCSVWriter) error {
		return codec.write(txs, w)
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("Wrote category export",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldCategory, string(category)),
		logging.F(logging.FieldCount, len(txs)))
	return path, nil
}

// WriteSink writes one file per category present in the sink, in category
// table order, and returns the paths written. Files of categories absent from
// the sink are removed, so the directory holds exactly the sink's records.
func (s *CSVStore) WriteSink(dir string, records *sink.Sink) ([]string, error) {
	present := make(map[models.Category]bool)
	for _, c := range records.Categories() {
		present[c] = true
	}

	var paths []string
	for _, c := range models.TransactionCategories {
		if !present[c] {
			if err := s.removeStale(filepath.Join(dir, CategoryFileName(c))); err != nil {
				return paths, err
			}
			continue
		}
		path, err := s.WriteCategory(dir, c, records.ByCategory(c))
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *CSVStore) removeStale(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error removing stale export %s: %w", path, err)
	}
	s.logger.Info("Removed stale category export", logging.F(logging.FieldOutputFile, path))
	return nil
}

// WriteFailures writes the failure records to <dir>/failures.csv.
func (s *CSVStore) WriteFailures(dir string, failures []models.FailureRecord) (string, error) {
	if failures == nil {
		failures = []models.FailureRecord{}
	}

	path := filepath.Join(dir, FailuresFileName)
	err := s.writeFile(path, func(w *gocsv.SafeCSVWriter) error {
		return gocsv.MarshalCSV(failures, w)
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("Wrote failures export",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldFailures, len(failures)))
	return path, nil
}

func (s *CSVStore) writeFile(path string, marshal func(w *gocsv.SafeCSVWriter) error) (err error) {
	file, err := fileutils.CreateFile(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing CSV file %s: %w", path, cerr)
		}
	}()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = s.delimiter

	if err := marshal(gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data to %s: %w", path, err)
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// ReadCategory reads a previous export of one category.
func (s *CSVStore) ReadCategory(path string, category models.Category) ([]models.Transaction, error) {
	codec, ok := codecs[category]
	if !ok {
		return nil, fmt.Errorf("no CSV layout for category %q", category)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close file", logging.F(logging.FieldFile, path))
		}
	}()

	txs, err := codec.read(file, s.delimiter)
	if err != nil {
		return nil, fmt.Errorf("error parsing CSV file %s: %w", path, err)
	}
	return txs, nil
}

// ReadDirectory reads every category export found in dir, ordered by arrival
// time. Missing files are skipped, so a fresh output directory yields no
// transactions.
func (s *CSVStore) ReadDirectory(dir string) ([]models.Transaction, error) {
	var all []models.Transaction
	for _, c := range models.TransactionCategories {
		path := filepath.Join(dir, CategoryFileName(c))
		if !fileutils.FileExists(path) {
			continue
		}
		txs, err := s.ReadCategory(path, c)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("Loaded previous export",
			logging.F(logging.FieldInputFile, path),
			logging.F(logging.FieldCount, len(txs)))
		all = append(all, txs...)
	}

	slices.SortStableFunc(all, func(a, b models.Transaction) int {
		return cmp.Compare(a.Common().ReceivedAt, b.Common().ReceivedAt)
	})
	return all, nil
}

// ReadFailures reads <dir>/failures.csv. A missing file yields no records.
func (s *CSVStore) ReadFailures(dir string) ([]models.FailureRecord, error) {
	path := filepath.Join(dir, FailuresFileName)
	if !fileutils.FileExists(path) {
		return nil, nil
	}
	return ReadCSVFile[models.FailureRecord](path, s.delimiter, s.logger)
}
