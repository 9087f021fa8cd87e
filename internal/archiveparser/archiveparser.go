// Package archiveparser loads SMS Backup & Restore XML archives into raw
// messages in archival order.
package archiveparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"slices"
	"strconv"
	"strings"

	"mmony/momo-csv/internal/encoding"
	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/models"
	"mmony/momo-csv/internal/parsererror"
	"mmony/momo-csv/internal/xmlutils"

	"gopkg.in/xmlpath.v2"
)

// ExpectedFormat names the accepted input in error messages.
const ExpectedFormat = "SMS Backup & Restore XML (<smses><sms .../></smses>)"

var (
	bodyPath         = xmlpath.MustCompile(xmlutils.XPathBody)
	datePath         = xmlpath.MustCompile(xmlutils.XPathDate)
	addressPath      = xmlpath.MustCompile(xmlutils.XPathAddress)
	readableDatePath = xmlpath.MustCompile(xmlutils.XPathReadableDate)
	rootPath         = xmlpath.MustCompile(xmlutils.XPathRoot)
	countPath        = xmlpath.MustCompile(xmlutils.XPathCount)
	messagesPath     = xmlpath.MustCompile(xmlutils.XPathMessages)
)

// Loader reads archives. The whole document is parsed up front, so a
// structural error surfaces before any message is yielded.
type Loader struct {
	logger logging.Logger
}

// New creates a Loader.
func New(logger logging.Logger) *Loader {
	return &Loader{logger: logging.OrDefault(logger)}
}

// Load opens and parses the archive at path. The returned sequence is
// finite and yields messages in document order.
func (l *Loader) Load(path string) (iter.Seq[models.RawMessage], error) {
	msgs, err := l.LoadAll(path)
	if err != nil {
		return nil, err
	}
	return slices.Values(msgs), nil
}

// LoadAll is Load returning a slice.
func (l *Loader) LoadAll(path string) ([]models.RawMessage, error) {
	l.logger.Info("Loading SMS archive", logging.Field{Key: logging.FieldFile, Value: path})

	f, err := os.Open(path)
	if err != nil {
		reason := "cannot open archive"
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %w", parsererror.ErrFileNotFound, err)
		}
		return nil, &parsererror.SourceUnreadableError{FilePath: path, Reason: reason, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			l.logger.WithError(cerr).Warn("Failed to close archive")
		}
	}()

	return l.parse(f, path)
}

// Parse reads an archive from r. name is used in errors and logs only.
func (l *Loader) Parse(r io.Reader, name string) (iter.Seq[models.RawMessage], error) {
	msgs, err := l.parse(r, name)
	if err != nil {
		return nil, err
	}
	return slices.Values(msgs), nil
}

func (l *Loader) parse(r io.Reader, name string) ([]models.RawMessage, error) {
	utf8r, enc, err := encoding.Detect(r)
	if err != nil {
		return nil, &parsererror.SourceUnreadableError{FilePath: name, Reason: "cannot read archive", Err: err}
	}

	cr := xmlutils.CharsetReader(xmlutils.DeclaredCharset)
	if encoding.IsTranscoded(enc) {
		l.logger.Debug("Archive transcoded to UTF-8",
			logging.Field{Key: logging.FieldFile, Value: name},
			logging.Field{Key: "encoding", Value: enc})
		cr = xmlutils.IgnoreDeclaration
	}

	root, err := xmlutils.Parse(utf8r, cr)
	if err != nil {
		return nil, &parsererror.SourceUnreadableError{FilePath: name, Reason: "malformed XML", Err: err}
	}
	if !rootPath.Exists(root) {
		return nil, &parsererror.SourceUnreadableError{FilePath: name, Reason: "missing <smses> message list"}
	}

	var msgs []models.RawMessage
	it := messagesPath.Iter(root)
	for it.Next() {
		msgs = append(msgs, l.message(it.Node(), len(msgs), name))
	}

	if declared, ok := countPath.String(root); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(declared)); err == nil && n != len(msgs) {
			l.logger.Warn("Archive count attribute does not match messages found",
				logging.Field{Key: logging.FieldFile, Value: name},
				logging.Field{Key: "declared", Value: n},
				logging.Field{Key: logging.FieldCount, Value: len(msgs)})
		}
	}

	l.logger.Info("Loaded SMS archive",
		logging.Field{Key: logging.FieldFile, Value: name},
		logging.Field{Key: logging.FieldCount, Value: len(msgs)})
	return msgs, nil
}

func (l *Loader) message(node *xmlpath.Node, index int, name string) models.RawMessage {
	msg := models.RawMessage{
		Index:        index,
		Body:         xmlutils.StringOrEmpty(bodyPath, node),
		Address:      xmlutils.StringOrEmpty(addressPath, node),
		ReadableDate: xmlutils.StringOrEmpty(readableDatePath, node),
	}
	if raw, ok := datePath.String(node); ok {
		ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			l.logger.Debug("Ignoring unparseable message date",
				logging.Field{Key: logging.FieldFile, Value: name},
				logging.Field{Key: "index", Value: index},
				logging.Field{Key: "date", Value: raw})
		} else {
			msg.Date = ms
		}
	}
	return msg
}

// ValidateFormat reports whether path looks like an SMS backup archive by
// sniffing its first bytes. It does not parse the whole document.
func (l *Loader) ValidateFormat(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("%w: %s", parsererror.ErrFileNotFound, path)
		}
		return false, err
	}
	defer f.Close()

	r, _, err := encoding.Detect(f)
	if err != nil {
		return false, err
	}
	head := make([]byte, 4096)
	n, err := io.ReadFull(bufio.NewReader(r), head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, err
	}
	return strings.Contains(string(head[:n]), "<smses"), nil
}

// CheckFormat is ValidateFormat returning an InvalidFormatError for
// non-archives.
func (l *Loader) CheckFormat(path string) error {
	ok, err := l.ValidateFormat(path)
	if err != nil {
		return err
	}
	if !ok {
		return &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: ExpectedFormat,
			Msg:            "no <smses> element near the start of the file",
		}
	}
	return nil
}
