package sheets

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/SundayKoi/inhouse-stats-tracker/internal/logging"
)

// Dimensions for worksheets this tool creates itself.
const (
	newSheetRows = 1000
	newSheetCols = 60
)

// Writer appends stat rows to a named Google spreadsheet. The spreadsheet is
// located by name through the Drive API, which means the service account
// must have been shared on it; Writer never creates spreadsheets, only
// worksheets inside one.
type Writer struct {
	sheets          *sheets.Service
	drive           *drive.Service
	spreadsheetName string
	spreadsheetID   string // resolved lazily, cached for the run
	log             logging.Interface
}

// Option configures a Writer.
type Option func(*settings)

type settings struct {
	endpoint   string
	httpClient *http.Client
	logger     logging.Interface
}

// WithEndpoint points both API clients at a custom base URL (useful for
// testing against httptest servers).
func WithEndpoint(url string) Option {
	return func(s *settings) {
		s.endpoint = url
	}
}

// WithHTTPClient supplies a pre-authenticated (or test) HTTP client,
// bypassing the service-account credential flow.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) {
		s.httpClient = hc
	}
}

// WithLogger overrides the default logger.
func WithLogger(log logging.Interface) Option {
	return func(s *settings) {
		s.logger = log
	}
}

// New builds a Writer authenticated via the service-account JSON key at
// credentialsFile, with spreadsheet and drive scopes.
func New(ctx context.Context, credentialsFile, spreadsheetName string, opts ...Option) (*Writer, error) {
	s := settings{logger: logging.Logger()}
	for _, opt := range opts {
		opt(&s)
	}

	if s.httpClient == nil {
		data, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file %s: %w", credentialsFile, err)
		}
		jwt, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope, drive.DriveScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse service-account credentials: %w", err)
		}
		s.httpClient = jwt.Client(ctx)
	}

	clientOpts := []option.ClientOption{option.WithHTTPClient(s.httpClient)}
	if s.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(s.endpoint))
	}

	sheetsSvc, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}

	return &Writer{
		sheets:          sheetsSvc,
		drive:           driveSvc,
		spreadsheetName: spreadsheetName,
		log:             s.logger,
	}, nil
}

// resolveSpreadsheetID finds the spreadsheet by name via Drive search. Not
// finding it is fatal for the run: creating a spreadsheet the service
// account owns would leave it invisible to the humans reading the stats.
func (w *Writer) resolveSpreadsheetID(ctx context.Context) (string, error) {
	if w.spreadsheetID != "" {
		return w.spreadsheetID, nil
	}

	query := fmt.Sprintf(
		"name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
		strings.ReplaceAll(w.spreadsheetName, `'`, `\'`))

	list, err := w.drive.Files.List().Q(query).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to search for spreadsheet: %w", err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("spreadsheet %q not found - make sure you've shared it with the service account email",
			w.spreadsheetName)
	}

	w.spreadsheetID = list.Files[0].Id
	return w.spreadsheetID, nil
}

// EnsureWorksheet creates the named worksheet if the spreadsheet does not
// already have it.
func (w *Writer) EnsureWorksheet(ctx context.Context, worksheet string) error {
	id, err := w.resolveSpreadsheetID(ctx)
	if err != nil {
		return err
	}

	meta, err := w.sheets.Spreadsheets.Get(id).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet metadata: %w", err)
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == worksheet {
			return nil
		}
	}

	w.log.Infof("worksheet %q not found, creating it", worksheet)
	_, err = w.sheets.Spreadsheets.BatchUpdate(id, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: worksheet,
						GridProperties: &sheets.GridProperties{
							RowCount:    newSheetRows,
							ColumnCount: newSheetCols,
						},
					},
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to create worksheet %q: %w", worksheet, err)
	}
	return nil
}

// Append writes the header row if the worksheet does not already carry it,
// then appends all data rows after the last occupied row. Existing rows are
// never overwritten or reordered; re-running against a worksheet that
// already has the header adds no second header.
func (w *Writer) Append(ctx context.Context, worksheet string, headers []string, rows [][]interface{}) error {
	id, err := w.resolveSpreadsheetID(ctx)
	if err != nil {
		return err
	}

	firstRow, err := w.sheets.Spreadsheets.Values.Get(id, fmt.Sprintf("'%s'!1:1", worksheet)).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read header row: %w", err)
	}

	if needsHeader(firstRow, headers) {
		headerCells := make([]interface{}, len(headers))
		for i, h := range headers {
			headerCells[i] = h
		}
		_, err = w.sheets.Spreadsheets.Values.Update(id, fmt.Sprintf("'%s'!A1", worksheet), &sheets.ValueRange{
			Values: [][]interface{}{headerCells},
		}).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to write header row: %w", err)
		}
		w.log.Infof("added headers to %q", worksheet)
	}

	if len(rows) == 0 {
		return nil
	}

	// Find the first free row by reading current occupancy, then write the
	// block there. RAW input keeps the typed cell values as sent.
	existing, err := w.sheets.Spreadsheets.Values.Get(id, fmt.Sprintf("'%s'", worksheet)).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read existing rows: %w", err)
	}

	nextRow := len(existing.Values) + 1
	_, err = w.sheets.Spreadsheets.Values.Update(id, fmt.Sprintf("'%s'!A%d", worksheet, nextRow), &sheets.ValueRange{
		Values: rows,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append rows: %w", err)
	}

	w.log.Infof("wrote %d rows to %q starting at row %d", len(rows), worksheet, nextRow)
	return nil
}

// needsHeader decides whether row 1 must be (re)written: it is missing, or
// its first cell does not match the canonical first header.
func needsHeader(firstRow *sheets.ValueRange, headers []string) bool {
	if firstRow == nil || len(firstRow.Values) == 0 || len(firstRow.Values[0]) == 0 {
		return true
	}
	cell, ok := firstRow.Values[0][0].(string)
	return !ok || cell != headers[0]
}
