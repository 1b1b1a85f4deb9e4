// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package dataset loads the sales export and groups its rows into
// transactions for the mining engine. One CSV row is one invoice line; all
// lines sharing an invoice ID form one transaction, with duplicate products
// collapsing to presence/absence.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/basketry/internal/mining"
)

// ErrEmptyFile indicates the sales export contained no data rows.
var ErrEmptyFile = errors.New("dataset file is empty")

// ColumnError indicates a required column is missing from the CSV header.
type ColumnError struct {
	Column string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("dataset is missing required column %q", e.Column)
}

// Snapshot is one immutable load of the dataset. It is shared read-only
// between concurrent mining requests and replaced wholesale on reload.
type Snapshot struct {
	// Transactions holds the grouped invoices in first-seen order.
	Transactions [][]mining.Item

	// Products lists the distinct product names, sorted.
	Products []string

	// Rows is the number of data rows read; Skipped counts rows dropped for
	// missing an invoice ID or product.
	Rows    int
	Skipped int

	LoadedAt time.Time
}

// Loader reads and groups the sales CSV.
type Loader struct {
	path       string
	invoiceCol string
	productCol string
	logger     zerolog.Logger
}

// NewLoader creates a loader for the given file and column layout.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLoader(path, invoiceCol, productCol string, logger zerolog.Logger) *Loader {
	return &Loader{
		path:       path,
		invoiceCol: invoiceCol,
		productCol: productCol,
		logger:     logger.With().Str("component", "dataset").Logger(),
	}
}

// Load reads the CSV and groups rows into transactions. Rows without an
// invoice ID or product are skipped and counted, not fatal.
func (l *Loader) Load() (*Snapshot, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", l.path, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	snap, err := l.parse(f)
	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Str("path", l.path).
		Int("rows", snap.Rows).
		Int("skipped", snap.Skipped).
		Int("transactions", len(snap.Transactions)).
		Int("products", len(snap.Products)).
		Msg("dataset loaded")
	return snap, nil
}

func (l *Loader) parse(r io.Reader) (*Snapshot, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged exports are tolerated, cells validated per row

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("read dataset header: %w", err)
	}

	invoiceIdx, productIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case l.invoiceCol:
			invoiceIdx = i
		case l.productCol:
			productIdx = i
		}
	}
	if invoiceIdx < 0 {
		return nil, &ColumnError{Column: l.invoiceCol}
	}
	if productIdx < 0 {
		return nil, &ColumnError{Column: l.productCol}
	}

	// Group rows by invoice, preserving first-seen invoice order so the
	// transaction list is deterministic for a given file.
	byInvoice := make(map[string][]mining.Item)
	var order []string
	products := make(map[string]struct{})

	snap := &Snapshot{LoadedAt: time.Now()}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset row: %w", err)
		}
		snap.Rows++

		if invoiceIdx >= len(record) || productIdx >= len(record) {
			snap.Skipped++
			continue
		}
		invoice := strings.TrimSpace(record[invoiceIdx])
		product := strings.TrimSpace(record[productIdx])
		if invoice == "" || product == "" {
			snap.Skipped++
			continue
		}

		if _, seen := byInvoice[invoice]; !seen {
			order = append(order, invoice)
		}
		byInvoice[invoice] = append(byInvoice[invoice], product)
		products[product] = struct{}{}
	}

	if snap.Rows == 0 {
		return nil, ErrEmptyFile
	}

	snap.Transactions = make([][]mining.Item, 0, len(order))
	for _, invoice := range order {
		snap.Transactions = append(snap.Transactions, byInvoice[invoice])
	}

	snap.Products = make([]string, 0, len(products))
	for p := range products {
		snap.Products = append(snap.Products, p)
	}
	sort.Strings(snap.Products)

	return snap, nil
}
