// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tomtom215/basketry/internal/mining"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func testLoader(path string) *Loader {
	return NewLoader(path, "Invoice ID", "Product", testLogger())
}

func TestLoadGroupsRowsByInvoice(t *testing.T) {
	path := writeTempCSV(t, `Invoice ID,Branch,Product
INV-1,A,Bread
INV-1,A,Butter
INV-2,B,Milk
INV-1,A,Bread
INV-3,A,Butter
`)

	snap, err := testLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := [][]mining.Item{
		{"Bread", "Butter", "Bread"},
		{"Milk"},
		{"Butter"},
	}
	if !reflect.DeepEqual(snap.Transactions, want) {
		t.Errorf("Transactions = %v, want %v", snap.Transactions, want)
	}
	if got := snap.Products; !reflect.DeepEqual(got, []string{"Bread", "Butter", "Milk"}) {
		t.Errorf("Products = %v, want sorted distinct list", got)
	}
	if snap.Rows != 5 || snap.Skipped != 0 {
		t.Errorf("Rows/Skipped = %d/%d, want 5/0", snap.Rows, snap.Skipped)
	}
}

func TestLoadSkipsIncompleteRows(t *testing.T) {
	path := writeTempCSV(t, `Invoice ID,Product
INV-1,Bread
,Butter
INV-2,
INV-2,Milk
`)

	snap, err := testLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snap.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", snap.Skipped)
	}
	if len(snap.Transactions) != 2 {
		t.Errorf("got %d transactions, want 2", len(snap.Transactions))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := testLoader(filepath.Join(t.TempDir(), "nope.csv")).Load()
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	for name, content := range map[string]string{
		"no bytes":    "",
		"header only": "Invoice ID,Product\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := testLoader(writeTempCSV(t, content)).Load()
			if !errors.Is(err, ErrEmptyFile) {
				t.Errorf("Load() error = %v, want ErrEmptyFile", err)
			}
		})
	}
}

func TestLoadMissingColumn(t *testing.T) {
	path := writeTempCSV(t, `Invoice ID,SKU
INV-1,123
`)

	_, err := testLoader(path).Load()
	var colErr *ColumnError
	if !errors.As(err, &colErr) {
		t.Fatalf("Load() error = %v, want *ColumnError", err)
	}
	if colErr.Column != "Product" {
		t.Errorf("ColumnError.Column = %q, want %q", colErr.Column, "Product")
	}
}
