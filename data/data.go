// Package data holds datasets compiled into the binaries.
package data

import _ "embed"

// WineCSV is the UCI wine recognition table: 178 rows, 13 numeric features
// and a target column of class codes 0..2.
//
//go:embed wine.csv
var WineCSV []byte
