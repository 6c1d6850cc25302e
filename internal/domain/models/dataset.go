package models

import "time"

// Dataset is an uploaded or generated dataset kept in the dataset store.
type Dataset struct {
	Name      string           `json:"name"`
	Columns   []ColumnInfo     `json:"columns"`
	Records   []map[string]any `json:"records"`
	RowCount  int              `json:"row_count"`
	CreatedAt time.Time        `json:"created_at"`
}

// ColumnInfo describes one detected column of a dataset.
type ColumnInfo struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"` // numeric, datetime, text
	NullCount  int    `json:"null_count"`
	SampleSize int    `json:"sample_size"`
}

// DatasetMeta is the listing view of a stored dataset.
type DatasetMeta struct {
	Name      string    `json:"name"`
	RowCount  int       `json:"row_count"`
	CreatedAt time.Time `json:"created_at"`
}
