// Package ingest turns uploaded delivery sheets into normalized tables.
//
// Readers decode .xlsx/.xls workbooks with excelize and .csv files through
// a fixed list of encoding and separator attempts. The Loader runs the
// result through the dataprocessing pipeline and memoizes it in a
// content-addressed Cache so that re-uploading the same file is free.
package ingest
