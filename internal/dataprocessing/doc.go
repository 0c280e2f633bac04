// Package dataprocessing implements the delivery report pipeline: column
// detection, validation, preprocessing, filtering, aggregation, quality
// scoring and statistics.
//
// Every function is a pure transformation of a domain.Table; tables are
// never modified in place.
//
//	prepared, err := pipeline.Prepare(raw)
//	if err != nil {
//	    return err
//	}
//	subset := dataprocessing.ApplyFilters(prepared.Table, prepared.Columns, spec)
//	subset = dataprocessing.FilterByStatus(subset, prepared.Columns, domain.StatusPending)
//	report := dataprocessing.GroupByDeliverer(subset, prepared.Columns)
//
// # Data Flow
//
//	raw table → Validate → DetectColumns → Preprocess → ApplyFilters
//	          → FilterByStatus → GroupByDeliverer → exporter
//
// AssessQuality and ComputeStatistics can run on either the normalized or
// the filtered table.
package dataprocessing
