// Package files locates delivery spreadsheets on disk.
//
// Discovery lists the sheets of a directory that the loader can read and
// picks the most recent one, which is how the batch command selects its
// input when no file is given:
//
//	d := files.NewDiscovery(baseDir)
//	sheets, err := d.FindSheets("entrada", files.ExtXLSX)
//	latest, ok := files.Latest(sheets)
package files
