// Package files discovers dataset files on disk.
//
// Discovery lists the files a loader can read (.csv, .tsv, .txt, .xlsx,
// .xlsm) in a directory, with paths relative to a base directory so they can
// be fed straight back as a dataset path.
//
//	discovery := files.NewDiscovery(paths.BaseDir)
//	datasets, err := discovery.FindDatasets(paths.RawDir)
//	latest, ok := files.GetLatestFile(datasets)
package files
