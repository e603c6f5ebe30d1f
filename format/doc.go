// Package format reads spectra from files.
//
// A Registry maps lower-case file extensions to loaders. Each loader turns
// one file into a *spectra.Spectrum or fails with a *spectra.Error whose
// Kind tells an unrecognized or disabled format (UnsupportedFormat) apart
// from malformed content (ParseFailure) and from content without usable
// points (EmptyResult).
//
// The default registry knows these formats:
//
//	jcamp        .jdx .jcamp .dx   JCAMP-DX text (AFFN and ASDF data tables)
//	hdf5         .h5 .hdf5         datasets x and y, or a single dataset data
//	netcdf       .nc               variables x and y plus global attributes
//	delimited    .csv .tsv .txt    header row, tab for .tsv, comma otherwise
//	spreadsheet  .xlsx .xls        header row, first sheet only
//
// Tables with two or more columns take x from the first column and y from
// the second; a single column is y over the implicit index 0..n-1.
package format
