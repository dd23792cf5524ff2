// Package archive stores the binary archives returned by batch downloads.
//
// [LocalSink] writes into a directory; [GCSSink] uploads to a Cloud Storage bucket. [Open] picks one
// from [shared.ArchiveConfig]: a non-empty bucket selects Cloud Storage.
package archive
