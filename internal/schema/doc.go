// Package schema declares the expected shape of a score archive.
//
// The archive layout is almost regular: tag folders hold song folders, song
// folders hold arrangement folders, arrangement folders hold one file per
// instrument. The exceptions (songs without an arrangement folder, folders
// keyed by file format) are encoded as ordered alternatives rather than code:
//
//	[]schema.Node{
//	    {Kind: schema.KindFile, Class: schema.ClassSongMetadata, Test: schema.IsMetadataFile},
//	    {Kind: schema.KindDirectory, Class: schema.ClassUntitledArrangement, Test: schema.IsFormatKey},
//	    {Kind: schema.KindDirectory, Class: schema.ClassArrangement},
//	    {Kind: schema.KindFile, Class: schema.ClassUntitledArrangementFile},
//	}
//
// Order is priority: Match returns the first alternative that accepts an
// entry, so specific alternatives must precede catch-alls.
package schema
