// Package publish copies the assets referenced by an indexing run into an
// output location.
//
// # Keys
//
// Every accepted file is published under the same slash-separated path it
// has in the input tree, so the output mirrors the archive. Keys are compared
// case-insensitively while planning because the output may live on a
// case-insensitive filesystem or be served from one. The first reference in
// model order keeps a contested key; later ones are removed from the model
// and reported as warnings.
//
// # Sinks
//
// A [Sink] stores bytes under a key. [LocalSink] writes a directory tree and
// [S3Sink] uploads into an S3-compatible bucket through minio-go:
//
//	sink, err := publish.NewS3Sink(publish.S3Config{
//		Endpoint:  "localhost:9000",
//		AccessKey: key,
//		SecretKey: secret,
//		Bucket:    "scores",
//	})
//
// # Derived assets
//
// With previews enabled, PNG and JPEG parts gain a small JPEG stored beside
// them as <stem>.preview.jpg. Previews never enter the model. With audio
// stamping enabled, mp3 part files have their ID3v2 tag rewritten with the
// song, arrangement, composer, part name and tags before they are stored.
package publish
