// Package ioutils provides file system and image processing utilities.
//
// # File Operations
//
//	// Write a published asset, creating parent directories
//	err := ioutils.WriteFile(ctx, "/out/funk/song/song-tuba.svg", data)
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/out/funk")
//
// # Image Processing
//
// The ImageService makes preview thumbnails of raster parts:
//
//	svc := ioutils.NewImageService(85)
//	preview, err := svc.Preview(ctx, pngData, 400)
package ioutils
