// Package imagestorage stores project image bytes in S3-compatible object
// storage via MinIO.
//
// Objects are keyed as
//
//	projects/{projectID}/images/{imageID}/{random}{ext}
//
// with a random suffix so re-uploads never collide and keys are not
// guessable. Image URLs resolve either against a public CDN base URL or,
// when none is configured, as presigned GET links with a bounded TTL.
//
// The search engine only ever sees the storage key; the bytes themselves
// stay in the bucket.
package imagestorage
