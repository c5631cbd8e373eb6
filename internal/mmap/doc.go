// Package mmap maps files into memory read-only.
//
// LocalStore serves dataset blobs from a Mapping so that a large point file is
// paged in by the kernel as the text reader scans it instead of being copied
// into the heap first. On platforms without mmap support the file is read into
// memory and served from there.
package mmap
