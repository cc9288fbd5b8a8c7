// Package wikidump finds and reads pages in wikipedia xml dumps by byte
// offset.
//
// The dumps are available from the wikimedia group here:
//    http://dumps.wikimedia.org/
//
// A BoundaryScanner walks an uncompressed dump once and emits the byte
// range of every <page>.  Ranges can be kept and read back later, in any
// order, with ReadPage or a Dump, without scanning the file again.
//
// See the programs in the tools subdirectory for an idea of how these
// fit together.
package wikidump
