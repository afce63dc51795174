// Package xmlsax is a small callback-driven XML reader.
//
// A Parser feeds a document through encoding/xml and reports element
// starts and ends to a Handler in document order. It additionally:
//
//   - reports the DOCTYPE system identifier and the comments that precede
//     the root element (DoctypeHandler, CommentHandler)
//   - resolves external entities declared as <!ENTITY name SYSTEM "path">
//     by parsing the referenced file into the same Handler at the point
//     of reference; paths are relative to the referencing file
//   - decodes ISO-8859-1 and windows-1252 documents and skips a UTF-8 BOM
//
// Errors inside an included file are logged and do not abort the
// including document.
package xmlsax
