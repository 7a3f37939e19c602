// Package typeset adapts template source and bound input data into the
// representation the typesetting engine works on, and provides the
// default engine implementation: a small markup compiler plus a PDF
// encoder backed by gofpdf.
//
// The central type is World: it presents the template source as the
// sole resolvable file, holds the current bound input value under the
// fixed input name "data", and maps engine spans back to byte offsets
// in the original source. A World may be rebuilt fresh per render or
// kept and fed new data via UpdateData to amortize setup cost across
// renders of the same template. One World must never serve two
// in-flight renders at once; reuse is strictly sequential.
package typeset
