// Package diff parses unified diff patches and maps file line numbers to
// GitHub diff positions.
//
// The hosting platform only permits inline review comments on lines that
// appear inside a hunk: added and context lines on the new side (RIGHT),
// deleted lines on the old side (LEFT). The parser tracks both line
// numberings so candidates from the model can be validated against the
// addable positions and converted to the 1-indexed position GitHub's
// review API expects (counted from the first @@ header of the file).
package diff
