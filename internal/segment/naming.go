package segment

import "fmt"

// PartialSuffix marks in-progress or abandoned segment output. A file with
// this suffix is never treated as valid; it is either promoted by rename on
// success or deleted as an orphan on the next run.
const PartialSuffix = ".part"

// ArtifactName returns the final on-disk name for one completed segment:
// "<stem>_seg<4-digit-index><ext>".
func ArtifactName(stem string, index int, ext string) string {
	return fmt.Sprintf("%s_seg%04d%s", stem, index, ext)
}

// PartialName returns the in-progress name for a segment encode.
func PartialName(stem string, index int, ext string) string {
	return ArtifactName(stem, index, ext) + PartialSuffix
}
