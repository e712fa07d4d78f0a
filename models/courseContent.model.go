package models

// SectionContent references an uploaded file; both fields are empty when the
// section was created without one.
type SectionContent struct {
	Filename string `json:"filename" bson:"filename"`
	Path     string `json:"path" bson:"path"`
}

// Empty reports whether no file is attached.
func (c SectionContent) Empty() bool {
	return c.Filename == ""
}
